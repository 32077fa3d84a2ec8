package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/devogs/epic-events-crm/internal/authz"
	"github.com/devogs/epic-events-crm/internal/model"
)

type ClientRepository struct {
	db *gorm.DB
}

func NewClientRepository(db *gorm.DB) *ClientRepository {
	return &ClientRepository{db: db}
}

func (r *ClientRepository) GetClient(ctx context.Context, id uuid.UUID) (*model.Client, error) {
	var client model.Client
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, full_name, email, phone, company_name, sales_contact_id, created_at, updated_at
		FROM clients
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&client).Error
	if err != nil {
		return nil, err
	}
	if client.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &client, nil
}

func (r *ClientRepository) ListClients(ctx context.Context, scope authz.ClientScope) ([]model.Client, error) {
	query := `
		SELECT id, full_name, email, phone, company_name, sales_contact_id, created_at, updated_at
		FROM clients
	`
	var args []interface{}
	if scope.SalesContactID != nil {
		query += ` WHERE sales_contact_id = ?`
		args = append(args, *scope.SalesContactID)
	}
	query += ` ORDER BY full_name ASC`

	var clients []model.Client
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&clients).Error; err != nil {
		return nil, err
	}
	return clients, nil
}

func (r *ClientRepository) CreateClient(ctx context.Context, client model.Client) (*model.Client, error) {
	var saved model.Client
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO clients (full_name, email, phone, company_name, sales_contact_id)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id, full_name, email, phone, company_name, sales_contact_id, created_at, updated_at
	`,
		client.FullName,
		client.Email,
		client.Phone,
		client.CompanyName,
		client.SalesContactID,
	).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *ClientRepository) UpdateClient(ctx context.Context, client model.Client) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE clients
		SET full_name = ?, email = ?, phone = ?, company_name = ?, sales_contact_id = ?, updated_at = NOW()
		WHERE id = ?
	`,
		client.FullName,
		client.Email,
		client.Phone,
		client.CompanyName,
		client.SalesContactID,
		client.ID,
	).Error
}
