package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/devogs/epic-events-crm/internal/authz"
	"github.com/devogs/epic-events-crm/internal/model"
)

type ContractRepository struct {
	db *gorm.DB
}

func NewContractRepository(db *gorm.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

func (r *ContractRepository) GetContract(ctx context.Context, id uuid.UUID) (*model.Contract, error) {
	var contract model.Contract
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, client_id, sales_contact_id, total_amount, remaining_amount, signed, created_at
		FROM contracts
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&contract).Error
	if err != nil {
		return nil, err
	}
	if contract.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &contract, nil
}

func (r *ContractRepository) ListContracts(ctx context.Context, scope authz.ContractScope) ([]model.Contract, error) {
	baseQuery := `
		SELECT id, client_id, sales_contact_id, total_amount, remaining_amount, signed, created_at
		FROM contracts
	`
	var filters []string
	var args []interface{}
	if scope.SalesContactID != nil {
		filters = append(filters, "sales_contact_id = ?")
		args = append(args, *scope.SalesContactID)
	}
	if scope.Signed != nil {
		filters = append(filters, "signed = ?")
		args = append(args, *scope.Signed)
	}
	if scope.Unpaid {
		filters = append(filters, "remaining_amount > 0")
	}
	if len(filters) > 0 {
		baseQuery += " WHERE " + strings.Join(filters, " AND ")
	}
	baseQuery += " ORDER BY created_at ASC"

	var contracts []model.Contract
	if err := r.db.WithContext(ctx).Raw(baseQuery, args...).Scan(&contracts).Error; err != nil {
		return nil, err
	}
	return contracts, nil
}

func (r *ContractRepository) CreateContract(ctx context.Context, contract model.Contract) (*model.Contract, error) {
	var saved model.Contract
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO contracts (client_id, sales_contact_id, total_amount, remaining_amount, signed)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id, client_id, sales_contact_id, total_amount, remaining_amount, signed, created_at
	`,
		contract.ClientID,
		contract.SalesContactID,
		contract.TotalAmount,
		contract.RemainingAmount,
		contract.Signed,
	).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *ContractRepository) UpdateContract(ctx context.Context, contract model.Contract) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE contracts
		SET total_amount = ?, remaining_amount = ?, signed = ?
		WHERE id = ?
	`,
		contract.TotalAmount,
		contract.RemainingAmount,
		contract.Signed,
		contract.ID,
	).Error
}
