package repository

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/devogs/epic-events-crm/internal/authz"
	"github.com/devogs/epic-events-crm/internal/model"
)

type EventRepository struct {
	db *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{db: db}
}

func (r *EventRepository) GetEvent(ctx context.Context, id uuid.UUID) (*model.Event, error) {
	var event model.Event
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, contract_id, name, attendees, start_at, end_at, location, notes, support_contact_id, created_at
		FROM events
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&event).Error
	if err != nil {
		return nil, err
	}
	if event.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &event, nil
}

func (r *EventRepository) ListEvents(ctx context.Context, scope authz.EventScope) ([]model.Event, error) {
	baseQuery := `
		SELECT e.id, e.contract_id, e.name, e.attendees, e.start_at, e.end_at, e.location, e.notes, e.support_contact_id, e.created_at
		FROM events e
	`
	var filters []string
	var args []interface{}
	if scope.SalesContactID != nil {
		baseQuery += ` JOIN contracts c ON c.id = e.contract_id`
		filters = append(filters, "c.sales_contact_id = ?")
		args = append(args, *scope.SalesContactID)
	}
	if scope.SupportContactID != nil {
		filters = append(filters, "e.support_contact_id = ?")
		args = append(args, *scope.SupportContactID)
	}
	if scope.OnlyUnassigned {
		filters = append(filters, "e.support_contact_id IS NULL")
	}
	if scope.AssignedToOrUnassigned != nil {
		filters = append(filters, "(e.support_contact_id = ? OR e.support_contact_id IS NULL)")
		args = append(args, *scope.AssignedToOrUnassigned)
	}
	if len(filters) > 0 {
		baseQuery += " WHERE " + strings.Join(filters, " AND ")
	}
	baseQuery += " ORDER BY e.start_at ASC"

	var events []model.Event
	if err := r.db.WithContext(ctx).Raw(baseQuery, args...).Scan(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (r *EventRepository) CreateEvent(ctx context.Context, event model.Event) (*model.Event, error) {
	var saved model.Event
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO events (contract_id, name, attendees, start_at, end_at, location, notes, support_contact_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id, contract_id, name, attendees, start_at, end_at, location, notes, support_contact_id, created_at
	`,
		event.ContractID,
		event.Name,
		event.Attendees,
		event.StartAt,
		event.EndAt,
		event.Location,
		event.Notes,
		event.SupportContactID,
	).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *EventRepository) UpdateEvent(ctx context.Context, event model.Event) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE events
		SET name = ?, attendees = ?, start_at = ?, end_at = ?, location = ?, notes = ?, support_contact_id = ?
		WHERE id = ?
	`,
		event.Name,
		event.Attendees,
		event.StartAt,
		event.EndAt,
		event.Location,
		event.Notes,
		event.SupportContactID,
		event.ID,
	).Error
}
