package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/devogs/epic-events-crm/internal/authz"
	"github.com/devogs/epic-events-crm/internal/model"
)

type CreateEventInput struct {
	ContractID uuid.UUID
	Name       string
	Attendees  int
	StartAt    time.Time
	EndAt      time.Time
	Location   string
	Notes      string
}

func (s *CRMService) CreateEvent(ctx context.Context, p model.Principal, input CreateEventInput) (*model.Event, error) {
	contract, err := s.contracts.GetContract(ctx, input.ContractID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	approved, err := s.gate.AuthorizeEventCreate(p, *contract, model.Event{
		Name:      input.Name,
		Attendees: input.Attendees,
		StartAt:   input.StartAt,
		EndAt:     input.EndAt,
		Location:  input.Location,
		Notes:     input.Notes,
	})
	if err != nil {
		return nil, err
	}
	return s.events.CreateEvent(ctx, approved)
}

func (s *CRMService) ListEvents(ctx context.Context, p model.Principal, filter authz.EventFilter) ([]model.Event, error) {
	scope, denial := s.gate.ScopeEvents(p, filter)
	if denial != nil {
		return nil, denial
	}
	return s.events.ListEvents(ctx, scope)
}

func (s *CRMService) UpdateEvent(ctx context.Context, p model.Principal, id uuid.UUID, cs model.EventChangeSet) (*model.Event, error) {
	event, err := s.events.GetEvent(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var assignTarget *model.Employee
	if cs.SupportContact != nil && cs.SupportContact.ContactID != nil {
		target, err := s.employees.GetEmployee(ctx, *cs.SupportContact.ContactID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		assignTarget = target
	}

	updated, err := s.gate.ApplyEventChange(p, *event, cs, assignTarget)
	if err != nil {
		return nil, err
	}
	if err := s.events.UpdateEvent(ctx, updated); err != nil {
		return nil, err
	}
	return &updated, nil
}
