package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/devogs/epic-events-crm/internal/authz"
	"github.com/devogs/epic-events-crm/internal/model"
)

type CreateClientInput struct {
	FullName    string
	Email       string
	Phone       string
	CompanyName string
	// SalesContactID names the owning sales contact when Management
	// creates the client. Sales actors always own what they create.
	SalesContactID *uuid.UUID
}

func (s *CRMService) CreateClient(ctx context.Context, p model.Principal, input CreateClientInput) (*model.Client, error) {
	ownerID := p.EmployeeID
	if p.IsManagement() {
		if input.SalesContactID == nil {
			return nil, fmt.Errorf("%w: sales_contact_id is required", ErrInvalidInput)
		}
		ownerID = *input.SalesContactID
	}

	owner, err := s.employees.GetEmployee(ctx, ownerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: sales contact not found", ErrInvalidInput)
		}
		return nil, err
	}

	approved, err := s.gate.AuthorizeClientCreate(p, *owner, model.Client{
		FullName:    input.FullName,
		Email:       input.Email,
		Phone:       input.Phone,
		CompanyName: input.CompanyName,
	})
	if err != nil {
		return nil, err
	}

	return s.clients.CreateClient(ctx, approved)
}

func (s *CRMService) ListClients(ctx context.Context, p model.Principal, filter authz.ClientFilter) ([]model.Client, error) {
	scope, denial := s.gate.ScopeClients(p, filter)
	if denial != nil {
		return nil, denial
	}
	return s.clients.ListClients(ctx, scope)
}

func (s *CRMService) UpdateClient(ctx context.Context, p model.Principal, id uuid.UUID, cs model.ClientChangeSet) (*model.Client, error) {
	client, err := s.clients.GetClient(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	var reassignTarget *model.Employee
	if cs.SalesContactID != nil {
		target, err := s.employees.GetEmployee(ctx, *cs.SalesContactID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		reassignTarget = target
	}

	updated, err := s.gate.ApplyClientChange(p, *client, cs, reassignTarget)
	if err != nil {
		return nil, err
	}
	if err := s.clients.UpdateClient(ctx, updated); err != nil {
		return nil, err
	}
	return &updated, nil
}
