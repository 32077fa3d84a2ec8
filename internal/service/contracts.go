package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/devogs/epic-events-crm/internal/authz"
	"github.com/devogs/epic-events-crm/internal/model"
)

type CreateContractInput struct {
	ClientID        uuid.UUID
	TotalAmount     float64
	RemainingAmount float64
	Signed          bool
}

func (s *CRMService) CreateContract(ctx context.Context, p model.Principal, input CreateContractInput) (*model.Contract, error) {
	client, err := s.clients.GetClient(ctx, input.ClientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	approved, err := s.gate.AuthorizeContractCreate(p, *client, model.Contract{
		TotalAmount:     input.TotalAmount,
		RemainingAmount: input.RemainingAmount,
		Signed:          input.Signed,
	})
	if err != nil {
		return nil, err
	}
	return s.contracts.CreateContract(ctx, approved)
}

func (s *CRMService) ListContracts(ctx context.Context, p model.Principal, filter authz.ContractFilter) ([]model.Contract, error) {
	scope, denial := s.gate.ScopeContracts(p, filter)
	if denial != nil {
		return nil, denial
	}
	return s.contracts.ListContracts(ctx, scope)
}

func (s *CRMService) UpdateContract(ctx context.Context, p model.Principal, id uuid.UUID, cs model.ContractChangeSet) (*model.Contract, error) {
	contract, err := s.contracts.GetContract(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	updated, err := s.gate.ApplyContractChange(p, *contract, cs)
	if err != nil {
		return nil, err
	}
	if err := s.contracts.UpdateContract(ctx, updated); err != nil {
		return nil, err
	}
	return &updated, nil
}
