package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/devogs/epic-events-crm/internal/model"
)

var (
	ErrExpired          = errors.New("session expired")
	ErrInvalid          = errors.New("session invalid")
	ErrEmployeeNotFound = errors.New("session employee not found")
	// ErrRoleDrift: the employee's role changed after the token was
	// issued. The stale claim must not keep its old permissions, so the
	// session is refused instead of silently trusting either side.
	ErrRoleDrift = errors.New("session role drift")
)

type EmployeeStore interface {
	GetEmployee(ctx context.Context, id uuid.UUID) (*model.Employee, error)
}

// Resolver turns a bearer credential into a Principal backed by the
// current employee row. Resolution happens on every request; there is
// no session cache.
type Resolver struct {
	parser    *Parser
	employees EmployeeStore
}

func NewResolver(parser *Parser, employees EmployeeStore) *Resolver {
	return &Resolver{parser: parser, employees: employees}
}

func (r *Resolver) Resolve(ctx context.Context, credential string) (model.Principal, error) {
	subjectID, claimedRole, err := r.parser.Parse(credential)
	if err != nil {
		return model.Principal{}, err
	}

	employee, err := r.employees.GetEmployee(ctx, subjectID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Principal{}, ErrEmployeeNotFound
		}
		return model.Principal{}, err
	}

	if employee.Role != claimedRole {
		return model.Principal{}, ErrRoleDrift
	}

	return model.Principal{
		EmployeeID: employee.ID,
		FullName:   employee.FullName,
		Role:       employee.Role,
	}, nil
}
