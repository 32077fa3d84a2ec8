package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/devogs/epic-events-crm/internal/auth"
	"github.com/devogs/epic-events-crm/internal/authz"
	"github.com/devogs/epic-events-crm/internal/model"
)

type CreateEmployeeInput struct {
	FullName string
	Email    string
	Phone    string
	Role     model.Role
	Password string
}

func (s *CRMService) CreateEmployee(ctx context.Context, p model.Principal, input CreateEmployeeInput) (*model.Employee, error) {
	if denial := s.gate.Authorize(p, authz.ActionCreateEmployee); denial != nil {
		return nil, denial
	}
	if input.FullName == "" || input.Password == "" {
		return nil, fmt.Errorf("%w: full_name and password are required", ErrInvalidInput)
	}
	if !authz.ValidEmail(input.Email) {
		return nil, fmt.Errorf("%w: invalid email format", ErrInvalidInput)
	}
	if input.Phone != "" && !authz.ValidPhone(input.Phone) {
		return nil, fmt.Errorf("%w: invalid phone format", ErrInvalidInput)
	}
	if !input.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role", ErrInvalidInput)
	}

	if _, err := s.employees.GetEmployeeByEmail(ctx, input.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	return s.employees.CreateEmployee(ctx, model.Employee{
		FullName:     input.FullName,
		Email:        input.Email,
		Phone:        input.Phone,
		Role:         input.Role,
		PasswordHash: hash,
	})
}

func (s *CRMService) GetEmployee(ctx context.Context, p model.Principal, id uuid.UUID) (*model.Employee, error) {
	if denial := s.gate.Authorize(p, authz.ActionViewEmployees); denial != nil {
		return nil, denial
	}
	employee, err := s.employees.GetEmployee(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return employee, nil
}

func (s *CRMService) ListEmployees(ctx context.Context, p model.Principal) ([]model.Employee, error) {
	if denial := s.gate.Authorize(p, authz.ActionViewEmployees); denial != nil {
		return nil, denial
	}
	return s.employees.ListEmployees(ctx)
}

func (s *CRMService) UpdateEmployee(ctx context.Context, p model.Principal, id uuid.UUID, cs model.EmployeeChangeSet) (*model.Employee, error) {
	if denial := s.gate.Authorize(p, authz.ActionUpdateEmployee); denial != nil {
		return nil, denial
	}
	employee, err := s.employees.GetEmployee(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if cs.Empty() {
		return employee, nil
	}

	if cs.FullName != nil {
		if *cs.FullName == "" {
			return nil, fmt.Errorf("%w: full_name must not be empty", ErrInvalidInput)
		}
		employee.FullName = *cs.FullName
	}
	if cs.Email != nil {
		if !authz.ValidEmail(*cs.Email) {
			return nil, fmt.Errorf("%w: invalid email format", ErrInvalidInput)
		}
		if existing, err := s.employees.GetEmployeeByEmail(ctx, *cs.Email); err == nil {
			if existing.ID != employee.ID {
				return nil, ErrEmailTaken
			}
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		employee.Email = *cs.Email
	}
	if cs.Phone != nil {
		if *cs.Phone != "" && !authz.ValidPhone(*cs.Phone) {
			return nil, fmt.Errorf("%w: invalid phone format", ErrInvalidInput)
		}
		employee.Phone = *cs.Phone
	}
	if cs.Password != nil {
		if *cs.Password == "" {
			return nil, fmt.Errorf("%w: password must not be empty", ErrInvalidInput)
		}
		hash, err := auth.HashPassword(*cs.Password, s.bcryptCost)
		if err != nil {
			return nil, err
		}
		employee.PasswordHash = hash
	}
	if cs.Role != nil {
		if !cs.Role.Valid() {
			return nil, fmt.Errorf("%w: unknown role", ErrInvalidInput)
		}
		// Demoting the last management employee would lock everyone
		// out, same as deleting them.
		if employee.Role == model.RoleManagement && *cs.Role != model.RoleManagement {
			count, err := s.employees.CountByRole(ctx, model.RoleManagement)
			if err != nil {
				return nil, err
			}
			if count <= 1 {
				return nil, fmt.Errorf("%w: cannot remove the last management employee", ErrInvalidInput)
			}
		}
		employee.Role = *cs.Role
	}

	if err := s.employees.UpdateEmployee(ctx, *employee); err != nil {
		return nil, err
	}
	return employee, nil
}

func (s *CRMService) DeleteEmployee(ctx context.Context, p model.Principal, id uuid.UUID) error {
	if denial := s.gate.Authorize(p, authz.ActionDeleteEmployee); denial != nil {
		return denial
	}
	employee, err := s.employees.GetEmployee(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	if employee.Role == model.RoleManagement {
		count, err := s.employees.CountByRole(ctx, model.RoleManagement)
		if err != nil {
			return err
		}
		if count <= 1 {
			return fmt.Errorf("%w: cannot delete the last management employee", ErrInvalidInput)
		}
	}
	return s.employees.DeleteEmployee(ctx, id)
}
