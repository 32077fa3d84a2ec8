package service

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/devogs/epic-events-crm/internal/auth"
	"github.com/devogs/epic-events-crm/internal/model"
)

type LoginResult struct {
	Token    string
	Employee model.Employee
}

func (s *CRMService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	employee, err := s.employees.GetEmployeeByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !auth.CheckPassword(password, employee.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(*employee, time.Now())
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, Employee: *employee}, nil
}
