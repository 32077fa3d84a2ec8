package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/devogs/epic-events-crm/internal/model"
)

type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) *EmployeeRepository {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) GetEmployee(ctx context.Context, id uuid.UUID) (*model.Employee, error) {
	var employee model.Employee
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, full_name, email, phone, role, password_hash, created_at
		FROM employees
		WHERE id = ?
		LIMIT 1
	`, id).Scan(&employee).Error
	if err != nil {
		return nil, err
	}
	if employee.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &employee, nil
}

func (r *EmployeeRepository) GetEmployeeByEmail(ctx context.Context, email string) (*model.Employee, error) {
	var employee model.Employee
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, full_name, email, phone, role, password_hash, created_at
		FROM employees
		WHERE email = ?
		LIMIT 1
	`, email).Scan(&employee).Error
	if err != nil {
		return nil, err
	}
	if employee.ID == uuid.Nil {
		return nil, gorm.ErrRecordNotFound
	}
	return &employee, nil
}

func (r *EmployeeRepository) ListEmployees(ctx context.Context) ([]model.Employee, error) {
	var employees []model.Employee
	err := r.db.WithContext(ctx).Raw(`
		SELECT id, full_name, email, phone, role, password_hash, created_at
		FROM employees
		ORDER BY full_name ASC
	`).Scan(&employees).Error
	if err != nil {
		return nil, err
	}
	return employees, nil
}

func (r *EmployeeRepository) CreateEmployee(ctx context.Context, employee model.Employee) (*model.Employee, error) {
	var saved model.Employee
	err := r.db.WithContext(ctx).Raw(`
		INSERT INTO employees (full_name, email, phone, role, password_hash)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id, full_name, email, phone, role, password_hash, created_at
	`,
		employee.FullName,
		employee.Email,
		employee.Phone,
		employee.Role,
		employee.PasswordHash,
	).Scan(&saved).Error
	if err != nil {
		return nil, err
	}
	return &saved, nil
}

func (r *EmployeeRepository) UpdateEmployee(ctx context.Context, employee model.Employee) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE employees
		SET full_name = ?, email = ?, phone = ?, role = ?, password_hash = ?
		WHERE id = ?
	`,
		employee.FullName,
		employee.Email,
		employee.Phone,
		employee.Role,
		employee.PasswordHash,
		employee.ID,
	).Error
}

func (r *EmployeeRepository) DeleteEmployee(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Exec(`DELETE FROM employees WHERE id = ?`, id).Error
}

func (r *EmployeeRepository) CountByRole(ctx context.Context, role model.Role) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COUNT(*) FROM employees WHERE role = ?
	`, role).Scan(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
