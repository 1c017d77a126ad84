package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/employee-service/internal/domain/entity"
)

var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEmail = errors.New("email already exists")
)

// EmployeeRepository defines the interface for employee persistence.
type EmployeeRepository interface {
	FindAll(ctx context.Context) ([]entity.Employee, error)
	FindByID(ctx context.Context, id int64) (*entity.Employee, error)
	FindByEmail(ctx context.Context, email string) (*entity.Employee, error)
	// FindByDepartment matches the department case-insensitively.
	FindByDepartment(ctx context.Context, department string) ([]entity.Employee, error)
	// SearchByName returns employees whose first name contains firstName or whose
	// last name contains lastName, ignoring case.
	SearchByName(ctx context.Context, firstName, lastName string) ([]entity.Employee, error)
	// Save inserts e when e.ID is zero and assigns the new id, otherwise it
	// overwrites the stored record with the same id.
	Save(ctx context.Context, e *entity.Employee) error
	Delete(ctx context.Context, e *entity.Employee) error
	// WithinTx runs fn against a transaction-bound repository. The transaction is
	// committed when fn returns nil and rolled back otherwise.
	WithinTx(ctx context.Context, fn func(EmployeeRepository) error) error
}
