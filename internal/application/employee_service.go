package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/employee-service/internal/domain/entity"
	repo "github.com/oksasatya/employee-service/internal/domain/repository"
	"github.com/oksasatya/employee-service/internal/metrics"
	"github.com/oksasatya/employee-service/pkg/helpers"
)

var (
	ErrEmployeeNotFound   = errors.New("employee not found")
	ErrEmailAlreadyExists = errors.New("email already in use")
)

type EmployeeService struct {
	Repo    repo.EmployeeRepository
	Logger  *logrus.Logger
	Metrics *metrics.Metrics
}

func NewEmployeeService(repository repo.EmployeeRepository, logger *logrus.Logger, m *metrics.Metrics) *EmployeeService {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &EmployeeService{Repo: repository, Logger: logger, Metrics: m}
}

func (s *EmployeeService) GetAllEmployees(ctx context.Context) ([]entity.Employee, error) {
	return s.Repo.FindAll(ctx)
}

// GetEmployeeByID returns ErrEmployeeNotFound when no employee has the id.
func (s *EmployeeService) GetEmployeeByID(ctx context.Context, id int64) (*entity.Employee, error) {
	return getByID(ctx, s.Repo, id)
}

// CreateEmployee stores e under a freshly assigned id. An id set by the caller is ignored.
func (s *EmployeeService) CreateEmployee(ctx context.Context, e entity.Employee) (*entity.Employee, error) {
	e.ID = 0
	err := s.Repo.WithinTx(ctx, func(tx repo.EmployeeRepository) error {
		if err := ensureEmailFree(ctx, tx, e.Email, 0); err != nil {
			return err
		}
		return translate(tx.Save(ctx, &e))
	})
	s.Metrics.CountOperation("create", err)
	if err != nil {
		s.logFailure("create", 0, err)
		return nil, err
	}

	helpers.LogInfo(s.Logger, "employee created", logrus.Fields{"op": "create", "employee_id": e.ID})
	return &e, nil
}

// UpdateEmployee replaces every mutable field of the employee with the values in details.
func (s *EmployeeService) UpdateEmployee(ctx context.Context, id int64, details entity.Employee) (*entity.Employee, error) {
	var updated *entity.Employee
	err := s.Repo.WithinTx(ctx, func(tx repo.EmployeeRepository) error {
		current, err := getByID(ctx, tx, id)
		if err != nil {
			return err
		}
		current.ReplaceDetails(details)
		if err := ensureEmailFree(ctx, tx, current.Email, current.ID); err != nil {
			return err
		}
		if err := translate(tx.Save(ctx, current)); err != nil {
			return err
		}
		updated = current
		return nil
	})
	s.Metrics.CountOperation("update", err)
	if err != nil {
		s.logFailure("update", id, err)
		return nil, err
	}

	helpers.LogInfo(s.Logger, "employee updated", logrus.Fields{"op": "update", "employee_id": id})
	return updated, nil
}

func (s *EmployeeService) DeleteEmployee(ctx context.Context, id int64) error {
	err := s.Repo.WithinTx(ctx, func(tx repo.EmployeeRepository) error {
		current, err := getByID(ctx, tx, id)
		if err != nil {
			return err
		}
		return translate(tx.Delete(ctx, current))
	})
	s.Metrics.CountOperation("delete", err)
	if err != nil {
		s.logFailure("delete", id, err)
		return err
	}

	helpers.LogInfo(s.Logger, "employee deleted", logrus.Fields{"op": "delete", "employee_id": id})
	return nil
}

// SearchEmployees matches keyword against both first and last name.
func (s *EmployeeService) SearchEmployees(ctx context.Context, keyword string) ([]entity.Employee, error) {
	return s.Repo.SearchByName(ctx, keyword, keyword)
}

func (s *EmployeeService) GetEmployeesByDepartment(ctx context.Context, department string) ([]entity.Employee, error) {
	return s.Repo.FindByDepartment(ctx, department)
}

func (s *EmployeeService) logFailure(op string, id int64, err error) {
	entry := s.Logger.WithError(err).WithField("op", op)
	if id != 0 {
		entry = entry.WithField("employee_id", id)
	}
	if errors.Is(err, ErrEmployeeNotFound) || errors.Is(err, ErrEmailAlreadyExists) {
		entry.Debug("employee mutation rejected")
		return
	}
	entry.Error("employee mutation failed")
}

func getByID(ctx context.Context, r repo.EmployeeRepository, id int64) (*entity.Employee, error) {
	e, err := r.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, fmt.Errorf("%w with id: %d", ErrEmployeeNotFound, id)
		}
		return nil, err
	}
	return e, nil
}

// ensureEmailFree fails when email belongs to an employee other than selfID.
func ensureEmailFree(ctx context.Context, r repo.EmployeeRepository, email string, selfID int64) error {
	other, err := r.FindByEmail(ctx, email)
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return nil
	case err != nil:
		return err
	case other.ID != selfID:
		return ErrEmailAlreadyExists
	}
	return nil
}

func translate(err error) error {
	switch {
	case errors.Is(err, repo.ErrDuplicateEmail):
		return ErrEmailAlreadyExists
	case errors.Is(err, repo.ErrNotFound):
		return ErrEmployeeNotFound
	}
	return err
}
