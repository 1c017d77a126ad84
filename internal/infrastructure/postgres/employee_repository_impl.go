package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"

	"github.com/oksasatya/employee-service/internal/domain/entity"
	"github.com/oksasatya/employee-service/internal/domain/repository"
	"github.com/oksasatya/employee-service/internal/metrics"
)

const uniqueViolation = "23505"

// DBTX is satisfied by *pgxpool.Pool, pgx.Tx and pgxmock pools.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

const (
	selectEmployees = `
		SELECT id, first_name, last_name, email, department, position, salary, hire_date, phone, created_at, updated_at
		FROM employees`

	findAllQuery          = selectEmployees + ` ORDER BY id`
	findByIDQuery         = selectEmployees + ` WHERE id = $1`
	findByEmailQuery      = selectEmployees + ` WHERE email = $1`
	findByDepartmentQuery = selectEmployees + ` WHERE lower(department) = lower($1) ORDER BY id`
	// strpos keeps the keyword literal, LIKE would treat % and _ as wildcards
	searchByNameQuery = selectEmployees + `
		WHERE strpos(lower(first_name), lower($1)) > 0
		   OR strpos(lower(last_name), lower($2)) > 0
		ORDER BY id`

	insertEmployeeQuery = `
		INSERT INTO employees (first_name, last_name, email, department, position, salary, hire_date, phone)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, salary, hire_date, created_at, updated_at`

	updateEmployeeQuery = `
		UPDATE employees
		SET first_name = $2, last_name = $3, email = $4, department = $5,
		    position = $6, salary = $7, hire_date = $8, phone = $9, updated_at = now()
		WHERE id = $1
		RETURNING salary, hire_date, created_at, updated_at`

	deleteEmployeeQuery = `DELETE FROM employees WHERE id = $1`
)

type EmployeeRepository struct {
	db      DBTX
	metrics *metrics.Metrics
}

func NewEmployeeRepository(db DBTX, m *metrics.Metrics) *EmployeeRepository {
	return &EmployeeRepository{db: db, metrics: m}
}

func (r *EmployeeRepository) observe(queryType string) func() {
	start := time.Now()
	return func() {
		r.metrics.ObserveQuery(queryType, time.Since(start).Seconds())
	}
}

func (r *EmployeeRepository) FindAll(ctx context.Context) ([]entity.Employee, error) {
	defer r.observe("find_all")()
	return r.list(ctx, findAllQuery)
}

func (r *EmployeeRepository) FindByID(ctx context.Context, id int64) (*entity.Employee, error) {
	defer r.observe("find_by_id")()
	return r.one(ctx, findByIDQuery, id)
}

func (r *EmployeeRepository) FindByEmail(ctx context.Context, email string) (*entity.Employee, error) {
	defer r.observe("find_by_email")()
	return r.one(ctx, findByEmailQuery, email)
}

func (r *EmployeeRepository) FindByDepartment(ctx context.Context, department string) ([]entity.Employee, error) {
	defer r.observe("find_by_department")()
	return r.list(ctx, findByDepartmentQuery, department)
}

func (r *EmployeeRepository) SearchByName(ctx context.Context, firstName, lastName string) ([]entity.Employee, error) {
	defer r.observe("search_by_name")()
	return r.list(ctx, searchByNameQuery, firstName, lastName)
}

func (r *EmployeeRepository) Save(ctx context.Context, e *entity.Employee) error {
	if e.ID == 0 {
		return r.insert(ctx, e)
	}
	return r.update(ctx, e)
}

func (r *EmployeeRepository) insert(ctx context.Context, e *entity.Employee) error {
	defer r.observe("insert_employee")()

	var stored storedValues
	err := r.db.QueryRow(ctx, insertEmployeeQuery,
		e.FirstName, e.LastName, e.Email, e.Department, e.Position, e.Salary, e.HireDate, e.Phone,
	).Scan(&e.ID, &stored.salary, &stored.hireDate, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return mapWriteError("failed to insert employee", err)
	}
	stored.apply(e)
	return nil
}

func (r *EmployeeRepository) update(ctx context.Context, e *entity.Employee) error {
	defer r.observe("update_employee")()

	var stored storedValues
	err := r.db.QueryRow(ctx, updateEmployeeQuery,
		e.ID, e.FirstName, e.LastName, e.Email, e.Department, e.Position, e.Salary, e.HireDate, e.Phone,
	).Scan(&stored.salary, &stored.hireDate, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return repository.ErrNotFound
		}
		return mapWriteError("failed to update employee", err)
	}
	stored.apply(e)
	return nil
}

// storedValues holds the columns whose stored form can differ from what was
// written: salary is rounded to the column scale, hire_date loses any time part.
type storedValues struct {
	salary   decimal.NullDecimal
	hireDate pgtype.Date
}

func (s storedValues) apply(e *entity.Employee) {
	e.Salary = s.salary
	e.HireDate = datePtr(s.hireDate)
}

func (r *EmployeeRepository) Delete(ctx context.Context, e *entity.Employee) error {
	defer r.observe("delete_employee")()

	tag, err := r.db.Exec(ctx, deleteEmployeeQuery, e.ID)
	if err != nil {
		return fmt.Errorf("failed to delete employee: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// WithinTx wraps fn in BEGIN/COMMIT. Any error, including a failed commit,
// and any panic roll the transaction back.
func (r *EmployeeRepository) WithinTx(ctx context.Context, fn func(repository.EmployeeRepository) error) (err error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
				err = errors.Join(err, fmt.Errorf("failed to rollback transaction: %w", rbErr))
			}
		}
	}()

	if err = fn(&EmployeeRepository{db: tx, metrics: r.metrics}); err != nil {
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *EmployeeRepository) one(ctx context.Context, query string, args ...any) (*entity.Employee, error) {
	e, err := scanEmployee(r.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get employee: %w", err)
	}
	return &e, nil
}

func (r *EmployeeRepository) list(ctx context.Context, query string, args ...any) ([]entity.Employee, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query employees: %w", err)
	}
	defer rows.Close()

	out := make([]entity.Employee, 0)
	for rows.Next() {
		e, err := scanEmployee(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employee: %w", err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employees: %w", err)
	}
	return out, nil
}

func scanEmployee(row pgx.Row) (entity.Employee, error) {
	var (
		e               entity.Employee
		position, phone pgtype.Text
		salary          decimal.NullDecimal
		hireDate        pgtype.Date
	)

	err := row.Scan(
		&e.ID,
		&e.FirstName,
		&e.LastName,
		&e.Email,
		&e.Department,
		&position,
		&salary,
		&hireDate,
		&phone,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return entity.Employee{}, err
	}

	e.Position = textPtr(position)
	e.Phone = textPtr(phone)
	e.Salary = salary
	e.HireDate = datePtr(hireDate)
	return e, nil
}

func datePtr(d pgtype.Date) *time.Time {
	if !d.Valid {
		return nil
	}
	t := time.Date(d.Time.Year(), d.Time.Month(), d.Time.Day(), 0, 0, 0, 0, time.UTC)
	return &t
}

func textPtr(t pgtype.Text) *string {
	if !t.Valid {
		return nil
	}
	s := t.String
	return &s
}

func mapWriteError(msg string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return repository.ErrDuplicateEmail
	}
	return fmt.Errorf("%s: %w", msg, err)
}

var _ repository.EmployeeRepository = (*EmployeeRepository)(nil)
