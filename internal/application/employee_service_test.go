package application_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/employee-service/internal/application"
	"github.com/oksasatya/employee-service/internal/domain/entity"
	"github.com/oksasatya/employee-service/internal/domain/repository"
	"github.com/oksasatya/employee-service/internal/infrastructure/memory"
	"github.com/oksasatya/employee-service/internal/metrics"
)

func newService(t *testing.T) (*application.EmployeeService, *metrics.Metrics) {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	m := metrics.NewMetrics(prometheus.NewRegistry())
	return application.NewEmployeeService(memory.NewEmployeeRepository(), logger, m), m
}

func strPtr(s string) *string { return &s }

func ann() entity.Employee {
	return entity.Employee{FirstName: "Ann", LastName: "Lee", Email: "a@x.com", Department: "Sales"}
}

func TestCreateEmployee_AssignsUniqueIDs(t *testing.T) {
	t.Parallel()

	svc, m := newService(t)
	ctx := context.Background()

	seen := map[int64]bool{}
	for _, email := range []string{"1@x.com", "2@x.com", "3@x.com"} {
		e := ann()
		e.Email = email
		created, err := svc.CreateEmployee(ctx, e)
		require.NoError(t, err)
		assert.NotZero(t, created.ID)
		assert.False(t, seen[created.ID], "id %d assigned twice", created.ID)
		seen[created.ID] = true
	}

	assert.InDelta(t, 3, testutil.ToFloat64(m.EmployeeOperations.WithLabelValues("create", "success")), 0)
}

func TestMutationsAreLogged(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := logrus.New()
	logger.SetOutput(&buf)
	logger.SetFormatter(&logrus.JSONFormatter{})
	svc := application.NewEmployeeService(memory.NewEmployeeRepository(), logger, nil)
	ctx := context.Background()

	created, err := svc.CreateEmployee(ctx, ann())
	require.NoError(t, err)
	_, err = svc.UpdateEmployee(ctx, created.ID, ann())
	require.NoError(t, err)
	require.NoError(t, svc.DeleteEmployee(ctx, created.ID))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	for i, want := range []struct{ op, msg string }{
		{"create", "employee created"},
		{"update", "employee updated"},
		{"delete", "employee deleted"},
	} {
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(lines[i]), &entry))
		assert.Equal(t, "info", entry["level"])
		assert.Equal(t, want.msg, entry["msg"])
		assert.Equal(t, want.op, entry["op"])
		assert.InDelta(t, float64(created.ID), entry["employee_id"], 0)
	}
}

func TestCreateEmployee_IgnoresSuppliedID(t *testing.T) {
	t.Parallel()

	svc, _ := newService(t)
	e := ann()
	e.ID = 500

	created, err := svc.CreateEmployee(context.Background(), e)
	require.NoError(t, err)
	assert.Equal(t, int64(1), created.ID)

	_, err = svc.GetEmployeeByID(context.Background(), 500)
	require.ErrorIs(t, err, application.ErrEmployeeNotFound)
}

func TestCreateEmployee_DuplicateEmail(t *testing.T) {
	t.Parallel()

	svc, m := newService(t)
	ctx := context.Background()

	_, err := svc.CreateEmployee(ctx, ann())
	require.NoError(t, err)

	dup := ann()
	dup.FirstName = "Someone"
	_, err = svc.CreateEmployee(ctx, dup)
	require.ErrorIs(t, err, application.ErrEmailAlreadyExists)

	all, err := svc.GetAllEmployees(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.InDelta(t, 1, testutil.ToFloat64(m.EmployeeOperations.WithLabelValues("create", "failure")), 0)
}

func TestGetEmployeeByID_RoundTrip(t *testing.T) {
	t.Parallel()

	svc, _ := newService(t)
	hired := time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)
	in := ann()
	in.Position = strPtr("Lead")
	in.Salary = decimal.NewNullDecimal(decimal.RequireFromString("72000.50"))
	in.HireDate = &hired
	in.Phone = strPtr("+15550100")

	created, err := svc.CreateEmployee(context.Background(), in)
	require.NoError(t, err)

	got, err := svc.GetEmployeeByID(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, in.FirstName, got.FirstName)
	assert.Equal(t, in.LastName, got.LastName)
	assert.Equal(t, in.Email, got.Email)
	assert.Equal(t, in.Department, got.Department)
	assert.Equal(t, "Lead", *got.Position)
	assert.True(t, got.Salary.Decimal.Equal(decimal.RequireFromString("72000.5")))
	assert.Equal(t, hired, *got.HireDate)
	assert.Equal(t, "+15550100", *got.Phone)
}

func TestGetEmployeeByID_NotFound(t *testing.T) {
	t.Parallel()

	svc, _ := newService(t)
	_, err := svc.GetEmployeeByID(context.Background(), 12)

	require.ErrorIs(t, err, application.ErrEmployeeNotFound)
	assert.Equal(t, "employee not found with id: 12", err.Error())
}

func TestUpdateEmployee_FullReplace(t *testing.T) {
	t.Parallel()

	svc, _ := newService(t)
	ctx := context.Background()
	hired := time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC)

	in := ann()
	in.Position = strPtr("Lead")
	in.Salary = decimal.NewNullDecimal(decimal.NewFromInt(1000))
	in.HireDate = &hired
	in.Phone = strPtr("555")
	created, err := svc.CreateEmployee(ctx, in)
	require.NoError(t, err)

	details := entity.Employee{FirstName: "Anne", LastName: "Lee", Email: "anne@x.com", Department: "Marketing"}
	updated, err := svc.UpdateEmployee(ctx, created.ID, details)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)

	got, err := svc.GetEmployeeByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Anne", got.FirstName)
	assert.Equal(t, "anne@x.com", got.Email)
	assert.Equal(t, "Marketing", got.Department)
	assert.Nil(t, got.Position)
	assert.False(t, got.Salary.Valid)
	assert.Nil(t, got.HireDate)
	assert.Nil(t, got.Phone)
}

func TestUpdateEmployee_KeepsOwnEmail(t *testing.T) {
	t.Parallel()

	svc, _ := newService(t)
	created, err := svc.CreateEmployee(context.Background(), ann())
	require.NoError(t, err)

	details := ann()
	details.FirstName = "Anne"
	_, err = svc.UpdateEmployee(context.Background(), created.ID, details)
	require.NoError(t, err)
}

func TestUpdateEmployee_EmailTakenByOther(t *testing.T) {
	t.Parallel()

	svc, _ := newService(t)
	ctx := context.Background()
	first, err := svc.CreateEmployee(ctx, ann())
	require.NoError(t, err)
	other := ann()
	other.Email = "b@x.com"
	second, err := svc.CreateEmployee(ctx, other)
	require.NoError(t, err)

	details := ann()
	details.Email = first.Email
	_, err = svc.UpdateEmployee(ctx, second.ID, details)
	require.ErrorIs(t, err, application.ErrEmailAlreadyExists)

	got, err := svc.GetEmployeeByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, "b@x.com", got.Email)
}

func TestUpdateEmployee_NotFound(t *testing.T) {
	t.Parallel()

	svc, _ := newService(t)
	_, err := svc.UpdateEmployee(context.Background(), 77, ann())

	require.ErrorIs(t, err, application.ErrEmployeeNotFound)
}

func TestDeleteEmployee(t *testing.T) {
	t.Parallel()

	svc, _ := newService(t)
	ctx := context.Background()
	created, err := svc.CreateEmployee(ctx, ann())
	require.NoError(t, err)

	require.NoError(t, svc.DeleteEmployee(ctx, created.ID))

	_, err = svc.GetEmployeeByID(ctx, created.ID)
	require.ErrorIs(t, err, application.ErrEmployeeNotFound)

	require.ErrorIs(t, svc.DeleteEmployee(ctx, created.ID), application.ErrEmployeeNotFound)
}

func TestSearchEmployees(t *testing.T) {
	t.Parallel()

	svc, _ := newService(t)
	ctx := context.Background()
	people := []entity.Employee{
		{FirstName: "John", LastName: "Smith", Email: "1@x.com", Department: "X"},
		{FirstName: "SMITHERS", LastName: "Burns", Email: "2@x.com", Department: "X"},
		{FirstName: "Jane", LastName: "Goldsmith", Email: "3@x.com", Department: "X"},
		{FirstName: "Sam", LastName: "Smit", Email: "4@x.com", Department: "X"},
	}
	for _, p := range people {
		_, err := svc.CreateEmployee(ctx, p)
		require.NoError(t, err)
	}

	got, err := svc.SearchEmployees(ctx, "smith")
	require.NoError(t, err)

	emails := make([]string, 0, len(got))
	for _, e := range got {
		emails = append(emails, e.Email)
	}
	assert.ElementsMatch(t, []string{"1@x.com", "2@x.com", "3@x.com"}, emails)
}

func TestGetEmployeesByDepartment(t *testing.T) {
	t.Parallel()

	svc, _ := newService(t)
	ctx := context.Background()
	for i, dept := range []string{"Engineering", "engineering", "Sales", "Engineering Ops"} {
		_, err := svc.CreateEmployee(ctx, entity.Employee{
			FirstName: "F", LastName: "L", Email: string(rune('a'+i)) + "@x.com", Department: dept,
		})
		require.NoError(t, err)
	}

	got, err := svc.GetEmployeesByDepartment(ctx, "Engineering")
	require.NoError(t, err)
	require.Len(t, got, 2)
	for _, e := range got {
		assert.Equal(t, "engineering", strings.ToLower(e.Department))
	}
}

type failingRepo struct {
	repository.EmployeeRepository
	err error
}

func (f failingRepo) FindAll(context.Context) ([]entity.Employee, error) { return nil, f.err }

func (f failingRepo) WithinTx(ctx context.Context, fn func(repository.EmployeeRepository) error) error {
	return fn(f)
}

func (f failingRepo) FindByID(context.Context, int64) (*entity.Employee, error) { return nil, f.err }

func TestStoreErrorsPropagate(t *testing.T) {
	t.Parallel()

	logger := logrus.New()
	logger.SetOutput(io.Discard)
	svc := application.NewEmployeeService(failingRepo{err: assert.AnError}, logger, nil)

	_, err := svc.GetAllEmployees(context.Background())
	require.ErrorIs(t, err, assert.AnError)

	err = svc.DeleteEmployee(context.Background(), 1)
	require.ErrorIs(t, err, assert.AnError)
	assert.NotErrorIs(t, err, application.ErrEmployeeNotFound)
}
