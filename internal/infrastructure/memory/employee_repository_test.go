package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/employee-service/internal/domain/entity"
	"github.com/oksasatya/employee-service/internal/domain/repository"
	"github.com/oksasatya/employee-service/internal/infrastructure/memory"
)

func seed(t *testing.T, repo *memory.EmployeeRepository, employees ...entity.Employee) []int64 {
	t.Helper()

	ids := make([]int64, 0, len(employees))
	for i := range employees {
		e := employees[i]
		require.NoError(t, repo.Save(context.Background(), &e))
		ids = append(ids, e.ID)
	}
	return ids
}

func TestSave_AssignsIncreasingIDs(t *testing.T) {
	t.Parallel()

	repo := memory.NewEmployeeRepository()
	ids := seed(t, repo,
		entity.Employee{FirstName: "Ann", LastName: "Lee", Email: "a@x.com", Department: "Sales"},
		entity.Employee{FirstName: "Bo", LastName: "Smith", Email: "b@x.com", Department: "Engineering"},
	)

	assert.Equal(t, []int64{1, 2}, ids)

	all, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Ann", all[0].FirstName)
	assert.False(t, all[0].CreatedAt.IsZero())
}

func TestSave_DuplicateEmail(t *testing.T) {
	t.Parallel()

	repo := memory.NewEmployeeRepository()
	seed(t, repo, entity.Employee{FirstName: "Ann", LastName: "Lee", Email: "a@x.com", Department: "Sales"})

	dup := entity.Employee{FirstName: "Other", LastName: "Person", Email: "a@x.com", Department: "HR"}
	require.ErrorIs(t, repo.Save(context.Background(), &dup), repository.ErrDuplicateEmail)
}

func TestSave_UpdateUnknownID(t *testing.T) {
	t.Parallel()

	repo := memory.NewEmployeeRepository()
	e := entity.Employee{ID: 99, FirstName: "Ann", LastName: "Lee", Email: "a@x.com", Department: "Sales"}

	require.ErrorIs(t, repo.Save(context.Background(), &e), repository.ErrNotFound)
}

func TestFindByDepartment_IgnoresCase(t *testing.T) {
	t.Parallel()

	repo := memory.NewEmployeeRepository()
	seed(t, repo,
		entity.Employee{FirstName: "A", LastName: "A", Email: "1@x.com", Department: "Engineering"},
		entity.Employee{FirstName: "B", LastName: "B", Email: "2@x.com", Department: "ENGINEERING"},
		entity.Employee{FirstName: "C", LastName: "C", Email: "3@x.com", Department: "Engineering Ops"},
		entity.Employee{FirstName: "D", LastName: "D", Email: "4@x.com", Department: "Sales"},
	)

	got, err := repo.FindByDepartment(context.Background(), "engineering")
	require.NoError(t, err)

	emails := make([]string, 0, len(got))
	for _, e := range got {
		emails = append(emails, e.Email)
	}
	assert.Equal(t, []string{"1@x.com", "2@x.com"}, emails)
}

func TestSearchByName_MatchesEitherName(t *testing.T) {
	t.Parallel()

	repo := memory.NewEmployeeRepository()
	seed(t, repo,
		entity.Employee{FirstName: "Smithy", LastName: "Jones", Email: "1@x.com", Department: "X"},
		entity.Employee{FirstName: "Ann", LastName: "BLACKSMITH", Email: "2@x.com", Department: "X"},
		entity.Employee{FirstName: "Bob", LastName: "Brown", Email: "3@x.com", Department: "X"},
		entity.Employee{FirstName: "50%", LastName: "Off", Email: "4@x.com", Department: "X"},
	)

	got, err := repo.SearchByName(context.Background(), "smith", "smith")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "1@x.com", got[0].Email)
	assert.Equal(t, "2@x.com", got[1].Email)

	literal, err := repo.SearchByName(context.Background(), "%", "%")
	require.NoError(t, err)
	require.Len(t, literal, 1)
	assert.Equal(t, "4@x.com", literal[0].Email)
}

func TestDelete(t *testing.T) {
	t.Parallel()

	repo := memory.NewEmployeeRepository()
	ids := seed(t, repo, entity.Employee{FirstName: "Ann", LastName: "Lee", Email: "a@x.com", Department: "Sales"})

	require.NoError(t, repo.Delete(context.Background(), &entity.Employee{ID: ids[0]}))
	require.ErrorIs(t, repo.Delete(context.Background(), &entity.Employee{ID: ids[0]}), repository.ErrNotFound)

	_, err := repo.FindByID(context.Background(), ids[0])
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestReturnedEmployeesAreCopies(t *testing.T) {
	t.Parallel()

	repo := memory.NewEmployeeRepository()
	position := "Manager"
	ids := seed(t, repo, entity.Employee{
		FirstName: "Ann", LastName: "Lee", Email: "a@x.com", Department: "Sales", Position: &position,
	})

	got, err := repo.FindByID(context.Background(), ids[0])
	require.NoError(t, err)
	*got.Position = "Intern"
	got.FirstName = "Changed"

	again, err := repo.FindByID(context.Background(), ids[0])
	require.NoError(t, err)
	assert.Equal(t, "Ann", again.FirstName)
	assert.Equal(t, "Manager", *again.Position)
}

func TestWithinTx_RollsBackOnError(t *testing.T) {
	t.Parallel()

	repo := memory.NewEmployeeRepository()
	ids := seed(t, repo, entity.Employee{FirstName: "Ann", LastName: "Lee", Email: "a@x.com", Department: "Sales"})

	err := repo.WithinTx(context.Background(), func(tx repository.EmployeeRepository) error {
		e, err := tx.FindByID(context.Background(), ids[0])
		if err != nil {
			return err
		}
		e.FirstName = "Anne"
		if err := tx.Save(context.Background(), e); err != nil {
			return err
		}
		n := entity.Employee{FirstName: "New", LastName: "One", Email: "n@x.com", Department: "Ops"}
		if err := tx.Save(context.Background(), &n); err != nil {
			return err
		}
		return assert.AnError
	})
	require.ErrorIs(t, err, assert.AnError)

	all, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "Ann", all[0].FirstName)

	// the id consumed inside the failed transaction is handed out again
	next := entity.Employee{FirstName: "B", LastName: "B", Email: "b@x.com", Department: "Ops"}
	require.NoError(t, repo.Save(context.Background(), &next))
	assert.Equal(t, int64(2), next.ID)
}

func TestWithinTx_RollsBackOnPanic(t *testing.T) {
	t.Parallel()

	repo := memory.NewEmployeeRepository()

	assert.Panics(t, func() {
		_ = repo.WithinTx(context.Background(), func(tx repository.EmployeeRepository) error {
			e := entity.Employee{FirstName: "A", LastName: "B", Email: "a@x.com", Department: "C"}
			_ = tx.Save(context.Background(), &e)
			panic("boom")
		})
	})

	all, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestWithinTx_Commits(t *testing.T) {
	t.Parallel()

	repo := memory.NewEmployeeRepository()

	err := repo.WithinTx(context.Background(), func(tx repository.EmployeeRepository) error {
		e := entity.Employee{FirstName: "A", LastName: "B", Email: "a@x.com", Department: "C"}
		return tx.Save(context.Background(), &e)
	})
	require.NoError(t, err)

	got, err := repo.FindByEmail(context.Background(), "a@x.com")
	require.NoError(t, err)
	assert.Equal(t, int64(1), got.ID)
}
