// Package memory provides a process-local employee store used when the
// service runs without PostgreSQL (STORE_DRIVER=memory) and in tests.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/oksasatya/employee-service/internal/domain/entity"
	"github.com/oksasatya/employee-service/internal/domain/repository"
)

type store struct {
	rows   map[int64]entity.Employee
	nextID int64
	now    func() time.Time
}

// EmployeeRepository keeps employees in a map guarded by a RWMutex.
type EmployeeRepository struct {
	mu sync.RWMutex
	s  *store
}

func NewEmployeeRepository() *EmployeeRepository {
	return &EmployeeRepository{s: &store{rows: make(map[int64]entity.Employee), nextID: 1, now: time.Now}}
}

func (r *EmployeeRepository) FindAll(_ context.Context) ([]entity.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.s.filter(func(entity.Employee) bool { return true }), nil
}

func (r *EmployeeRepository) FindByID(_ context.Context, id int64) (*entity.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.s.findByID(id)
}

func (r *EmployeeRepository) FindByEmail(_ context.Context, email string) (*entity.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.s.findByEmail(email)
}

func (r *EmployeeRepository) FindByDepartment(_ context.Context, department string) ([]entity.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	want := strings.ToLower(department)
	return r.s.filter(func(e entity.Employee) bool {
		return strings.ToLower(e.Department) == want
	}), nil
}

func (r *EmployeeRepository) SearchByName(_ context.Context, firstName, lastName string) ([]entity.Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	first, last := strings.ToLower(firstName), strings.ToLower(lastName)
	return r.s.filter(func(e entity.Employee) bool {
		return strings.Contains(strings.ToLower(e.FirstName), first) ||
			strings.Contains(strings.ToLower(e.LastName), last)
	}), nil
}

func (r *EmployeeRepository) Save(_ context.Context, e *entity.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.s.save(e)
}

func (r *EmployeeRepository) Delete(_ context.Context, e *entity.Employee) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.s.delete(e.ID)
}

// WithinTx holds the write lock for the whole of fn and restores the
// previous contents if fn fails or panics.
func (r *EmployeeRepository) WithinTx(ctx context.Context, fn func(repository.EmployeeRepository) error) (err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	snapshot := r.s.clone()
	defer func() {
		if p := recover(); p != nil {
			r.s = snapshot
			panic(p)
		}
		if err != nil {
			r.s = snapshot
		}
	}()

	return fn(&txRepository{s: r.s})
}

// txRepository operates on the store while the parent holds the lock.
type txRepository struct {
	s *store
}

func (t *txRepository) FindAll(_ context.Context) ([]entity.Employee, error) {
	return t.s.filter(func(entity.Employee) bool { return true }), nil
}

func (t *txRepository) FindByID(_ context.Context, id int64) (*entity.Employee, error) {
	return t.s.findByID(id)
}

func (t *txRepository) FindByEmail(_ context.Context, email string) (*entity.Employee, error) {
	return t.s.findByEmail(email)
}

func (t *txRepository) FindByDepartment(_ context.Context, department string) ([]entity.Employee, error) {
	want := strings.ToLower(department)
	return t.s.filter(func(e entity.Employee) bool { return strings.ToLower(e.Department) == want }), nil
}

func (t *txRepository) SearchByName(_ context.Context, firstName, lastName string) ([]entity.Employee, error) {
	first, last := strings.ToLower(firstName), strings.ToLower(lastName)
	return t.s.filter(func(e entity.Employee) bool {
		return strings.Contains(strings.ToLower(e.FirstName), first) ||
			strings.Contains(strings.ToLower(e.LastName), last)
	}), nil
}

func (t *txRepository) Save(_ context.Context, e *entity.Employee) error {
	return t.s.save(e)
}

func (t *txRepository) Delete(_ context.Context, e *entity.Employee) error {
	return t.s.delete(e.ID)
}

// WithinTx on an already transactional repository just runs fn.
func (t *txRepository) WithinTx(_ context.Context, fn func(repository.EmployeeRepository) error) error {
	return fn(t)
}

func (s *store) clone() *store {
	rows := make(map[int64]entity.Employee, len(s.rows))
	for id, e := range s.rows {
		rows[id] = e
	}
	return &store{rows: rows, nextID: s.nextID, now: s.now}
}

func (s *store) findByID(id int64) (*entity.Employee, error) {
	e, ok := s.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	e = detach(e)
	return &e, nil
}

func (s *store) findByEmail(email string) (*entity.Employee, error) {
	for _, e := range s.rows {
		if e.Email == email {
			found := detach(e)
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *store) filter(keep func(entity.Employee) bool) []entity.Employee {
	out := make([]entity.Employee, 0, len(s.rows))
	for _, e := range s.rows {
		if keep(e) {
			out = append(out, detach(e))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *store) save(e *entity.Employee) error {
	for id, other := range s.rows {
		if other.Email == e.Email && id != e.ID {
			return repository.ErrDuplicateEmail
		}
	}

	now := s.now().UTC()
	if e.ID == 0 {
		e.ID = s.nextID
		s.nextID++
		e.CreatedAt = now
	} else {
		existing, ok := s.rows[e.ID]
		if !ok {
			return repository.ErrNotFound
		}
		e.CreatedAt = existing.CreatedAt
	}
	e.UpdatedAt = now
	s.rows[e.ID] = detach(*e)
	return nil
}

func (s *store) delete(id int64) error {
	if _, ok := s.rows[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.rows, id)
	return nil
}

// detach copies the pointer fields so callers never share memory with the store.
func detach(e entity.Employee) entity.Employee {
	if e.Position != nil {
		v := *e.Position
		e.Position = &v
	}
	if e.Phone != nil {
		v := *e.Phone
		e.Phone = &v
	}
	if e.HireDate != nil {
		v := *e.HireDate
		e.HireDate = &v
	}
	if e.Salary.Valid {
		e.Salary.Decimal = e.Salary.Decimal.Copy()
	}
	return e
}

var (
	_ repository.EmployeeRepository = (*EmployeeRepository)(nil)
	_ repository.EmployeeRepository = (*txRepository)(nil)
)
