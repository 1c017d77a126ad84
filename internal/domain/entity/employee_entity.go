package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Employee is the aggregate root for the employee domain.
// Optional attributes are pointers (or a null-aware decimal) so that
// "absent" survives a round trip through the store.
type Employee struct {
	ID         int64
	FirstName  string
	LastName   string
	Email      string
	Department string
	Position   *string
	Salary     decimal.NullDecimal
	HireDate   *time.Time // calendar date, time part is always midnight UTC
	Phone      *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// ReplaceDetails overwrites every mutable field with the values from d.
// Fields absent in d become absent here as well.
func (e *Employee) ReplaceDetails(d Employee) {
	e.FirstName = d.FirstName
	e.LastName = d.LastName
	e.Email = d.Email
	e.Department = d.Department
	e.Position = d.Position
	e.Salary = d.Salary
	e.HireDate = d.HireDate
	e.Phone = d.Phone
}
