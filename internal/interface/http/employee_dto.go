package handlers

import (
	"github.com/oksasatya/employee-service/internal/domain/entity"
	"github.com/oksasatya/employee-service/pkg/validation"
)

// employeeRequest is the body of create and update. An id in the body is ignored.
type employeeRequest struct {
	FirstName  string             `json:"firstName" binding:"required,notblank"`
	LastName   string             `json:"lastName" binding:"required,notblank"`
	Email      string             `json:"email" binding:"required,email"`
	Department string             `json:"department" binding:"required,notblank"`
	Position   *string            `json:"position"`
	Salary     validation.Decimal `json:"salary" binding:"omitempty,money"`
	HireDate   validation.Date    `json:"hireDate"`
	Phone      *string            `json:"phone"`
}

func (r employeeRequest) toEntity() entity.Employee {
	return entity.Employee{
		FirstName:  r.FirstName,
		LastName:   r.LastName,
		Email:      r.Email,
		Department: r.Department,
		Position:   r.Position,
		Salary:     r.Salary.NullDecimal,
		HireDate:   r.HireDate.Ptr(),
		Phone:      r.Phone,
	}
}

type employeeResponse struct {
	ID         int64              `json:"id"`
	FirstName  string             `json:"firstName"`
	LastName   string             `json:"lastName"`
	Email      string             `json:"email"`
	Department string             `json:"department"`
	Position   *string            `json:"position"`
	Salary     validation.Decimal `json:"salary"`
	HireDate   validation.Date    `json:"hireDate"`
	Phone      *string            `json:"phone"`
}

func toResponse(e *entity.Employee) employeeResponse {
	return employeeResponse{
		ID:         e.ID,
		FirstName:  e.FirstName,
		LastName:   e.LastName,
		Email:      e.Email,
		Department: e.Department,
		Position:   e.Position,
		Salary:     validation.Decimal{NullDecimal: e.Salary},
		HireDate:   validation.NewDate(e.HireDate),
		Phone:      e.Phone,
	}
}

func toResponses(list []entity.Employee) []employeeResponse {
	out := make([]employeeResponse, 0, len(list))
	for i := range list {
		out = append(out, toResponse(&list[i]))
	}
	return out
}
