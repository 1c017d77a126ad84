package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/employee-service/internal/application"
	"github.com/oksasatya/employee-service/pkg/helpers"
	"github.com/oksasatya/employee-service/pkg/response"
	"github.com/oksasatya/employee-service/pkg/validation"
)

type EmployeeHandler struct {
	Svc    *application.EmployeeService
	Logger *logrus.Logger
}

func NewEmployeeHandler(svc *application.EmployeeService, logger *logrus.Logger) *EmployeeHandler {
	return &EmployeeHandler{Svc: svc, Logger: logger}
}

func (h *EmployeeHandler) List(c *gin.Context) {
	list, err := h.Svc.GetAllEmployees(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponses(list))
}

func (h *EmployeeHandler) Get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	e, err := h.Svc.GetEmployeeByID(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(e))
}

func (h *EmployeeHandler) Create(c *gin.Context) {
	var req employeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	e, err := h.Svc.CreateEmployee(c.Request.Context(), req.toEntity())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, toResponse(e))
}

func (h *EmployeeHandler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req employeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	e, err := h.Svc.UpdateEmployee(c.Request.Context(), id, req.toEntity())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponse(e))
}

func (h *EmployeeHandler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Svc.DeleteEmployee(c.Request.Context(), id); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Search requires the keyword query parameter; an empty keyword matches everyone.
func (h *EmployeeHandler) Search(c *gin.Context) {
	keyword, ok := c.GetQuery("keyword")
	if !ok {
		response.Error[any](c, http.StatusBadRequest, "invalid query", map[string]string{"keyword": "is required"})
		return
	}
	list, err := h.Svc.SearchEmployees(c.Request.Context(), keyword)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponses(list))
}

func (h *EmployeeHandler) ByDepartment(c *gin.Context) {
	list, err := h.Svc.GetEmployeesByDepartment(c.Request.Context(), c.Param("department"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, toResponses(list))
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid employee id", map[string]string{"id": "must be an integer"})
		return 0, false
	}
	return id, true
}

func (h *EmployeeHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, application.ErrEmployeeNotFound):
		response.Error[any](c, http.StatusNotFound, err.Error(), nil)
	case errors.Is(err, application.ErrEmailAlreadyExists):
		response.Error[any](c, http.StatusConflict, "email already in use", map[string]string{"email": "already in use"})
	default:
		helpers.LogError(h.Logger, "employee request failed", err, logrus.Fields{
			"request_id": c.GetString("request_id"),
			"path":       c.FullPath(),
		})
		response.Error[any](c, http.StatusInternalServerError, "internal server error", nil)
	}
}
