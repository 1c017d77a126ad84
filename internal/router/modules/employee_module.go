package modules

import (
	"github.com/gin-gonic/gin"

	handlers "github.com/oksasatya/employee-service/internal/interface/http"
)

// EmployeeModule mounts the employee CRUD routes under /employees.
type EmployeeModule struct {
	Handler *handlers.EmployeeHandler
}

func NewEmployeeModule(h *handlers.EmployeeHandler) *EmployeeModule {
	return &EmployeeModule{Handler: h}
}

func (m *EmployeeModule) Register(rg *gin.RouterGroup) {
	g := rg.Group("/employees")
	{
		g.GET("", m.Handler.List)
		g.POST("", m.Handler.Create)
		g.GET("/search", m.Handler.Search)
		g.GET("/department/:department", m.Handler.ByDepartment)
		g.GET("/:id", m.Handler.Get)
		g.PUT("/:id", m.Handler.Update)
		g.DELETE("/:id", m.Handler.Delete)
	}
}
