package router

import (
	"time"

	"github.com/oksasatya/employee-service/internal/application"
	"github.com/oksasatya/employee-service/internal/container"
	handlers "github.com/oksasatya/employee-service/internal/interface/http"
	"github.com/oksasatya/employee-service/internal/interface/middleware"
	"github.com/oksasatya/employee-service/internal/router/modules"
	"github.com/oksasatya/employee-service/pkg/helpers"
)

type EmployeeModuleDeps struct {
	Service *application.EmployeeService
	Handler *handlers.EmployeeHandler
}

func buildEmployeeDeps() EmployeeModuleDeps {
	service := application.NewEmployeeService(
		container.GetEmployeeRepo(),
		container.GetLogger(),
		container.GetMetrics(),
	)
	return EmployeeModuleDeps{
		Service: service,
		Handler: handlers.NewEmployeeHandler(service, container.GetLogger()),
	}
}

func buildHealthHandler() *handlers.HealthHandler {
	var db, rdb handlers.Pinger
	if pool := container.GetPGPool(); pool != nil {
		db = pool
	}
	if client := container.GetRedis(); client != nil {
		rdb = handlers.PingFunc(helpers.PingRedis(client))
	}
	return handlers.NewHealthHandler(db, rdb, container.GetLogger())
}

// InitModules initializes all application modules and registers them with the router registry
// This function should be called once during application startup to wire up all modules
func InitModules(r *Registry) {
	cfg := container.GetConfig()

	r.Use(middleware.RealIP())
	r.Use(middleware.RateLimit(
		container.GetRedis(),
		cfg.RateLimitPerMinute,
		time.Minute,
		middleware.KeyByIP(cfg.AppName),
		middleware.AllowLoopback(),
		container.GetLogger(),
	))

	employeeDeps := buildEmployeeDeps()
	r.Add(modules.NewEmployeeModule(employeeDeps.Handler))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}

	r.AddOps(modules.NewOpsModule(buildHealthHandler(), container.GetGatherer(), cfg.MetricsEnabled))
}
