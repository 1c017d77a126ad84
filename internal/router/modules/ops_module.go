package modules

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	handlers "github.com/oksasatya/employee-service/internal/interface/http"
)

// OpsModule serves /healthz and, when enabled, the Prometheus /metrics endpoint.
type OpsModule struct {
	Health   *handlers.HealthHandler
	Gatherer prometheus.Gatherer
	Metrics  bool
}

func NewOpsModule(h *handlers.HealthHandler, g prometheus.Gatherer, metricsEnabled bool) *OpsModule {
	return &OpsModule{Health: h, Gatherer: g, Metrics: metricsEnabled}
}

func (m *OpsModule) Register(rg *gin.RouterGroup) {
	rg.GET("/healthz", m.Health.Check)
	if m.Metrics && m.Gatherer != nil {
		rg.GET("/metrics", gin.WrapH(promhttp.HandlerFor(m.Gatherer, promhttp.HandlerOpts{})))
	}
}
