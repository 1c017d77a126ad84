package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the collectors exported by the service: HTTP request
// counters and latencies, store query latencies and the outcome of
// employee mutations.
type Metrics struct {
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	DBQueryDuration     *prometheus.HistogramVec
	EmployeeOperations  *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance registered on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "employee_service_http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "employee_service_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		DBQueryDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "employee_service_db_query_duration_seconds",
			Help:    "Duration of database queries.",
			Buckets: prometheus.DefBuckets,
		}, []string{"query_type"}),
		EmployeeOperations: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "employee_service_employee_operations_total",
			Help: "Employee mutations by operation and result.",
		}, []string{"operation", "result"}),
	}

	for _, op := range []string{"create", "update", "delete"} {
		m.EmployeeOperations.WithLabelValues(op, "success")
		m.EmployeeOperations.WithLabelValues(op, "failure")
	}

	return m
}

// ObserveQuery records the duration of a store query. It is safe on a nil receiver.
func (m *Metrics) ObserveQuery(queryType string, seconds float64) {
	if m == nil {
		return
	}
	m.DBQueryDuration.WithLabelValues(queryType).Observe(seconds)
}

// CountOperation records the outcome of an employee mutation. It is safe on a nil receiver.
func (m *Metrics) CountOperation(operation string, err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.EmployeeOperations.WithLabelValues(operation, result).Inc()
}
