package container

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/employee-service/config"
	"github.com/oksasatya/employee-service/internal/domain/repository"
	"github.com/oksasatya/employee-service/internal/metrics"
)

// app-level container to share constructed components across packages
// Router auto-wires modules from these singletons.

var (
	cfg          *config.Config
	logger       *logrus.Logger
	pgPool       *pgxpool.Pool
	redisClient  *redis.Client
	appMetrics   *metrics.Metrics
	gatherer     prometheus.Gatherer
	employeeRepo repository.EmployeeRepository
)

func SetConfig(c *config.Config)    { cfg = c }
func GetConfig() *config.Config     { return cfg }
func SetLogger(l *logrus.Logger)    { logger = l }
func GetLogger() *logrus.Logger     { return logger }
func SetPGPool(p *pgxpool.Pool)     { pgPool = p }
func GetPGPool() *pgxpool.Pool      { return pgPool }
func SetRedis(r *redis.Client)      { redisClient = r }
func GetRedis() *redis.Client       { return redisClient }
func SetMetrics(m *metrics.Metrics) { appMetrics = m }
func GetMetrics() *metrics.Metrics  { return appMetrics }

// SetGatherer sets the registry served on /metrics.
func SetGatherer(g prometheus.Gatherer) { gatherer = g }
func GetGatherer() prometheus.Gatherer  { return gatherer }

func SetEmployeeRepo(r repository.EmployeeRepository) { employeeRepo = r }
func GetEmployeeRepo() repository.EmployeeRepository  { return employeeRepo }
