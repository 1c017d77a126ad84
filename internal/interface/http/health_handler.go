package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthHandler reports the state of the database and Redis. A nil DB means
// the in-memory store is in use; a nil Redis means rate limiting is disabled.
type HealthHandler struct {
	DB      Pinger
	Redis   Pinger
	Logger  *logrus.Logger
	Timeout time.Duration
}

func NewHealthHandler(db, redis Pinger, logger *logrus.Logger) *HealthHandler {
	return &HealthHandler{DB: db, Redis: redis, Logger: logger, Timeout: 2 * time.Second}
}

func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.Timeout)
	defer cancel()

	status := make(map[string]string, 2)
	overall := http.StatusOK

	if h.DB == nil {
		status["database"] = "memory"
	} else if err := h.DB.Ping(ctx); err != nil {
		status["database"] = "unavailable"
		overall = http.StatusServiceUnavailable
		h.Logger.WithError(err).Warn("health check failed: database ping")
	} else {
		status["database"] = "ok"
	}

	// Redis only backs the rate limiter, which fails open.
	if h.Redis == nil {
		status["redis"] = "disabled"
	} else if err := h.Redis.Ping(ctx); err != nil {
		status["redis"] = "unavailable"
		h.Logger.WithError(err).Warn("health check failed: redis ping")
	} else {
		status["redis"] = "ok"
	}

	c.JSON(overall, status)
}
