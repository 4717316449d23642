package handler

import (
	"log/slog"
	"net/http"

	"github.com/yuvinraja/crm-backend/internal/db"
	"github.com/yuvinraja/crm-backend/internal/queue"
)

// HealthHandler reports the health of the API and its dependencies
type HealthHandler struct {
	db     *db.DB
	queue  queue.Client
	logger *slog.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(database *db.DB, queueClient queue.Client, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		db:     database,
		queue:  queueClient,
		logger: logger,
	}
}

type healthStatus struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

// Health handles GET /health. Any failing dependency makes the endpoint
// report 503 so load balancers stop routing to this instance.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := healthStatus{
		Status: "ok",
		Checks: map[string]string{
			"database": "ok",
			"queue":    "ok",
		},
	}
	code := http.StatusOK

	if err := h.db.Health(r.Context()); err != nil {
		h.logger.Error("database health check failed", slog.String("error", err.Error()))
		status.Status = "degraded"
		status.Checks["database"] = err.Error()
		code = http.StatusServiceUnavailable
	}

	if err := h.queue.Health(r.Context()); err != nil {
		h.logger.Error("queue health check failed", slog.String("error", err.Error()))
		status.Status = "degraded"
		status.Checks["queue"] = err.Error()
		code = http.StatusServiceUnavailable
	}

	respondJSON(w, code, status)
}
