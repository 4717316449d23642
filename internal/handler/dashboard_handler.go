package handler

import (
	"log/slog"
	"net/http"

	"github.com/yuvinraja/crm-backend/internal/service"
)

// DashboardHandler handles dashboard HTTP requests
type DashboardHandler struct {
	dashboardService service.DashboardService
	logger           *slog.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService service.DashboardService, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		dashboardService: dashboardService,
		logger:           logger,
	}
}

// GetDashboardStats handles GET /dashboard/stats. The aggregation is all or
// nothing: if any underlying collection cannot be read the whole request
// fails with UNAVAILABLE rather than returning partial numbers.
func (h *DashboardHandler) GetDashboardStats(w http.ResponseWriter, r *http.Request) {
	dashboardStats, err := h.dashboardService.Stats(r.Context())
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, dashboardStats)
}
