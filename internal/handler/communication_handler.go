package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/yuvinraja/crm-backend/internal/models"
	"github.com/yuvinraja/crm-backend/internal/service"
)

// CommunicationHandler handles delivery log HTTP requests
type CommunicationHandler struct {
	communicationService service.CommunicationService
	logger               *slog.Logger
}

// NewCommunicationHandler creates a new communication handler
func NewCommunicationHandler(communicationService service.CommunicationService, logger *slog.Logger) *CommunicationHandler {
	return &CommunicationHandler{
		communicationService: communicationService,
		logger:               logger,
	}
}

// ListCommunications handles GET /communications
func (h *CommunicationHandler) ListCommunications(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page, _ := strconv.Atoi(query.Get("page"))
	pageSize, _ := strconv.Atoi(query.Get("page_size"))
	campaignID, _ := strconv.ParseInt(query.Get("campaign_id"), 10, 64)
	customerID, _ := strconv.ParseInt(query.Get("customer_id"), 10, 64)

	filter := models.CommunicationLogFilter{
		CampaignID: campaignID,
		CustomerID: customerID,
		Status:     query.Get("status"),
		Page:       page,
		PageSize:   pageSize,
	}

	result, err := h.communicationService.List(r.Context(), filter)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondList(w, result.Data, result.Pagination)
}

// ListCampaignCommunications handles GET /communications/campaign/{campaignId}
func (h *CommunicationHandler) ListCampaignCommunications(w http.ResponseWriter, r *http.Request) {
	campaignID, err := urlParamID(r, "campaignId")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_ID", "Invalid campaign ID")
		return
	}

	logs, err := h.communicationService.ListByCampaign(r.Context(), campaignID)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondList(w, logs, nil)
}
