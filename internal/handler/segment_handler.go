package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/yuvinraja/crm-backend/internal/models"
	"github.com/yuvinraja/crm-backend/internal/service"
)

// SegmentHandler handles segment HTTP requests
type SegmentHandler struct {
	segmentService service.SegmentService
	logger         *slog.Logger
}

// NewSegmentHandler creates a new segment handler
func NewSegmentHandler(segmentService service.SegmentService, logger *slog.Logger) *SegmentHandler {
	return &SegmentHandler{
		segmentService: segmentService,
		logger:         logger,
	}
}

// CreateSegment handles POST /segments
func (h *SegmentHandler) CreateSegment(w http.ResponseWriter, r *http.Request) {
	var req service.CreateSegmentRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleDecodeError(w, err, h.logger)
		return
	}

	seg, err := h.segmentService.Create(r.Context(), &req)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondCreated(w, seg)
}

// ListSegments handles GET /segments
func (h *SegmentHandler) ListSegments(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	page, _ := strconv.Atoi(query.Get("page"))
	pageSize, _ := strconv.Atoi(query.Get("page_size"))

	filter := models.SegmentFilter{
		Name:     query.Get("name"),
		Page:     page,
		PageSize: pageSize,
	}

	result, err := h.segmentService.List(r.Context(), filter)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondList(w, result.Data, result.Pagination)
}

// GetSegment handles GET /segments/{id}
func (h *SegmentHandler) GetSegment(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_ID", "Invalid segment ID")
		return
	}

	seg, err := h.segmentService.GetByID(r.Context(), id)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, seg)
}

// PreviewSegment handles POST /segments/preview
func (h *SegmentHandler) PreviewSegment(w http.ResponseWriter, r *http.Request) {
	var req service.PreviewSegmentRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handleDecodeError(w, err, h.logger)
		return
	}

	result, err := h.segmentService.Preview(r.Context(), &req)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondSuccess(w, result)
}

// GetSegmentAudience handles GET /segments/{id}/audience
func (h *SegmentHandler) GetSegmentAudience(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_ID", "Invalid segment ID")
		return
	}

	customers, err := h.segmentService.Audience(r.Context(), id)
	if err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondList(w, customers, nil)
}

// DeleteSegment handles DELETE /segments/{id}
func (h *SegmentHandler) DeleteSegment(w http.ResponseWriter, r *http.Request) {
	id, err := urlParamID(r, "id")
	if err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_ID", "Invalid segment ID")
		return
	}

	if err := h.segmentService.Delete(r.Context(), id); err != nil {
		handleError(w, err, h.logger)
		return
	}

	respondJSON(w, http.StatusNoContent, nil)
}
