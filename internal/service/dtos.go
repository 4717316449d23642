package service

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/yuvinraja/crm-backend/internal/models"
	"github.com/yuvinraja/crm-backend/internal/segment"
	"github.com/yuvinraja/crm-backend/internal/stats"
)

// CreateCustomerRequest represents a request to create a customer
type CreateCustomerRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// Validate performs validation on the create customer request
func (r *CreateCustomerRequest) Validate() error {
	if r.Name == "" {
		return models.ErrInvalidInput("name is required")
	}
	if r.Email == "" {
		return models.ErrInvalidInput("email is required")
	}
	if !strings.Contains(r.Email, "@") {
		return models.ErrInvalidInput("email is not valid")
	}
	return nil
}

// UpdateCustomerRequest represents a partial customer update
type UpdateCustomerRequest struct {
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
	Phone *string `json:"phone,omitempty"`
}

// CreateOrderRequest represents a request to record an order
type CreateOrderRequest struct {
	CustomerID  int64      `json:"customer_id"`
	OrderAmount float64    `json:"order_amount"`
	OrderDate   *time.Time `json:"order_date,omitempty"`
}

// Validate performs validation on the create order request
func (r *CreateOrderRequest) Validate() error {
	if r.CustomerID <= 0 {
		return models.ErrInvalidInput("customer_id is required")
	}
	if r.OrderAmount <= 0 {
		return models.ErrInvalidInput("order_amount must be greater than zero")
	}
	return nil
}

// CreateSegmentRequest represents a request to create a segment. Conditions
// arrive as raw JSON so parsing and validation happen in one pass through
// the condition parser.
type CreateSegmentRequest struct {
	Name       string              `json:"name"`
	Conditions []segment.Condition `json:"conditions"`
	Logic      segment.Logic       `json:"logic"`
}

// Validate performs validation on the create segment request
func (r *CreateSegmentRequest) Validate() error {
	if r.Name == "" {
		return models.ErrInvalidInput("name is required")
	}
	if err := segment.ValidateConditions(r.Conditions, r.Logic); err != nil {
		return models.ErrInvalidInput(err.Error())
	}
	return nil
}

// PreviewSegmentRequest represents a request to preview a draft segment's
// audience. Name is optional for preview.
type PreviewSegmentRequest struct {
	Name       string              `json:"name,omitempty"`
	Conditions []segment.Condition `json:"conditions"`
	Logic      segment.Logic       `json:"logic"`
}

// Validate performs validation on the preview request
func (r *PreviewSegmentRequest) Validate() error {
	if err := segment.ValidateConditions(r.Conditions, r.Logic); err != nil {
		return models.ErrInvalidInput(err.Error())
	}
	return nil
}

// UnmarshalJSON rejects partial conditions (missing field, operator or
// value) with a clear message instead of a generic decode error.
func (r *PreviewSegmentRequest) UnmarshalJSON(data []byte) error {
	type alias PreviewSegmentRequest
	var decoded alias
	if err := json.Unmarshal(data, &decoded); err != nil {
		var condErr *segment.InvalidConditionError
		if errors.As(err, &condErr) {
			return models.ErrInvalidInput(condErr.Error())
		}
		return err
	}
	*r = PreviewSegmentRequest(decoded)
	return nil
}

// PreviewResult is the outcome of a segment preview: the matching count plus
// a small sample for human sanity-checking. The sample is never the full
// match set and must not be treated as one.
type PreviewResult struct {
	AudienceSize    int64              `json:"audience_size"`
	SampleCustomers []*models.Customer `json:"sample_customers"`
}

// CreateCampaignRequest represents a request to create a campaign
type CreateCampaignRequest struct {
	Name      string `json:"name"`
	SegmentID int64  `json:"segment_id"`
	Message   string `json:"message"`
}

// Validate performs validation on the create campaign request
func (r *CreateCampaignRequest) Validate() error {
	if r.Name == "" {
		return models.ErrInvalidInput("name is required")
	}
	if r.SegmentID <= 0 {
		return models.ErrInvalidInput("segment_id is required")
	}
	if r.Message == "" {
		return models.ErrInvalidInput("message is required")
	}
	return nil
}

// CreateCampaignResult is the outcome of campaign creation: the campaign
// itself plus how many deliveries were snapshotted and queued.
type CreateCampaignResult struct {
	Campaign       *models.Campaign `json:"campaign"`
	AudienceSize   int64            `json:"audience_size"`
	MessagesQueued int              `json:"messages_queued"`
}

// CampaignHistoryEntry joins a campaign with its segment name and the stats
// computed from its log set.
type CampaignHistoryEntry struct {
	*models.Campaign
	SegmentName string              `json:"segment_name,omitempty"`
	Stats       stats.CampaignStats `json:"stats"`
}

// CustomerListResult represents paginated customer list results
type CustomerListResult struct {
	Data       []*models.Customer `json:"data"`
	Pagination models.Pagination  `json:"pagination"`
}

// OrderListResult represents paginated order list results
type OrderListResult struct {
	Data       []*models.Order   `json:"data"`
	Pagination models.Pagination `json:"pagination"`
}

// SegmentListResult represents paginated segment list results
type SegmentListResult struct {
	Data       []*models.Segment `json:"data"`
	Pagination models.Pagination `json:"pagination"`
}

// CampaignListResult represents paginated campaign list results
type CampaignListResult struct {
	Data       []*models.Campaign `json:"data"`
	Pagination models.Pagination  `json:"pagination"`
}

// CommunicationListResult represents paginated communication log results
type CommunicationListResult struct {
	Data       []*models.CommunicationLog `json:"data"`
	Pagination models.Pagination          `json:"pagination"`
}
