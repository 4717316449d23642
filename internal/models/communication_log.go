package models

import "time"

// Delivery status constants. SENT and FAILED are terminal; PENDING is the
// only non-terminal state.
const (
	DeliveryStatusPending = "PENDING"
	DeliveryStatusSent    = "SENT"
	DeliveryStatusFailed  = "FAILED"
)

// VendorResponse is what the delivery vendor reported for one message.
type VendorResponse struct {
	MessageID    string     `json:"message_id,omitempty"`
	Timestamp    *time.Time `json:"timestamp,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
}

// CommunicationLog is one delivery-outcome record for one
// (campaign, customer) pair.
type CommunicationLog struct {
	ID             int64           `json:"id"`
	CustomerID     int64           `json:"customer_id"`
	CampaignID     int64           `json:"campaign_id"`
	DeliveryStatus string          `json:"delivery_status"`
	Message        string          `json:"message"`
	VendorResponse *VendorResponse `json:"vendor_response,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// CommunicationLogFilter holds filtering options for listing logs
type CommunicationLogFilter struct {
	CampaignID int64
	CustomerID int64
	Status     string
	Page       int
	PageSize   int
}

// IsValidDeliveryStatus checks if the delivery status is valid
func IsValidDeliveryStatus(status string) bool {
	switch status {
	case DeliveryStatusPending, DeliveryStatusSent, DeliveryStatusFailed:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether the log has reached a final delivery state.
func (l *CommunicationLog) IsTerminal() bool {
	return l.DeliveryStatus == DeliveryStatusSent || l.DeliveryStatus == DeliveryStatusFailed
}

// DeliveryJob is the unit of work queued for the delivery worker.
type DeliveryJob struct {
	CommunicationLogID int64 `json:"communication_log_id"`
}
