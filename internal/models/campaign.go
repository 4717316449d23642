package models

import "time"

// Campaign is a message dispatched to a segment's audience. The audience is
// snapshotted at send time: one communication log per (campaign, customer)
// pair, and later segment changes never touch past campaigns.
type Campaign struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	SegmentID int64     `json:"segment_id"`
	Message   string    `json:"message"`
	CreatedBy string    `json:"created_by,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CampaignFilter holds filtering options for listing campaigns
type CampaignFilter struct {
	SegmentID int64
	Page      int
	PageSize  int
}

// Validate performs validation on campaign data
func (c *Campaign) Validate() error {
	if c.Name == "" {
		return ErrInvalidInput("name is required")
	}
	if c.SegmentID <= 0 {
		return ErrInvalidInput("segment_id is required")
	}
	if c.Message == "" {
		return ErrInvalidInput("message is required")
	}
	return nil
}
