package models

import (
	"time"

	"github.com/yuvinraja/crm-backend/internal/segment"
)

// Segment is a named, persisted filter rule set over customers. Segments are
// immutable after creation: the UI offers create and delete only.
type Segment struct {
	ID           int64               `json:"id"`
	Name         string              `json:"name"`
	Conditions   []segment.Condition `json:"conditions"`
	Logic        segment.Logic       `json:"logic"`
	AudienceSize *int64              `json:"audience_size,omitempty"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
}

// SegmentFilter holds filtering options for listing segments
type SegmentFilter struct {
	Name     string
	Page     int
	PageSize int
}

// Validate performs validation on segment data. Condition values are already
// narrowed at decode time; this covers the segment-level invariants.
func (s *Segment) Validate() error {
	if s.Name == "" {
		return ErrInvalidInput("name is required")
	}
	if err := segment.ValidateConditions(s.Conditions, s.Logic); err != nil {
		return ErrInvalidInput(err.Error())
	}
	return nil
}
