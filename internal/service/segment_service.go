package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/yuvinraja/crm-backend/internal/models"
	"github.com/yuvinraja/crm-backend/internal/repository"
	"github.com/yuvinraja/crm-backend/internal/segment"
)

// previewSampleLimit caps the sample list returned by Preview. The sample is
// for human sanity-checking, not a full match set.
const previewSampleLimit = 10

// SegmentService handles segment business logic
type SegmentService interface {
	Create(ctx context.Context, req *CreateSegmentRequest) (*models.Segment, error)
	GetByID(ctx context.Context, id int64) (*models.Segment, error)
	List(ctx context.Context, filter models.SegmentFilter) (*SegmentListResult, error)
	Preview(ctx context.Context, req *PreviewSegmentRequest) (*PreviewResult, error)
	Audience(ctx context.Context, id int64) ([]*models.Customer, error)
	Delete(ctx context.Context, id int64) error
}

type segmentService struct {
	segmentRepo  repository.SegmentRepository
	customerRepo repository.CustomerRepository
	logger       *slog.Logger
}

// NewSegmentService creates a new segment service
func NewSegmentService(
	segmentRepo repository.SegmentRepository,
	customerRepo repository.CustomerRepository,
	logger *slog.Logger,
) SegmentService {
	return &segmentService{
		segmentRepo:  segmentRepo,
		customerRepo: customerRepo,
		logger:       logger,
	}
}

// Create validates and persists a segment, snapshotting the current audience
// size. Condition values were already narrowed at decode time, so what
// arrives here is structurally sound.
func (s *segmentService) Create(ctx context.Context, req *CreateSegmentRequest) (*models.Segment, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	matches, err := s.match(ctx, req.Conditions, req.Logic)
	if err != nil {
		return nil, err
	}

	audienceSize := int64(len(matches))
	seg := &models.Segment{
		Name:         req.Name,
		Conditions:   req.Conditions,
		Logic:        req.Logic,
		AudienceSize: &audienceSize,
	}

	if err := s.segmentRepo.Create(ctx, seg); err != nil {
		s.logger.Error("failed to create segment",
			slog.String("error", err.Error()),
			slog.String("name", req.Name),
		)
		return nil, fmt.Errorf("failed to create segment: %w", err)
	}

	s.logger.Info("segment created",
		slog.Int64("segment_id", seg.ID),
		slog.String("name", seg.Name),
		slog.Int64("audience_size", audienceSize),
	)

	return seg, nil
}

// GetByID retrieves a segment by ID
func (s *segmentService) GetByID(ctx context.Context, id int64) (*models.Segment, error) {
	return s.segmentRepo.GetByID(ctx, id)
}

// List retrieves segments with pagination
func (s *segmentService) List(ctx context.Context, filter models.SegmentFilter) (*SegmentListResult, error) {
	segments, totalCount, err := s.segmentRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list segments: %w", err)
	}

	models.ClampPage(&filter.Page, &filter.PageSize)
	pagination := models.NewPagination(filter.Page, filter.PageSize, totalCount)

	return &SegmentListResult{
		Data:       segments,
		Pagination: pagination,
	}, nil
}

// Preview evaluates a draft segment against the current customer dataset
// without persisting anything. A dataset failure surfaces as a retryable
// UNAVAILABLE error so callers can tell "zero matches" from "evaluation
// failed".
func (s *segmentService) Preview(ctx context.Context, req *PreviewSegmentRequest) (*PreviewResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	matches, err := s.match(ctx, req.Conditions, req.Logic)
	if err != nil {
		return nil, err
	}

	sample := make([]*models.Customer, 0, previewSampleLimit)
	for _, match := range matches {
		if len(sample) == previewSampleLimit {
			break
		}
		customer := match.Customer
		sample = append(sample, &customer)
	}

	return &PreviewResult{
		AudienceSize:    int64(len(matches)),
		SampleCustomers: sample,
	}, nil
}

// Audience returns the customers currently matching a persisted segment.
func (s *segmentService) Audience(ctx context.Context, id int64) ([]*models.Customer, error) {
	seg, err := s.segmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	matches, err := s.match(ctx, seg.Conditions, seg.Logic)
	if err != nil {
		return nil, err
	}

	customers := make([]*models.Customer, 0, len(matches))
	for _, match := range matches {
		customer := match.Customer
		customers = append(customers, &customer)
	}

	return customers, nil
}

// Delete removes a segment
func (s *segmentService) Delete(ctx context.Context, id int64) error {
	if err := s.segmentRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("segment deleted", slog.Int64("segment_id", id))
	return nil
}

// match loads the evaluable customer dataset and filters it through the
// condition set.
func (s *segmentService) match(ctx context.Context, conditions []segment.Condition, logic segment.Logic) ([]*models.CustomerWithOrders, error) {
	customers, err := s.customerRepo.ListWithOrderCounts(ctx)
	if err != nil {
		return nil, models.ErrUnavailableWithMsg("customer dataset unavailable", err)
	}

	matches := []*models.CustomerWithOrders{}
	for _, customer := range customers {
		if segment.EvaluateAll(profileOf(customer), conditions, logic) {
			matches = append(matches, customer)
		}
	}

	return matches, nil
}

func profileOf(customer *models.CustomerWithOrders) segment.Profile {
	return segment.Profile{
		TotalSpending: customer.TotalSpending,
		OrderCount:    customer.OrderCount,
		LastVisit:     customer.LastVisit,
		Name:          customer.Name,
		Email:         customer.Email,
	}
}
