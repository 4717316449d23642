package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/yuvinraja/crm-backend/internal/models"
	"github.com/yuvinraja/crm-backend/internal/queue"
	"github.com/yuvinraja/crm-backend/internal/repository"
	"github.com/yuvinraja/crm-backend/internal/stats"
)

// CampaignService handles campaign business logic
type CampaignService interface {
	Create(ctx context.Context, req *CreateCampaignRequest, createdBy string) (*CreateCampaignResult, error)
	GetByID(ctx context.Context, id int64) (*models.Campaign, error)
	List(ctx context.Context, filter models.CampaignFilter) (*CampaignListResult, error)
	History(ctx context.Context) ([]*CampaignHistoryEntry, error)
	Stats(ctx context.Context, id int64) (*stats.CampaignStats, error)
	Delete(ctx context.Context, id int64) error
}

type campaignService struct {
	campaignRepo repository.CampaignRepository
	segmentSvc   SegmentService
	segmentRepo  repository.SegmentRepository
	logRepo      repository.CommunicationLogRepository
	templateSvc  TemplateService
	queueClient  queue.Client
	logger       *slog.Logger
}

// NewCampaignService creates a new campaign service
func NewCampaignService(
	campaignRepo repository.CampaignRepository,
	segmentRepo repository.SegmentRepository,
	segmentSvc SegmentService,
	logRepo repository.CommunicationLogRepository,
	templateSvc TemplateService,
	queueClient queue.Client,
	logger *slog.Logger,
) CampaignService {
	return &campaignService{
		campaignRepo: campaignRepo,
		segmentRepo:  segmentRepo,
		segmentSvc:   segmentSvc,
		logRepo:      logRepo,
		templateSvc:  templateSvc,
		queueClient:  queueClient,
		logger:       logger,
	}
}

// Create snapshots the segment's current audience, persists the campaign,
// writes one PENDING communication log per audience member with the
// personalized message, and queues the deliveries. Later changes to the
// segment never touch this campaign's logs.
func (s *campaignService) Create(ctx context.Context, req *CreateCampaignRequest, createdBy string) (*CreateCampaignResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if err := s.templateSvc.ValidateTemplate(req.Message); err != nil {
		return nil, err
	}

	if _, err := s.segmentRepo.GetByID(ctx, req.SegmentID); err != nil {
		return nil, err
	}

	audience, err := s.segmentSvc.Audience(ctx, req.SegmentID)
	if err != nil {
		return nil, err
	}

	if len(audience) == 0 {
		return nil, models.ErrInvalidInput("segment has no matching customers")
	}

	campaign := &models.Campaign{
		Name:      req.Name,
		SegmentID: req.SegmentID,
		Message:   req.Message,
		CreatedBy: createdBy,
	}

	if err := s.campaignRepo.Create(ctx, campaign); err != nil {
		s.logger.Error("failed to create campaign",
			slog.String("error", err.Error()),
			slog.String("name", req.Name),
		)
		return nil, fmt.Errorf("failed to create campaign: %w", err)
	}

	logs := make([]*models.CommunicationLog, 0, len(audience))
	for _, customer := range audience {
		rendered, err := s.templateSvc.Render(campaign.Message, customer)
		if err != nil {
			s.logger.Warn("failed to render message, skipping customer",
				slog.Int64("campaign_id", campaign.ID),
				slog.Int64("customer_id", customer.ID),
				slog.String("error", err.Error()),
			)
			continue
		}

		logs = append(logs, &models.CommunicationLog{
			CustomerID:     customer.ID,
			CampaignID:     campaign.ID,
			DeliveryStatus: models.DeliveryStatusPending,
			Message:        rendered,
		})
	}

	if err := s.logRepo.CreateBatch(ctx, logs); err != nil {
		s.logger.Error("failed to create communication logs",
			slog.Int64("campaign_id", campaign.ID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to create communication logs: %w", err)
	}

	queuedCount := 0
	for _, log := range logs {
		job := &models.DeliveryJob{CommunicationLogID: log.ID}

		if err := s.queueClient.Publish(ctx, job); err != nil {
			s.logger.Error("failed to queue delivery",
				slog.Int64("communication_log_id", log.ID),
				slog.String("error", err.Error()),
			)
			continue
		}
		queuedCount++
	}

	s.logger.Info("campaign created",
		slog.Int64("campaign_id", campaign.ID),
		slog.Int("audience_size", len(logs)),
		slog.Int("deliveries_queued", queuedCount),
	)

	return &CreateCampaignResult{
		Campaign:       campaign,
		AudienceSize:   int64(len(logs)),
		MessagesQueued: queuedCount,
	}, nil
}

// GetByID retrieves a campaign by ID
func (s *campaignService) GetByID(ctx context.Context, id int64) (*models.Campaign, error) {
	return s.campaignRepo.GetByID(ctx, id)
}

// List retrieves campaigns with pagination
func (s *campaignService) List(ctx context.Context, filter models.CampaignFilter) (*CampaignListResult, error) {
	campaigns, totalCount, err := s.campaignRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}

	models.ClampPage(&filter.Page, &filter.PageSize)
	pagination := models.NewPagination(filter.Page, filter.PageSize, totalCount)

	return &CampaignListResult{
		Data:       campaigns,
		Pagination: pagination,
	}, nil
}

// History returns every campaign joined with its segment name and the stats
// computed from its log set.
func (s *campaignService) History(ctx context.Context) ([]*CampaignHistoryEntry, error) {
	campaigns, err := s.campaignRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaigns: %w", err)
	}

	entries := make([]*CampaignHistoryEntry, 0, len(campaigns))
	for _, campaign := range campaigns {
		logs, err := s.logRepo.ListByCampaign(ctx, campaign.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to load logs for campaign %d: %w", campaign.ID, err)
		}

		entry := &CampaignHistoryEntry{
			Campaign: campaign,
			Stats:    stats.ComputeCampaignStats(logs),
		}

		if seg, err := s.segmentRepo.GetByID(ctx, campaign.SegmentID); err == nil {
			entry.SegmentName = seg.Name
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

// Stats computes delivery statistics for one campaign from its live log set.
// The logs are the single source of truth here; nothing is cached.
func (s *campaignService) Stats(ctx context.Context, id int64) (*stats.CampaignStats, error) {
	if _, err := s.campaignRepo.GetByID(ctx, id); err != nil {
		return nil, err
	}

	logs, err := s.logRepo.ListByCampaign(ctx, id)
	if err != nil {
		return nil, models.ErrUnavailableWithMsg("communication logs unavailable", err)
	}

	result := stats.ComputeCampaignStats(logs)
	return &result, nil
}

// Delete removes a campaign
func (s *campaignService) Delete(ctx context.Context, id int64) error {
	if err := s.campaignRepo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("campaign deleted", slog.Int64("campaign_id", id))
	return nil
}
