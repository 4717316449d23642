package service

import (
	"context"
	"fmt"

	"github.com/yuvinraja/crm-backend/internal/models"
	"github.com/yuvinraja/crm-backend/internal/repository"
)

// CommunicationService exposes read access to delivery logs
type CommunicationService interface {
	List(ctx context.Context, filter models.CommunicationLogFilter) (*CommunicationListResult, error)
	ListByCampaign(ctx context.Context, campaignID int64) ([]*models.CommunicationLog, error)
}

type communicationService struct {
	logRepo      repository.CommunicationLogRepository
	campaignRepo repository.CampaignRepository
}

// NewCommunicationService creates a new communication service
func NewCommunicationService(logRepo repository.CommunicationLogRepository, campaignRepo repository.CampaignRepository) CommunicationService {
	return &communicationService{
		logRepo:      logRepo,
		campaignRepo: campaignRepo,
	}
}

func (s *communicationService) List(ctx context.Context, filter models.CommunicationLogFilter) (*CommunicationListResult, error) {
	models.ClampPage(&filter.Page, &filter.PageSize)

	logs, total, err := s.logRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list communication logs: %w", err)
	}

	return &CommunicationListResult{
		Data:       logs,
		Pagination: models.NewPagination(filter.Page, filter.PageSize, total),
	}, nil
}

func (s *communicationService) ListByCampaign(ctx context.Context, campaignID int64) ([]*models.CommunicationLog, error) {
	// Verify the campaign exists so a bad ID surfaces as NOT_FOUND rather
	// than an empty list.
	if _, err := s.campaignRepo.GetByID(ctx, campaignID); err != nil {
		return nil, err
	}

	logs, err := s.logRepo.ListByCampaign(ctx, campaignID)
	if err != nil {
		return nil, fmt.Errorf("failed to list campaign communications: %w", err)
	}
	return logs, nil
}
