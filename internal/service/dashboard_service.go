package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/yuvinraja/crm-backend/internal/models"
	"github.com/yuvinraja/crm-backend/internal/repository"
	"github.com/yuvinraja/crm-backend/internal/stats"
)

// DashboardService composes top-line metrics from the four independent
// collections.
type DashboardService interface {
	Stats(ctx context.Context) (*stats.DashboardStats, error)
}

type dashboardService struct {
	customerRepo repository.CustomerRepository
	segmentRepo  repository.SegmentRepository
	campaignRepo repository.CampaignRepository
	logRepo      repository.CommunicationLogRepository
	now          func() time.Time
	logger       *slog.Logger
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	customerRepo repository.CustomerRepository,
	segmentRepo repository.SegmentRepository,
	campaignRepo repository.CampaignRepository,
	logRepo repository.CommunicationLogRepository,
	logger *slog.Logger,
) DashboardService {
	return &dashboardService{
		customerRepo: customerRepo,
		segmentRepo:  segmentRepo,
		campaignRepo: campaignRepo,
		logRepo:      logRepo,
		now:          time.Now,
		logger:       logger,
	}
}

// Stats fetches the four collections concurrently and joins them before
// aggregating. Totals and recency figures come from count queries, so the
// numbers cover whole collections rather than a fetched page. The join is
// all-or-nothing: if any fetch fails the whole aggregation fails rather
// than reporting partial numbers as real ones.
func (s *dashboardService) Stats(ctx context.Context) (*stats.DashboardStats, error) {
	now := s.now()

	var (
		counts stats.DashboardCounts
		logs   []*models.CommunicationLog
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		if counts.Customers, err = s.customerRepo.Count(gctx, time.Time{}); err != nil {
			return fmt.Errorf("customers: %w", err)
		}
		if counts.RecentCustomers, err = s.customerRepo.Count(gctx, now.Add(-stats.RecentCustomerWindow)); err != nil {
			return fmt.Errorf("customers: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		if counts.Segments, err = s.segmentRepo.Count(gctx, time.Time{}); err != nil {
			return fmt.Errorf("segments: %w", err)
		}
		if counts.RecentSegments, err = s.segmentRepo.Count(gctx, now.Add(-stats.RecentSegmentWindow)); err != nil {
			return fmt.Errorf("segments: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		if counts.Campaigns, err = s.campaignRepo.Count(gctx, time.Time{}); err != nil {
			return fmt.Errorf("campaigns: %w", err)
		}
		if counts.RecentCampaigns, err = s.campaignRepo.Count(gctx, now.Add(-stats.RecentCampaignWindow)); err != nil {
			return fmt.Errorf("campaigns: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		var err error
		logs, err = s.logRepo.ListAll(gctx)
		if err != nil {
			return fmt.Errorf("communications: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("dashboard aggregation failed", slog.String("error", err.Error()))
		return nil, models.ErrUnavailableWithMsg("dashboard data unavailable", err)
	}

	result := stats.ComputeDashboardStats(counts, logs)
	return &result, nil
}
