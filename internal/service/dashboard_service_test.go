package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yuvinraja/crm-backend/internal/models"
)

func TestDashboardServiceStats(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

	customerRepo := &mockCustomerRepository{
		customers: []*models.CustomerWithOrders{
			{Customer: models.Customer{ID: 1, CreatedAt: now.Add(-24 * time.Hour)}},
			{Customer: models.Customer{ID: 2, CreatedAt: now.Add(-60 * 24 * time.Hour)}},
		},
	}
	segmentRepo := &mockSegmentRepository{
		segments: []*models.Segment{{ID: 1, CreatedAt: now.Add(-2 * 24 * time.Hour)}},
	}
	campaignRepo := &mockCampaignRepository{
		campaigns: []*models.Campaign{{ID: 1, CreatedAt: now.Add(-10 * 24 * time.Hour)}},
	}
	logRepo := &mockCommunicationLogRepository{
		logs: []*models.CommunicationLog{
			{ID: 1, DeliveryStatus: models.DeliveryStatusSent},
			{ID: 2, DeliveryStatus: models.DeliveryStatusFailed},
		},
	}

	svc := NewDashboardService(customerRepo, segmentRepo, campaignRepo, logRepo, testLogger()).(*dashboardService)
	svc.now = func() time.Time { return now }

	got, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats() error: %v", err)
	}

	if got.TotalCustomers != 2 {
		t.Errorf("TotalCustomers = %d, want 2", got.TotalCustomers)
	}
	if got.ActiveSegments != 1 {
		t.Errorf("ActiveSegments = %d, want 1", got.ActiveSegments)
	}
	if got.CampaignsSent != 1 {
		t.Errorf("CampaignsSent = %d, want 1", got.CampaignsSent)
	}
	if got.EngagementRate != 50 {
		t.Errorf("EngagementRate = %v, want 50", got.EngagementRate)
	}
	if got.RecentCustomers != 1 {
		t.Errorf("RecentCustomers = %d, want 1", got.RecentCustomers)
	}
}

// Totals must cover whole collections. With more rows than a list page can
// carry, the dashboard still reports the full count.
func TestDashboardServiceStatsCountsBeyondPageLimit(t *testing.T) {
	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)

	customerRepo := &mockCustomerRepository{}
	for i := 0; i < 250; i++ {
		customerRepo.customers = append(customerRepo.customers, &models.CustomerWithOrders{
			Customer: models.Customer{ID: int64(i + 1), CreatedAt: now.Add(-60 * 24 * time.Hour)},
		})
	}

	// The mock pages its lists like the real repository, so only a count
	// query can see all 250 rows.
	if page, _, _ := customerRepo.List(context.Background(), models.CustomerFilter{Page: 1, PageSize: 100}); len(page) != 100 {
		t.Fatalf("mock List page length = %d, want 100", len(page))
	}

	svc := NewDashboardService(customerRepo, &mockSegmentRepository{}, &mockCampaignRepository{}, &mockCommunicationLogRepository{}, testLogger()).(*dashboardService)
	svc.now = func() time.Time { return now }

	got, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("Stats() error: %v", err)
	}

	if got.TotalCustomers != 250 {
		t.Errorf("TotalCustomers = %d, want 250", got.TotalCustomers)
	}
	if got.RecentCustomers != 0 {
		t.Errorf("RecentCustomers = %d, want 0 for customers older than the window", got.RecentCustomers)
	}
}

// The aggregation is all or nothing: one failing collection fails the whole
// call instead of reporting partial numbers.
func TestDashboardServiceStatsAllOrNothing(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*mockCustomerRepository, *mockSegmentRepository, *mockCampaignRepository, *mockCommunicationLogRepository)
	}{
		{"customers fail", func(c *mockCustomerRepository, _ *mockSegmentRepository, _ *mockCampaignRepository, _ *mockCommunicationLogRepository) {
			c.listErr = errors.New("boom")
		}},
		{"segments fail", func(_ *mockCustomerRepository, s *mockSegmentRepository, _ *mockCampaignRepository, _ *mockCommunicationLogRepository) {
			s.listErr = errors.New("boom")
		}},
		{"campaigns fail", func(_ *mockCustomerRepository, _ *mockSegmentRepository, c *mockCampaignRepository, _ *mockCommunicationLogRepository) {
			c.listErr = errors.New("boom")
		}},
		{"communications fail", func(_ *mockCustomerRepository, _ *mockSegmentRepository, _ *mockCampaignRepository, l *mockCommunicationLogRepository) {
			l.listErr = errors.New("boom")
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			customerRepo := &mockCustomerRepository{}
			segmentRepo := &mockSegmentRepository{}
			campaignRepo := &mockCampaignRepository{}
			logRepo := &mockCommunicationLogRepository{}
			tt.setup(customerRepo, segmentRepo, campaignRepo, logRepo)

			svc := NewDashboardService(customerRepo, segmentRepo, campaignRepo, logRepo, testLogger())

			if _, err := svc.Stats(context.Background()); !errors.Is(err, models.ErrUnavailable) {
				t.Errorf("Stats() error = %v, want ErrUnavailable", err)
			}
		})
	}
}
