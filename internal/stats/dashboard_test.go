package stats

import (
	"testing"

	"github.com/yuvinraja/crm-backend/internal/models"
)

func TestComputeDashboardStats(t *testing.T) {
	counts := DashboardCounts{
		Customers:       3,
		Segments:        2,
		Campaigns:       2,
		RecentCustomers: 2,
		RecentSegments:  1,
		RecentCampaigns: 1,
	}
	logs := []*models.CommunicationLog{
		{DeliveryStatus: models.DeliveryStatusSent},
		{DeliveryStatus: models.DeliveryStatusSent},
		{DeliveryStatus: models.DeliveryStatusSent},
		{DeliveryStatus: models.DeliveryStatusFailed},
	}

	got := ComputeDashboardStats(counts, logs)

	if got.TotalCustomers != 3 {
		t.Errorf("TotalCustomers = %d, want 3", got.TotalCustomers)
	}
	if got.ActiveSegments != 2 {
		t.Errorf("ActiveSegments = %d, want 2", got.ActiveSegments)
	}
	if got.CampaignsSent != 2 {
		t.Errorf("CampaignsSent = %d, want 2", got.CampaignsSent)
	}
	if got.EngagementRate != 75 {
		t.Errorf("EngagementRate = %v, want 75", got.EngagementRate)
	}
	if got.RecentCustomers != 2 {
		t.Errorf("RecentCustomers = %d, want 2", got.RecentCustomers)
	}
	if got.RecentSegments != 1 {
		t.Errorf("RecentSegments = %d, want 1", got.RecentSegments)
	}
	if got.RecentCampaigns != 1 {
		t.Errorf("RecentCampaigns = %d, want 1", got.RecentCampaigns)
	}
}

// Totals pass through untouched: the aggregation must never substitute the
// size of a fetched page for the collection count.
func TestComputeDashboardStatsTotalsExceedLogCount(t *testing.T) {
	counts := DashboardCounts{Customers: 250, Segments: 130, Campaigns: 101}

	got := ComputeDashboardStats(counts, nil)

	if got.TotalCustomers != 250 {
		t.Errorf("TotalCustomers = %d, want 250", got.TotalCustomers)
	}
	if got.ActiveSegments != 130 {
		t.Errorf("ActiveSegments = %d, want 130", got.ActiveSegments)
	}
	if got.CampaignsSent != 101 {
		t.Errorf("CampaignsSent = %d, want 101", got.CampaignsSent)
	}
}

func TestComputeDashboardStatsEmpty(t *testing.T) {
	got := ComputeDashboardStats(DashboardCounts{}, nil)

	if got.EngagementRate != 0 {
		t.Errorf("EngagementRate = %v, want 0 with no logs", got.EngagementRate)
	}
	if !got.MonthlyGrowth.Estimated {
		t.Error("MonthlyGrowth.Estimated = false, want true")
	}
	if got.MonthlyGrowth.Customers != 0 || got.MonthlyGrowth.Segments != 0 ||
		got.MonthlyGrowth.Campaigns != 0 || got.MonthlyGrowth.Engagement != 0 {
		t.Errorf("growth figures should be zero with no activity: %+v", got.MonthlyGrowth)
	}
}

func TestGrowthEstimateGating(t *testing.T) {
	counts := DashboardCounts{Customers: 1, RecentCustomers: 1}
	logs := []*models.CommunicationLog{{DeliveryStatus: models.DeliveryStatusSent}}

	got := ComputeDashboardStats(counts, logs)

	if !got.MonthlyGrowth.Estimated {
		t.Error("MonthlyGrowth.Estimated = false, want true")
	}
	if got.MonthlyGrowth.Customers == 0 {
		t.Error("Customers growth = 0, want a figure when recent customers exist")
	}
	if got.MonthlyGrowth.Segments != 0 {
		t.Errorf("Segments growth = %v, want 0 with no recent segments", got.MonthlyGrowth.Segments)
	}
	if got.MonthlyGrowth.Engagement == 0 {
		t.Error("Engagement growth = 0, want a figure when engagement is nonzero")
	}
}
