package stats

import (
	"time"

	"github.com/yuvinraja/crm-backend/internal/models"
)

// Trailing windows for the "recent" dashboard counts. Callers resolve these
// into cutoff timestamps so the counting can happen wherever the data lives.
const (
	RecentSegmentWindow  = 7 * 24 * time.Hour
	RecentCampaignWindow = 30 * 24 * time.Hour
	RecentCustomerWindow = 30 * 24 * time.Hour
)

// DashboardCounts carries the collection counts the caller fetched. Totals
// cover the whole collection; the recent figures cover the trailing windows
// above.
type DashboardCounts struct {
	Customers       int64
	Segments        int64
	Campaigns       int64
	RecentCustomers int64
	RecentSegments  int64
	RecentCampaigns int64
}

// GrowthEstimate carries the period-over-period growth placeholders. These
// are heuristics gated on recency counts, not true historical comparisons,
// hence the explicit Estimated flag.
type GrowthEstimate struct {
	Estimated  bool    `json:"estimated"`
	Customers  float64 `json:"customers"`
	Segments   float64 `json:"segments"`
	Campaigns  float64 `json:"campaigns"`
	Engagement float64 `json:"engagement"`
}

// DashboardStats composes top-line metrics from the four independent
// collections.
type DashboardStats struct {
	TotalCustomers  int64          `json:"total_customers"`
	ActiveSegments  int64          `json:"active_segments"`
	CampaignsSent   int64          `json:"campaigns_sent"`
	EngagementRate  float64        `json:"engagement_rate"`
	RecentCustomers int64          `json:"recent_customers"`
	RecentSegments  int64          `json:"recent_segments"`
	RecentCampaigns int64          `json:"recent_campaigns"`
	MonthlyGrowth   GrowthEstimate `json:"monthly_growth"`
}

// ComputeDashboardStats reduces the collection counts and the full log set
// into dashboard metrics. The counts arrive pre-aggregated so the result
// reflects whole collections, never a fetched page of them.
func ComputeDashboardStats(counts DashboardCounts, logs []*models.CommunicationLog) DashboardStats {
	stats := DashboardStats{
		TotalCustomers:  counts.Customers,
		ActiveSegments:  counts.Segments,
		CampaignsSent:   counts.Campaigns,
		RecentCustomers: counts.RecentCustomers,
		RecentSegments:  counts.RecentSegments,
		RecentCampaigns: counts.RecentCampaigns,
	}

	var sent int64
	for _, log := range logs {
		if log.DeliveryStatus == models.DeliveryStatusSent {
			sent++
		}
	}
	if len(logs) > 0 {
		stats.EngagementRate = float64(sent) / float64(len(logs)) * 100
	}

	stats.MonthlyGrowth = estimateGrowth(stats)
	return stats
}

// estimateGrowth produces the fixed-percentage growth placeholders. Real
// period-over-period numbers need historical snapshots the system does not
// keep, so each figure is only emitted when the matching recency count shows
// any activity at all.
func estimateGrowth(stats DashboardStats) GrowthEstimate {
	growth := GrowthEstimate{Estimated: true}
	if stats.RecentCustomers > 0 {
		growth.Customers = 12.5
	}
	if stats.RecentSegments > 0 {
		growth.Segments = 8.3
	}
	if stats.RecentCampaigns > 0 {
		growth.Campaigns = 15.2
	}
	if stats.EngagementRate > 0 {
		growth.Engagement = 2.1
	}
	return growth
}
