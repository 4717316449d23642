// Package stats holds the pure aggregation logic for campaign delivery and
// dashboard metrics. Everything here is side-effect-free: the same input set
// always produces the same output.
package stats

import (
	"math"
	"time"

	"github.com/yuvinraja/crm-backend/internal/models"
)

// Delivery-latency histogram boundaries in minutes, half-open on the lower
// bound, exclusive on the upper. The last bucket is unbounded.
var deliveryBuckets = []struct {
	Label string
	Min   float64
	Max   float64
}{
	{Label: "<1m", Min: 0, Max: 1},
	{Label: "1-5m", Min: 1, Max: 5},
	{Label: "5-15m", Min: 5, Max: 15},
	{Label: "15-60m", Min: 15, Max: 60},
	{Label: ">1h", Min: 60, Max: math.Inf(1)},
}

// DeliveryBucket is one slot of the delivery-latency histogram.
type DeliveryBucket struct {
	Label string `json:"label"`
	Count int64  `json:"count"`
}

// CampaignStats summarizes a campaign's communication log set. The log set,
// not the segment's live audience, is authoritative for a past campaign.
type CampaignStats struct {
	Sent            int64            `json:"sent"`
	Failed          int64            `json:"failed"`
	Pending         int64            `json:"pending"`
	AudienceSize    int64            `json:"audience_size"`
	SuccessRate     float64          `json:"success_rate"`
	DeliveryBuckets []DeliveryBucket `json:"delivery_buckets"`
}

// SuccessRateDisplay returns the success rate rounded to one decimal place.
// Full precision stays in SuccessRate; this is for presentation only.
func (s CampaignStats) SuccessRateDisplay() float64 {
	return math.Round(s.SuccessRate*10) / 10
}

// ComputeCampaignStats reduces a campaign's log set into summary counts and
// the delivery-latency histogram. Every log lands in exactly one status
// count, so sent+failed+pending always equals the audience size.
func ComputeCampaignStats(logs []*models.CommunicationLog) CampaignStats {
	stats := CampaignStats{
		DeliveryBuckets: make([]DeliveryBucket, len(deliveryBuckets)),
	}
	for i, bucket := range deliveryBuckets {
		stats.DeliveryBuckets[i].Label = bucket.Label
	}

	for _, log := range logs {
		switch log.DeliveryStatus {
		case models.DeliveryStatusSent:
			stats.Sent++
		case models.DeliveryStatusFailed:
			stats.Failed++
		default:
			stats.Pending++
		}

		if minutes, ok := elapsedMinutes(log); ok {
			for i, bucket := range deliveryBuckets {
				if minutes >= bucket.Min && minutes < bucket.Max {
					stats.DeliveryBuckets[i].Count++
					break
				}
			}
		}
	}

	stats.AudienceSize = int64(len(logs))
	if stats.AudienceSize > 0 {
		stats.SuccessRate = float64(stats.Sent) / float64(stats.AudienceSize) * 100
	}

	return stats
}

// elapsedMinutes resolves the time from log creation to delivery, preferring
// the vendor's timestamp, then the log's updated time, then its created
// time. A missing creation time or a negative elapsed time is a data-quality
// problem, not a fast delivery, so such logs are excluded from every bucket.
func elapsedMinutes(log *models.CommunicationLog) (float64, bool) {
	if log.CreatedAt.IsZero() {
		return 0, false
	}

	var deliveredAt time.Time
	switch {
	case log.VendorResponse != nil && log.VendorResponse.Timestamp != nil:
		deliveredAt = *log.VendorResponse.Timestamp
	case !log.UpdatedAt.IsZero():
		deliveredAt = log.UpdatedAt
	default:
		deliveredAt = log.CreatedAt
	}

	elapsed := deliveredAt.Sub(log.CreatedAt)
	if elapsed < 0 {
		return 0, false
	}

	return elapsed.Minutes(), true
}
