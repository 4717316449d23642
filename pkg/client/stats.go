package client

import (
	"context"
	"math"
	"time"
)

var clientDeliveryBuckets = []struct {
	label string
	min   float64
	max   float64
}{
	{label: "<1m", min: 0, max: 1},
	{label: "1-5m", min: 1, max: 5},
	{label: "5-15m", min: 5, max: 15},
	{label: "15-60m", min: 15, max: 60},
	{label: ">1h", min: 60, max: math.Inf(1)},
}

// CampaignStatsWithFallback fetches a campaign's stats, and when the stats
// endpoint fails with a retryable error derives an equivalent summary from
// the raw communication logs instead. The result's Source field tells the
// caller which path produced the numbers, since derived figures may lag the
// server's.
func (c *Client) CampaignStatsWithFallback(ctx context.Context, campaignID int64) (*CampaignStats, error) {
	serverStats, err := c.CampaignStats(ctx, campaignID)
	if err == nil {
		return serverStats, nil
	}
	if !IsRetryable(err) {
		return nil, err
	}

	page, logErr := c.CampaignCommunications(ctx, campaignID)
	if logErr != nil {
		// Report the original stats failure, not the fallback's.
		return nil, err
	}

	derived := DeriveCampaignStats(page.Items)
	return &derived, nil
}

// DeriveCampaignStats reduces raw communication logs into the same summary
// the stats endpoint computes. Every log lands in exactly one of sent,
// failed or pending.
func DeriveCampaignStats(logs []CommunicationLog) CampaignStats {
	derived := CampaignStats{
		Source:          StatsSourceDerived,
		DeliveryBuckets: make([]DeliveryBucket, len(clientDeliveryBuckets)),
	}
	for i, bucket := range clientDeliveryBuckets {
		derived.DeliveryBuckets[i].Label = bucket.label
	}

	for _, log := range logs {
		switch log.DeliveryStatus {
		case "SENT":
			derived.Sent++
		case "FAILED":
			derived.Failed++
		default:
			derived.Pending++
		}

		if minutes, ok := clientElapsedMinutes(log); ok {
			for i, bucket := range clientDeliveryBuckets {
				if minutes >= bucket.min && minutes < bucket.max {
					derived.DeliveryBuckets[i].Count++
					break
				}
			}
		}
	}

	derived.AudienceSize = int64(len(logs))
	if derived.AudienceSize > 0 {
		derived.SuccessRate = float64(derived.Sent) / float64(derived.AudienceSize) * 100
	}

	return derived
}

// clientElapsedMinutes mirrors the server's timestamp resolution: vendor
// timestamp first, then the log's updated time, then its created time.
// Missing creation times and negative spans are excluded, not bucketed.
func clientElapsedMinutes(log CommunicationLog) (float64, bool) {
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
