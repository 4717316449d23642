package worker

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/yuvinraja/crm-backend/internal/models"
)

// VendorGateway is the delivery vendor the worker hands messages to.
type VendorGateway interface {
	Deliver(ctx context.Context, recipient string, message string) (*models.VendorResponse, error)
}

// simulatedVendor mimics a messaging vendor with a configurable success
// rate and network latency. Successful deliveries get a vendor message ID
// and timestamp, matching the receipt shape of a real gateway.
type simulatedVendor struct {
	successRate float64
	minDelay    time.Duration
	maxDelay    time.Duration
}

// NewSimulatedVendor creates a vendor gateway that succeeds with the given
// probability (defaults to 0.9 when out of range).
func NewSimulatedVendor(successRate float64) VendorGateway {
	if successRate <= 0 || successRate > 1.0 {
		successRate = 0.9
	}

	return &simulatedVendor{
		successRate: successRate,
		minDelay:    50 * time.Millisecond,
		maxDelay:    200 * time.Millisecond,
	}
}

// Deliver simulates handing a message to the vendor.
func (v *simulatedVendor) Deliver(ctx context.Context, recipient string, message string) (*models.VendorResponse, error) {
	delay := v.minDelay + time.Duration(rand.Int63n(int64(v.maxDelay-v.minDelay)))

	select {
	case <-time.After(delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	if rand.Float64() > v.successRate {
		return nil, fmt.Errorf("vendor rejected delivery to %s: simulated network error", recipient)
	}

	now := time.Now()
	return &models.VendorResponse{
		MessageID: uuid.NewString(),
		Timestamp: &now,
	}, nil
}
