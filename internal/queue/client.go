package queue

import (
	"context"

	"github.com/yuvinraja/crm-backend/internal/models"
)

// Client defines the interface for delivery queue operations
type Client interface {
	// Publish sends a delivery job to the queue
	Publish(ctx context.Context, job *models.DeliveryJob) error

	// Consume receives delivery jobs from the queue and processes them with
	// the handler. concurrency controls how many jobs run simultaneously.
	Consume(ctx context.Context, handler JobHandler, concurrency int) error

	// Length reports the number of queued jobs
	Length(ctx context.Context) (int64, error)

	// Close closes the queue connection
	Close() error

	// Health checks if the queue is healthy
	Health(ctx context.Context) error
}

// JobHandler is a function that processes one delivery job
type JobHandler func(ctx context.Context, job *models.DeliveryJob) error
