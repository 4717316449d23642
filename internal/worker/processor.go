package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/yuvinraja/crm-backend/internal/metrics"
	"github.com/yuvinraja/crm-backend/internal/models"
	"github.com/yuvinraja/crm-backend/internal/repository"
)

// DeliveryProcessor processes delivery jobs from the queue: it hands each
// pending communication log to the vendor gateway and records the outcome.
type DeliveryProcessor struct {
	logRepo      repository.CommunicationLogRepository
	customerRepo repository.CustomerRepository
	vendor       VendorGateway
	metrics      *metrics.Metrics
	logger       *slog.Logger
}

// NewDeliveryProcessor creates a new delivery processor
func NewDeliveryProcessor(
	logRepo repository.CommunicationLogRepository,
	customerRepo repository.CustomerRepository,
	vendor VendorGateway,
	m *metrics.Metrics,
	logger *slog.Logger,
) *DeliveryProcessor {
	return &DeliveryProcessor{
		logRepo:      logRepo,
		customerRepo: customerRepo,
		vendor:       vendor,
		metrics:      m,
		logger:       logger,
	}
}

// Process handles a single delivery job. SENT and FAILED are terminal: a
// job for an already-finalized log is dropped, so redelivered jobs are
// harmless.
func (p *DeliveryProcessor) Process(ctx context.Context, job *models.DeliveryJob) error {
	log, err := p.logRepo.GetByID(ctx, job.CommunicationLogID)
	if err != nil {
		p.logger.Error("failed to fetch communication log",
			slog.Int64("communication_log_id", job.CommunicationLogID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to fetch communication log: %w", err)
	}

	if log.IsTerminal() {
		p.logger.Info("communication log already finalized, skipping",
			slog.Int64("communication_log_id", log.ID),
			slog.String("status", log.DeliveryStatus),
		)
		return nil
	}

	customer, err := p.customerRepo.GetByID(ctx, log.CustomerID)
	if err != nil {
		p.logger.Error("failed to fetch customer",
			slog.Int64("customer_id", log.CustomerID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to fetch customer: %w", err)
	}

	recipient := customer.Phone
	if recipient == "" {
		recipient = customer.Email
	}

	vendorResp, deliverErr := p.vendor.Deliver(ctx, recipient, log.Message)
	if deliverErr != nil {
		return p.handleFailure(ctx, log, deliverErr)
	}

	return p.handleSuccess(ctx, log, vendorResp)
}

// handleSuccess finalizes the log as SENT with the vendor receipt.
func (p *DeliveryProcessor) handleSuccess(ctx context.Context, log *models.CommunicationLog, vendorResp *models.VendorResponse) error {
	if err := p.logRepo.MarkSent(ctx, log.ID, vendorResp); err != nil {
		p.logger.Error("failed to mark communication log sent",
			slog.Int64("communication_log_id", log.ID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to mark communication log sent: %w", err)
	}

	if p.metrics != nil {
		p.metrics.DeliveriesSentTotal.Inc()
	}

	p.logger.Info("message delivered",
		slog.Int64("communication_log_id", log.ID),
		slog.Int64("campaign_id", log.CampaignID),
		slog.String("vendor_message_id", vendorResp.MessageID),
	)

	return nil
}

// handleFailure finalizes the log as FAILED with the vendor error. There is
// no automatic retry: FAILED is terminal and retries are user-initiated by
// sending a new campaign.
func (p *DeliveryProcessor) handleFailure(ctx context.Context, log *models.CommunicationLog, deliverErr error) error {
	now := time.Now()
	vendorResp := &models.VendorResponse{
		Timestamp:    &now,
		ErrorMessage: deliverErr.Error(),
	}

	if err := p.logRepo.MarkFailed(ctx, log.ID, vendorResp); err != nil {
		p.logger.Error("failed to mark communication log failed",
			slog.Int64("communication_log_id", log.ID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to mark communication log failed: %w", err)
	}

	if p.metrics != nil {
		p.metrics.DeliveriesFailedTotal.Inc()
	}

	p.logger.Warn("message delivery failed",
		slog.Int64("communication_log_id", log.ID),
		slog.Int64("campaign_id", log.CampaignID),
		slog.String("error", deliverErr.Error()),
	)

	return nil
}
