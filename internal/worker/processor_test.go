package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/yuvinraja/crm-backend/internal/models"
)

type stubLogRepo struct {
	logs map[int64]*models.CommunicationLog
}

func (r *stubLogRepo) CreateBatch(ctx context.Context, logs []*models.CommunicationLog) error {
	return nil
}

func (r *stubLogRepo) GetByID(ctx context.Context, id int64) (*models.CommunicationLog, error) {
	log, ok := r.logs[id]
	if !ok {
		return nil, models.ErrNotFoundWithMsg("communication log not found")
	}
	return log, nil
}

func (r *stubLogRepo) List(ctx context.Context, filter models.CommunicationLogFilter) ([]*models.CommunicationLog, int64, error) {
	return nil, 0, nil
}

func (r *stubLogRepo) ListByCampaign(ctx context.Context, campaignID int64) ([]*models.CommunicationLog, error) {
	return nil, nil
}

func (r *stubLogRepo) ListAll(ctx context.Context) ([]*models.CommunicationLog, error) {
	return nil, nil
}

func (r *stubLogRepo) MarkSent(ctx context.Context, id int64, vendor *models.VendorResponse) error {
	log, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if log.IsTerminal() {
		return models.ErrConflictWithMsg("delivery already finalized")
	}
	log.DeliveryStatus = models.DeliveryStatusSent
	log.VendorResponse = vendor
	return nil
}

func (r *stubLogRepo) MarkFailed(ctx context.Context, id int64, vendor *models.VendorResponse) error {
	log, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if log.IsTerminal() {
		return models.ErrConflictWithMsg("delivery already finalized")
	}
	log.DeliveryStatus = models.DeliveryStatusFailed
	log.VendorResponse = vendor
	return nil
}

type stubCustomerRepo struct {
	customers map[int64]*models.Customer
}

func (r *stubCustomerRepo) Create(ctx context.Context, customer *models.Customer) error { return nil }

func (r *stubCustomerRepo) GetByID(ctx context.Context, id int64) (*models.Customer, error) {
	customer, ok := r.customers[id]
	if !ok {
		return nil, models.ErrNotFoundWithMsg("customer not found")
	}
	return customer, nil
}

func (r *stubCustomerRepo) GetByEmail(ctx context.Context, email string) (*models.Customer, error) {
	return nil, models.ErrNotFoundWithMsg("customer not found")
}

func (r *stubCustomerRepo) List(ctx context.Context, filter models.CustomerFilter) ([]*models.Customer, int64, error) {
	return nil, 0, nil
}

func (r *stubCustomerRepo) Count(ctx context.Context, since time.Time) (int64, error) {
	return int64(len(r.customers)), nil
}

func (r *stubCustomerRepo) ListWithOrderCounts(ctx context.Context) ([]*models.CustomerWithOrders, error) {
	return nil, nil
}

func (r *stubCustomerRepo) Update(ctx context.Context, customer *models.Customer) error { return nil }

func (r *stubCustomerRepo) Delete(ctx context.Context, id int64) error { return nil }

// stubVendor records what it was asked to deliver.
type stubVendor struct {
	recipients []string
	fail       bool
}

func (v *stubVendor) Deliver(ctx context.Context, recipient string, message string) (*models.VendorResponse, error) {
	v.recipients = append(v.recipients, recipient)
	if v.fail {
		return nil, errors.New("simulated vendor outage")
	}
	now := time.Now()
	return &models.VendorResponse{MessageID: "vendor-msg-1", Timestamp: &now}, nil
}

func newTestProcessor(logRepo *stubLogRepo, customerRepo *stubCustomerRepo, vendor VendorGateway) *DeliveryProcessor {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewDeliveryProcessor(logRepo, customerRepo, vendor, nil, logger)
}

func pendingFixture() (*stubLogRepo, *stubCustomerRepo) {
	logRepo := &stubLogRepo{
		logs: map[int64]*models.CommunicationLog{
			1: {ID: 1, CustomerID: 10, CampaignID: 5, DeliveryStatus: models.DeliveryStatusPending, Message: "Hi Alice"},
		},
	}
	customerRepo := &stubCustomerRepo{
		customers: map[int64]*models.Customer{
			10: {ID: 10, Name: "Alice", Email: "alice@example.com", Phone: "+254712345001"},
		},
	}
	return logRepo, customerRepo
}

func TestProcessorMarksSentOnSuccess(t *testing.T) {
	logRepo, customerRepo := pendingFixture()
	vendor := &stubVendor{}
	processor := newTestProcessor(logRepo, customerRepo, vendor)

	err := processor.Process(context.Background(), &models.DeliveryJob{CommunicationLogID: 1})
	if err != nil {
		t.Fatalf("Process() error: %v", err)
	}

	log := logRepo.logs[1]
	if log.DeliveryStatus != models.DeliveryStatusSent {
		t.Errorf("DeliveryStatus = %q, want SENT", log.DeliveryStatus)
	}
	if log.VendorResponse == nil || log.VendorResponse.MessageID != "vendor-msg-1" {
		t.Errorf("VendorResponse = %+v, want vendor receipt", log.VendorResponse)
	}
}

func TestProcessorMarksFailedOnVendorError(t *testing.T) {
	logRepo, customerRepo := pendingFixture()
	vendor := &stubVendor{fail: true}
	processor := newTestProcessor(logRepo, customerRepo, vendor)

	err := processor.Process(context.Background(), &models.DeliveryJob{CommunicationLogID: 1})
	if err != nil {
		t.Fatalf("Process() error: %v (a vendor failure is recorded, not propagated)", err)
	}

	log := logRepo.logs[1]
	if log.DeliveryStatus != models.DeliveryStatusFailed {
		t.Errorf("DeliveryStatus = %q, want FAILED", log.DeliveryStatus)
	}
	if log.VendorResponse == nil || log.VendorResponse.ErrorMessage == "" {
		t.Errorf("VendorResponse = %+v, want vendor error recorded", log.VendorResponse)
	}
	if log.VendorResponse != nil && log.VendorResponse.Timestamp == nil {
		t.Error("VendorResponse.Timestamp is nil, want failure time")
	}
}

// A redelivered job for an already-finalized log must be dropped without
// another vendor call.
func TestProcessorSkipsTerminalLog(t *testing.T) {
	logRepo, customerRepo := pendingFixture()
	logRepo.logs[1].DeliveryStatus = models.DeliveryStatusSent

	vendor := &stubVendor{}
	processor := newTestProcessor(logRepo, customerRepo, vendor)

	err := processor.Process(context.Background(), &models.DeliveryJob{CommunicationLogID: 1})
	if err != nil {
		t.Fatalf("Process() error: %v", err)
	}
	if len(vendor.recipients) != 0 {
		t.Errorf("vendor called %d times for a finalized log, want 0", len(vendor.recipients))
	}
}

func TestProcessorPrefersPhoneOverEmail(t *testing.T) {
	logRepo, customerRepo := pendingFixture()
	vendor := &stubVendor{}
	processor := newTestProcessor(logRepo, customerRepo, vendor)

	if err := processor.Process(context.Background(), &models.DeliveryJob{CommunicationLogID: 1}); err != nil {
		t.Fatalf("Process() error: %v", err)
	}
	if len(vendor.recipients) != 1 || vendor.recipients[0] != "+254712345001" {
		t.Errorf("recipients = %v, want the phone number", vendor.recipients)
	}
}

func TestProcessorFallsBackToEmail(t *testing.T) {
	logRepo, customerRepo := pendingFixture()
	customerRepo.customers[10].Phone = ""

	vendor := &stubVendor{}
	processor := newTestProcessor(logRepo, customerRepo, vendor)

	if err := processor.Process(context.Background(), &models.DeliveryJob{CommunicationLogID: 1}); err != nil {
		t.Fatalf("Process() error: %v", err)
	}
	if len(vendor.recipients) != 1 || vendor.recipients[0] != "alice@example.com" {
		t.Errorf("recipients = %v, want the email address", vendor.recipients)
	}
}

func TestProcessorUnknownLog(t *testing.T) {
	logRepo, customerRepo := pendingFixture()
	processor := newTestProcessor(logRepo, customerRepo, &stubVendor{})

	err := processor.Process(context.Background(), &models.DeliveryJob{CommunicationLogID: 99})
	if !errors.Is(err, models.ErrNotFound) {
		t.Errorf("Process() error = %v, want ErrNotFound", err)
	}
}
