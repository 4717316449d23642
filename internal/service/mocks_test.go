package service

import (
	"context"
	"time"

	"github.com/yuvinraja/crm-backend/internal/models"
	"github.com/yuvinraja/crm-backend/internal/queue"
)

// pageOf slices items the way the real repositories page their queries.
func pageOf[T any](items []T, page, pageSize int) []T {
	models.ClampPage(&page, &pageSize)
	start := models.PageOffset(page, pageSize)
	if start >= len(items) {
		return []T{}
	}
	end := start + pageSize
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func countSince[T any](items []T, createdAt func(T) time.Time, since time.Time) int64 {
	var n int64
	for _, item := range items {
		if since.IsZero() || !createdAt(item).Before(since) {
			n++
		}
	}
	return n
}

// mockCustomerRepository backs customer reads with an in-memory slice.
type mockCustomerRepository struct {
	customers []*models.CustomerWithOrders
	listErr   error
}

func (m *mockCustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	customer.ID = int64(len(m.customers) + 1)
	m.customers = append(m.customers, &models.CustomerWithOrders{Customer: *customer})
	return nil
}

func (m *mockCustomerRepository) GetByID(ctx context.Context, id int64) (*models.Customer, error) {
	for _, c := range m.customers {
		if c.ID == id {
			customer := c.Customer
			return &customer, nil
		}
	}
	return nil, models.ErrNotFoundWithMsg("customer not found")
}

func (m *mockCustomerRepository) GetByEmail(ctx context.Context, email string) (*models.Customer, error) {
	for _, c := range m.customers {
		if c.Email == email {
			customer := c.Customer
			return &customer, nil
		}
	}
	return nil, models.ErrNotFoundWithMsg("customer not found")
}

func (m *mockCustomerRepository) List(ctx context.Context, filter models.CustomerFilter) ([]*models.Customer, int64, error) {
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	customers := make([]*models.Customer, 0, len(m.customers))
	for _, c := range m.customers {
		customer := c.Customer
		customers = append(customers, &customer)
	}
	return pageOf(customers, filter.Page, filter.PageSize), int64(len(customers)), nil
}

func (m *mockCustomerRepository) Count(ctx context.Context, since time.Time) (int64, error) {
	if m.listErr != nil {
		return 0, m.listErr
	}
	return countSince(m.customers, func(c *models.CustomerWithOrders) time.Time { return c.CreatedAt }, since), nil
}

func (m *mockCustomerRepository) ListWithOrderCounts(ctx context.Context) ([]*models.CustomerWithOrders, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.customers, nil
}

func (m *mockCustomerRepository) Update(ctx context.Context, customer *models.Customer) error {
	for _, c := range m.customers {
		if c.ID == customer.ID {
			c.Customer = *customer
			return nil
		}
	}
	return models.ErrNotFoundWithMsg("customer not found")
}

func (m *mockCustomerRepository) Delete(ctx context.Context, id int64) error {
	for i, c := range m.customers {
		if c.ID == id {
			m.customers = append(m.customers[:i], m.customers[i+1:]...)
			return nil
		}
	}
	return models.ErrNotFoundWithMsg("customer not found")
}

// mockSegmentRepository backs segment reads with an in-memory slice.
type mockSegmentRepository struct {
	segments []*models.Segment
	listErr  error
}

func (m *mockSegmentRepository) Create(ctx context.Context, seg *models.Segment) error {
	seg.ID = int64(len(m.segments) + 1)
	m.segments = append(m.segments, seg)
	return nil
}

func (m *mockSegmentRepository) GetByID(ctx context.Context, id int64) (*models.Segment, error) {
	for _, s := range m.segments {
		if s.ID == id {
			return s, nil
		}
	}
	return nil, models.ErrNotFoundWithMsg("segment not found")
}

func (m *mockSegmentRepository) List(ctx context.Context, filter models.SegmentFilter) ([]*models.Segment, int64, error) {
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	return pageOf(m.segments, filter.Page, filter.PageSize), int64(len(m.segments)), nil
}

func (m *mockSegmentRepository) Count(ctx context.Context, since time.Time) (int64, error) {
	if m.listErr != nil {
		return 0, m.listErr
	}
	return countSince(m.segments, func(s *models.Segment) time.Time { return s.CreatedAt }, since), nil
}

func (m *mockSegmentRepository) UpdateAudienceSize(ctx context.Context, id int64, size int64) error {
	seg, err := m.GetByID(ctx, id)
	if err != nil {
		return err
	}
	seg.AudienceSize = &size
	return nil
}

func (m *mockSegmentRepository) Delete(ctx context.Context, id int64) error {
	for i, s := range m.segments {
		if s.ID == id {
			m.segments = append(m.segments[:i], m.segments[i+1:]...)
			return nil
		}
	}
	return models.ErrNotFoundWithMsg("segment not found")
}

// mockCampaignRepository backs campaign reads with an in-memory slice.
type mockCampaignRepository struct {
	campaigns []*models.Campaign
	listErr   error
}

func (m *mockCampaignRepository) Create(ctx context.Context, campaign *models.Campaign) error {
	campaign.ID = int64(len(m.campaigns) + 1)
	m.campaigns = append(m.campaigns, campaign)
	return nil
}

func (m *mockCampaignRepository) GetByID(ctx context.Context, id int64) (*models.Campaign, error) {
	for _, c := range m.campaigns {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, models.ErrNotFoundWithMsg("campaign not found")
}

func (m *mockCampaignRepository) List(ctx context.Context, filter models.CampaignFilter) ([]*models.Campaign, int64, error) {
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	return pageOf(m.campaigns, filter.Page, filter.PageSize), int64(len(m.campaigns)), nil
}

func (m *mockCampaignRepository) ListAll(ctx context.Context) ([]*models.Campaign, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.campaigns, nil
}

func (m *mockCampaignRepository) Count(ctx context.Context, since time.Time) (int64, error) {
	if m.listErr != nil {
		return 0, m.listErr
	}
	return countSince(m.campaigns, func(c *models.Campaign) time.Time { return c.CreatedAt }, since), nil
}

func (m *mockCampaignRepository) Delete(ctx context.Context, id int64) error {
	for i, c := range m.campaigns {
		if c.ID == id {
			m.campaigns = append(m.campaigns[:i], m.campaigns[i+1:]...)
			return nil
		}
	}
	return models.ErrNotFoundWithMsg("campaign not found")
}

// mockCommunicationLogRepository backs log reads with an in-memory slice.
type mockCommunicationLogRepository struct {
	logs     []*models.CommunicationLog
	batchErr error
	listErr  error
}

func (m *mockCommunicationLogRepository) CreateBatch(ctx context.Context, logs []*models.CommunicationLog) error {
	if m.batchErr != nil {
		return m.batchErr
	}
	for _, log := range logs {
		log.ID = int64(len(m.logs) + 1)
		m.logs = append(m.logs, log)
	}
	return nil
}

func (m *mockCommunicationLogRepository) GetByID(ctx context.Context, id int64) (*models.CommunicationLog, error) {
	for _, log := range m.logs {
		if log.ID == id {
			return log, nil
		}
	}
	return nil, models.ErrNotFoundWithMsg("communication log not found")
}

func (m *mockCommunicationLogRepository) List(ctx context.Context, filter models.CommunicationLogFilter) ([]*models.CommunicationLog, int64, error) {
	if m.listErr != nil {
		return nil, 0, m.listErr
	}
	filtered := []*models.CommunicationLog{}
	for _, log := range m.logs {
		if filter.CampaignID != 0 && log.CampaignID != filter.CampaignID {
			continue
		}
		if filter.CustomerID != 0 && log.CustomerID != filter.CustomerID {
			continue
		}
		if filter.Status != "" && log.DeliveryStatus != filter.Status {
			continue
		}
		filtered = append(filtered, log)
	}
	return filtered, int64(len(filtered)), nil
}

func (m *mockCommunicationLogRepository) ListByCampaign(ctx context.Context, campaignID int64) ([]*models.CommunicationLog, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	logs := []*models.CommunicationLog{}
	for _, log := range m.logs {
		if log.CampaignID == campaignID {
			logs = append(logs, log)
		}
	}
	return logs, nil
}

func (m *mockCommunicationLogRepository) ListAll(ctx context.Context) ([]*models.CommunicationLog, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.logs, nil
}

func (m *mockCommunicationLogRepository) MarkSent(ctx context.Context, id int64, vendor *models.VendorResponse) error {
	log, err := m.GetByID(ctx, id)
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

func (m *mockCommunicationLogRepository) MarkFailed(ctx context.Context, id int64, vendor *models.VendorResponse) error {
	log, err := m.GetByID(ctx, id)
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

// mockQueue records published jobs instead of touching Redis.
type mockQueue struct {
	published  []*models.DeliveryJob
	publishErr error
}

func (m *mockQueue) Publish(ctx context.Context, job *models.DeliveryJob) error {
	if m.publishErr != nil {
		return m.publishErr
	}
	m.published = append(m.published, job)
	return nil
}

func (m *mockQueue) Consume(ctx context.Context, handler queue.JobHandler, concurrency int) error {
	return nil
}

func (m *mockQueue) Length(ctx context.Context) (int64, error) {
	return int64(len(m.published)), nil
}

func (m *mockQueue) Close() error { return nil }

func (m *mockQueue) Health(ctx context.Context) error { return nil }
