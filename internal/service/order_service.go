package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/yuvinraja/crm-backend/internal/models"
	"github.com/yuvinraja/crm-backend/internal/repository"
)

// OrderService handles order business logic
type OrderService interface {
	Create(ctx context.Context, req *CreateOrderRequest) (*models.Order, error)
	GetByID(ctx context.Context, id int64) (*models.Order, error)
	List(ctx context.Context, filter models.OrderFilter) (*OrderListResult, error)
}

type orderService struct {
	orderRepo    repository.OrderRepository
	customerRepo repository.CustomerRepository
	logger       *slog.Logger
}

// NewOrderService creates a new order service
func NewOrderService(
	orderRepo repository.OrderRepository,
	customerRepo repository.CustomerRepository,
	logger *slog.Logger,
) OrderService {
	return &orderService{
		orderRepo:    orderRepo,
		customerRepo: customerRepo,
		logger:       logger,
	}
}

// Create records an order for an existing customer. The repository advances
// the customer's spending and last visit in the same transaction.
func (s *orderService) Create(ctx context.Context, req *CreateOrderRequest) (*models.Order, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.customerRepo.GetByID(ctx, req.CustomerID); err != nil {
		return nil, err
	}

	orderDate := time.Now()
	if req.OrderDate != nil {
		orderDate = *req.OrderDate
	}

	order := &models.Order{
		CustomerID:  req.CustomerID,
		OrderAmount: req.OrderAmount,
		OrderDate:   orderDate,
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		s.logger.Error("failed to create order",
			slog.String("error", err.Error()),
			slog.Int64("customer_id", req.CustomerID),
		)
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.logger.Info("order created",
		slog.Int64("order_id", order.ID),
		slog.Int64("customer_id", order.CustomerID),
		slog.Float64("amount", order.OrderAmount),
	)

	return order, nil
}

// GetByID retrieves an order by ID
func (s *orderService) GetByID(ctx context.Context, id int64) (*models.Order, error) {
	return s.orderRepo.GetByID(ctx, id)
}

// List retrieves orders with pagination and optional customer filter
func (s *orderService) List(ctx context.Context, filter models.OrderFilter) (*OrderListResult, error) {
	orders, totalCount, err := s.orderRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	models.ClampPage(&filter.Page, &filter.PageSize)
	pagination := models.NewPagination(filter.Page, filter.PageSize, totalCount)

	return &OrderListResult{
		Data:       orders,
		Pagination: pagination,
	}, nil
}
