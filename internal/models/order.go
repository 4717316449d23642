package models

import "time"

// Order represents a single purchase by a customer. Creating an order also
// advances the customer's total spending and last visit.
type Order struct {
	ID          int64     `json:"id"`
	CustomerID  int64     `json:"customer_id"`
	OrderAmount float64   `json:"order_amount"`
	OrderDate   time.Time `json:"order_date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// OrderFilter holds filtering options for listing orders
type OrderFilter struct {
	CustomerID int64
	Page       int
	PageSize   int
}

// Validate performs basic validation on order data
func (o *Order) Validate() error {
	if o.CustomerID <= 0 {
		return ErrInvalidInput("customer_id is required")
	}
	if o.OrderAmount <= 0 {
		return ErrInvalidInput("order_amount must be greater than zero")
	}
	return nil
}
