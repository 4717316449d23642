package models

import (
	"strings"
	"time"
)

// Customer represents a customer in the CRM
type Customer struct {
	ID            int64      `json:"id"`
	Name          string     `json:"name"`
	Email         string     `json:"email"`
	Phone         string     `json:"phone,omitempty"`
	TotalSpending float64    `json:"total_spending"`
	LastVisit     *time.Time `json:"last_visit,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// CustomerWithOrders is a customer joined with its order count, the shape
// segment evaluation works over.
type CustomerWithOrders struct {
	Customer
	OrderCount int `json:"order_count"`
}

// CustomerFilter holds filtering options for listing customers
type CustomerFilter struct {
	Email    string
	Name     string
	Page     int
	PageSize int
}

// Validate performs basic validation on customer data
func (c *Customer) Validate() error {
	if c.Name == "" {
		return ErrInvalidInput("name is required")
	}
	if c.Email == "" {
		return ErrInvalidInput("email is required")
	}
	if !strings.Contains(c.Email, "@") {
		return ErrInvalidInput("email is not valid")
	}
	if c.TotalSpending < 0 {
		return ErrInvalidInput("total_spending cannot be negative")
	}
	return nil
}
