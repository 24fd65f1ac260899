package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer represents a store customer as returned by the entity services.
type Customer struct {
	ID          int             `json:"id"`
	TenantID    string          `json:"tenant_id"`
	FirstName   string          `json:"first_name"`
	LastName    string          `json:"last_name"`
	Email       string          `json:"email"`
	TotalSpent  decimal.Decimal `json:"total_spent"`
	OrdersCount int             `json:"orders_count"`
	CreatedAt   time.Time       `json:"created_at"`
}

func (c Customer) FullName() string {
	switch {
	case c.FirstName == "":
		return c.LastName
	case c.LastName == "":
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}
