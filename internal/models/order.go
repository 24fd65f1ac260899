package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderItem struct {
	ProductID int             `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
}

// Order represents a placed order together with its line items.
type Order struct {
	ID         int             `json:"id"`
	TenantID   string          `json:"tenant_id"`
	Number     string          `json:"number"`
	CustomerID int             `json:"customer_id"`
	TotalPrice decimal.Decimal `json:"total_price"`
	Status     OrderStatus     `json:"status"`
	Items      []OrderItem     `json:"items"`
	CreatedAt  time.Time       `json:"created_at"`
}
