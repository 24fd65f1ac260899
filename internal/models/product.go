package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a catalog product of a store.
type Product struct {
	ID                int             `json:"id"`
	TenantID          string          `json:"tenant_id"`
	Name              string          `json:"name"`
	Category          string          `json:"category"`
	Price             decimal.Decimal `json:"price"`
	Quantity          int             `json:"quantity"`
	LowStockThreshold int             `json:"low_stock_threshold"`
	CreatedAt         time.Time       `json:"created_at,omitempty"`
}
