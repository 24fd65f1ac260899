package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Weekday is a time.Weekday that marshals to its three letter name.
type Weekday time.Weekday

func (w Weekday) String() string {
	return time.Weekday(w).String()[:3]
}

func (w Weekday) MarshalText() ([]byte, error) {
	return []byte(w.String()), nil
}

func (w *Weekday) UnmarshalText(b []byte) error {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if d.String()[:3] == string(b) {
			*w = Weekday(d)
			return nil
		}
	}
	return &time.ParseError{Layout: "Mon", Value: string(b), Message: ": unknown weekday"}
}

type MetricSnapshot struct {
	TotalCustomers     int             `json:"total_customers"`
	TotalOrders        int             `json:"total_orders"`
	TotalRevenue       decimal.Decimal `json:"total_revenue"`
	AverageOrderValue  decimal.Decimal `json:"average_order_value"`
	ConversionRate     float64         `json:"conversion_rate"`
	RepeatCustomerRate float64         `json:"repeat_customer_rate"`
}

type TrendPoint struct {
	Date       time.Time       `json:"date"`
	OrderCount int             `json:"order_count"`
	Revenue    decimal.Decimal `json:"revenue"`
	DayOfWeek  Weekday         `json:"day_of_week"`
}

type RevenueByPeriod struct {
	PeriodLabel string          `json:"period"`
	Revenue     decimal.Decimal `json:"revenue"`
	OrderCount  int             `json:"order_count"`
}

// StatusDistribution counts orders per status.
type StatusDistribution map[OrderStatus]int

func (d StatusDistribution) Total() int {
	total := 0
	for _, n := range d {
		total += n
	}
	return total
}

type CustomerAcquisitionPoint struct {
	Date               time.Time `json:"date"`
	NewCustomers       int       `json:"new_customers"`
	ReturningCustomers int       `json:"returning_customers"`
	TotalCustomers     int       `json:"total_customers"`
	ConversionRate     float64   `json:"conversion_rate"`
}

type ProductPerformance struct {
	ID        int             `json:"id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	UnitsSold int             `json:"units_sold"`
	Revenue   decimal.Decimal `json:"revenue"`
	Price     decimal.Decimal `json:"price"`
	InStock   bool            `json:"in_stock"`
	Rating    float64         `json:"rating,omitempty"`
}

// CustomerSummary is a ranked customer. Tier is derived from TotalSpent when
// the snapshot is assembled and is never read from a source.
type CustomerSummary struct {
	ID            int             `json:"id"`
	Name          string          `json:"name"`
	Email         string          `json:"email"`
	TotalSpent    decimal.Decimal `json:"total_spent"`
	OrderCount    int             `json:"order_count"`
	LastOrderDate time.Time       `json:"last_order_date"`
	CustomerSince time.Time       `json:"customer_since,omitempty"`
	Tier          string          `json:"tier"`
}

type RecentOrder struct {
	ID       string          `json:"id"`
	Customer string          `json:"customer"`
	Product  string          `json:"product"`
	Amount   decimal.Decimal `json:"amount"`
	Status   OrderStatus     `json:"status"`
	PlacedAt time.Time       `json:"placed_at"`
}

// Outcome tells whether a snapshot section came from a live source or was
// synthesized.
type Outcome string

const (
	OutcomeLive     Outcome = "live"
	OutcomeFallback Outcome = "fallback"
)

type InvariantViolation struct {
	Check  string `json:"check"`
	Detail string `json:"detail"`
}

// DashboardSnapshot is the result of one aggregation call. It is not
// persisted.
type DashboardSnapshot struct {
	ID                 uuid.UUID                  `json:"id"`
	TenantID           string                     `json:"tenant_id"`
	WindowStart        time.Time                  `json:"window_start"`
	WindowEnd          time.Time                  `json:"window_end"`
	GeneratedAt        time.Time                  `json:"generated_at"`
	Metrics            MetricSnapshot             `json:"metrics"`
	Trends             []TrendPoint               `json:"trends"`
	MonthlyRevenue     []RevenueByPeriod          `json:"monthly_revenue"`
	StatusDistribution StatusDistribution         `json:"status_distribution"`
	TopCustomers       []CustomerSummary          `json:"top_customers"`
	TopProducts        []ProductPerformance       `json:"top_products"`
	Acquisition        []CustomerAcquisitionPoint `json:"acquisition"`
	RecentOrders       []RecentOrder              `json:"recent_orders"`
	Sources            map[string]Outcome         `json:"sources"`
	Violations         []InvariantViolation       `json:"violations,omitempty"`
}
