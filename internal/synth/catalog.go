package synth

import (
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/rogerio-castellano/storefront-analytics/internal/models"
	"github.com/shopspring/decimal"
)

type CatalogItem struct {
	Name      string
	Category  string
	BasePrice float64
}

type CustomerProfile struct {
	Name  string
	Email string
}

var DefaultCatalog = []CatalogItem{
	{"AirPods Pro (3rd Gen)", "Electronics", 249},
	{"iPhone 15 Pro Max Case", "Accessories", 45},
	{"MacBook Pro M3 Stand", "Accessories", 89},
	{"Wireless Charging Pad", "Electronics", 35},
	{"Premium Coffee Beans 1kg", "Food & Beverage", 24},
	{"Organic Cotton T-Shirt", "Clothing", 28},
	{"Smart Fitness Tracker", "Electronics", 199},
	{"Bluetooth Mechanical Keyboard", "Electronics", 129},
	{"Premium Yoga Mat", "Fitness", 67},
	{"Stainless Steel Water Bottle", "Lifestyle", 32},
	{"LED Desk Lamp with USB", "Home & Office", 78},
	{"Wireless Gaming Mouse", "Gaming", 95},
}

var DefaultCustomers = []CustomerProfile{
	{"Alexandra Rodriguez", "alexandra.rodriguez@gmail.com"},
	{"Benjamin Thompson", "ben.thompson@outlook.com"},
	{"Catherine Wang", "catherine.wang@yahoo.com"},
	{"David Miller", "david.miller@protonmail.com"},
	{"Elena Petrov", "elena.petrov@gmail.com"},
	{"Francisco Garcia", "francisco.garcia@hotmail.com"},
	{"Grace Kim", "grace.kim@gmail.com"},
	{"Hassan Ahmed", "hassan.ahmed@outlook.com"},
	{"Isabella Santos", "isabella.santos@yahoo.com"},
	{"Jackson Moore", "jackson.moore@gmail.com"},
	{"Kimberly Lee", "kimberly.lee@gmail.com"},
	{"Lucas Anderson", "lucas.anderson@outlook.com"},
}

// FloatRange is a half open interval [Min, Max).
type FloatRange struct{ Min, Max float64 }

// IntRange is a half open interval [Min, Max).
type IntRange struct{ Min, Max int }

var (
	DefaultMonthlyRevenue = FloatRange{3000, 11000}
	DefaultMonthlyOrders  = IntRange{25, 175}
)

func (g *Generator) floatIn(r FloatRange) float64 {
	return g.uniform(r.Min, r.Max-r.Min)
}

func (g *Generator) intIn(r IntRange) int {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + g.src.IntN(r.Max-r.Min)
}

// MonthlySeries draws one revenue entry per label. Months are independent.
func (g *Generator) MonthlySeries(labels []string, revenue FloatRange, orders IntRange) []models.RevenueByPeriod {
	series := make([]models.RevenueByPeriod, 0, len(labels))
	for _, label := range labels {
		series = append(series, models.RevenueByPeriod{
			PeriodLabel: label,
			Revenue:     decimal.NewFromFloat(math.Floor(g.floatIn(revenue))),
			OrderCount:  g.intIn(orders),
		})
	}
	return series
}

// TopProducts draws sales for up to limit catalog items and ranks them by
// units sold. Ties keep catalog order.
func (g *Generator) TopProducts(catalog []CatalogItem, limit int) []models.ProductPerformance {
	n := min(max(limit, 0), len(catalog))
	products := make([]models.ProductPerformance, 0, n)

	for i, item := range catalog[:n] {
		units := g.intIn(IntRange{25, 325})
		price := round2(item.BasePrice * g.uniform(0.8, 0.4))
		products = append(products, models.ProductPerformance{
			ID:        i + 1,
			Name:      item.Name,
			Category:  item.Category,
			UnitsSold: units,
			Revenue:   price.Mul(decimal.NewFromInt(int64(units))).Round(2),
			Price:     price,
			Rating:    round1(g.uniform(4.0, 1.0)),
			InStock:   g.src.Float64() >= 0.1,
		})
	}

	slices.SortStableFunc(products, func(a, b models.ProductPerformance) int {
		return b.UnitsSold - a.UnitsSold
	})
	return products
}

// TopCustomers draws order history for up to limit customers of pool and
// ranks them by total spent. Ties keep pool order. Tier is left empty.
func (g *Generator) TopCustomers(pool []CustomerProfile, limit int) []models.CustomerSummary {
	n := min(max(limit, 0), len(pool))
	today := g.today()
	customers := make([]models.CustomerSummary, 0, n)

	for i, c := range pool[:n] {
		orders := g.intIn(IntRange{3, 29})
		aov := g.uniform(45, 120)
		customers = append(customers, models.CustomerSummary{
			ID:            i + 1,
			Name:          c.Name,
			Email:         c.Email,
			TotalSpent:    round2(float64(orders) * aov),
			OrderCount:    orders,
			LastOrderDate: daysBefore(today, g.uniform(0, 30)),
			CustomerSince: daysBefore(today, g.uniform(0, 365)),
		})
	}

	slices.SortStableFunc(customers, func(a, b models.CustomerSummary) int {
		return b.TotalSpent.Cmp(a.TotalSpent)
	})
	return customers
}

type weightedStatus struct {
	status models.OrderStatus
	weight float64
}

var recentOrderStatuses = []weightedStatus{
	{models.StatusDelivered, 0.60},
	{models.StatusShipped, 0.25},
	{models.StatusProcessing, 0.10},
	{models.StatusPending, 0.05},
}

func (g *Generator) pickStatus() models.OrderStatus {
	r := g.src.Float64()
	cumulative := 0.0
	for _, ws := range recentOrderStatuses {
		cumulative += ws.weight
		if r <= cumulative {
			return ws.status
		}
	}
	return models.StatusPending
}

// RecentOrders draws limit orders placed during the last seven days, most
// recent first.
func (g *Generator) RecentOrders(customers, products []string, limit int) []models.RecentOrder {
	if limit <= 0 || len(customers) == 0 || len(products) == 0 {
		return []models.RecentOrder{}
	}
	now := g.now().UTC()
	orders := make([]models.RecentOrder, 0, limit)

	for i := range limit {
		customer := customers[g.src.IntN(len(customers))]
		product := products[g.src.IntN(len(products))]
		status := g.pickStatus()
		placed := now.Add(-time.Duration(g.src.Float64() * float64(7*24*time.Hour))).Truncate(time.Minute)

		orders = append(orders, models.RecentOrder{
			ID:       fmt.Sprintf("ORD-%d", 1000+i),
			Customer: customer,
			Product:  product,
			Amount:   decimal.NewFromInt(int64(g.intIn(IntRange{25, 325}))),
			Status:   status,
			PlacedAt: placed,
		})
	}

	slices.SortStableFunc(orders, func(a, b models.RecentOrder) int {
		return b.PlacedAt.Compare(a.PlacedAt)
	})
	return orders
}

// StatusDistribution returns the fallback order status breakdown. Its total
// matches the fallback metrics.
func (g *Generator) StatusDistribution() models.StatusDistribution {
	return models.StatusDistribution{
		models.StatusDelivered:  450,
		models.StatusProcessing: 125,
		models.StatusShipped:    180,
		models.StatusPending:    65,
		models.StatusCancelled:  36,
	}
}

// Metrics returns the fallback headline metrics.
func (g *Generator) Metrics() models.MetricSnapshot {
	return models.MetricSnapshot{
		TotalCustomers:     1247,
		TotalOrders:        856,
		TotalRevenue:       decimal.RequireFromString("45280.50"),
		AverageOrderValue:  decimal.RequireFromString("52.88"),
		ConversionRate:     3.2,
		RepeatCustomerRate: 28.5,
	}
}

func CustomerNames(pool []CustomerProfile) []string {
	names := make([]string, len(pool))
	for i, c := range pool {
		names[i] = c.Name
	}
	return names
}

func ProductNames(catalog []CatalogItem) []string {
	names := make([]string, len(catalog))
	for i, p := range catalog {
		names[i] = p.Name
	}
	return names
}

func daysBefore(t time.Time, days float64) time.Time {
	return Day(t.Add(-time.Duration(days * float64(24*time.Hour))))
}
