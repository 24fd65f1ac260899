package analytics

import (
	"context"

	"github.com/rogerio-castellano/storefront-analytics/internal/models"
	"github.com/rogerio-castellano/storefront-analytics/internal/resolve"
)

// Sub-query names, used as provenance keys and in resolution events.
const (
	SubQueryMetrics            = "metrics"
	SubQueryTopCustomers       = "top_customers"
	SubQueryTrends             = "trends"
	SubQueryMonthlyRevenue     = "monthly_revenue"
	SubQueryStatusDistribution = "status_distribution"
	SubQueryTopProducts        = "top_products"
	SubQueryAcquisition        = "acquisition"
	SubQueryRecentOrders       = "recent_orders"
)

var SubQueries = []string{
	SubQueryMetrics,
	SubQueryTopCustomers,
	SubQueryTrends,
	SubQueryMonthlyRevenue,
	SubQueryStatusDistribution,
	SubQueryTopProducts,
	SubQueryAcquisition,
	SubQueryRecentOrders,
}

// Scope identifies who a snapshot is built for. It is passed with every
// call and never stored.
type Scope struct {
	TenantID  string
	AuthToken string
}

// Query is what a Source receives for one sub-query. Limit is only set for
// ranked sub-queries.
type Query struct {
	Window Window
	Scope  Scope
	Limit  int
}

// Source provides live data for every sub-query of a dashboard snapshot.
// Implementations return an error or an empty value when they cannot
// answer; the orchestrator substitutes synthetic data in both cases.
type Source interface {
	Metrics(ctx context.Context, q Query) (models.MetricSnapshot, error)
	TopCustomers(ctx context.Context, q Query) ([]models.CustomerSummary, error)
	DailyTrends(ctx context.Context, q Query) ([]models.TrendPoint, error)
	MonthlyRevenue(ctx context.Context, q Query) ([]models.RevenueByPeriod, error)
	StatusDistribution(ctx context.Context, q Query) (models.StatusDistribution, error)
	TopProducts(ctx context.Context, q Query) ([]models.ProductPerformance, error)
	Acquisition(ctx context.Context, q Query) ([]models.CustomerAcquisitionPoint, error)
	RecentOrders(ctx context.Context, q Query) ([]models.RecentOrder, error)
}

// Unavailable is a Source that never answers. Every snapshot built on it is
// fully synthetic.
type Unavailable struct{}

func (Unavailable) Metrics(context.Context, Query) (models.MetricSnapshot, error) {
	return models.MetricSnapshot{}, resolve.ErrSourceUnavailable
}

func (Unavailable) TopCustomers(context.Context, Query) ([]models.CustomerSummary, error) {
	return nil, resolve.ErrSourceUnavailable
}

func (Unavailable) DailyTrends(context.Context, Query) ([]models.TrendPoint, error) {
	return nil, resolve.ErrSourceUnavailable
}

func (Unavailable) MonthlyRevenue(context.Context, Query) ([]models.RevenueByPeriod, error) {
	return nil, resolve.ErrSourceUnavailable
}

func (Unavailable) StatusDistribution(context.Context, Query) (models.StatusDistribution, error) {
	return nil, resolve.ErrSourceUnavailable
}

func (Unavailable) TopProducts(context.Context, Query) ([]models.ProductPerformance, error) {
	return nil, resolve.ErrSourceUnavailable
}

func (Unavailable) Acquisition(context.Context, Query) ([]models.CustomerAcquisitionPoint, error) {
	return nil, resolve.ErrSourceUnavailable
}

func (Unavailable) RecentOrders(context.Context, Query) ([]models.RecentOrder, error) {
	return nil, resolve.ErrSourceUnavailable
}
