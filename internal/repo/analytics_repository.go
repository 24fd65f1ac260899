package repo

import (
	"errors"
	"math"
	"time"

	"github.com/rogerio-castellano/storefront-analytics/internal/analytics"
	"github.com/rogerio-castellano/storefront-analytics/internal/models"
)

var ErrTenantRequired = errors.New("tenant is required")

// EntityRepository lists the raw entities of one tenant.
type EntityRepository interface {
	Customers(tenantID string) ([]models.Customer, error)
	Orders(tenantID string) ([]models.Order, error)
	Products(tenantID string) ([]models.Product, error)
}

// EntityStore is an EntityRepository that also accepts new entities. Creating
// an order adds its total to the customer's lifetime figures.
type EntityStore interface {
	EntityRepository
	CreateCustomer(c models.Customer) (models.Customer, error)
	CreateProduct(p models.Product) (models.Product, error)
	CreateOrder(o models.Order) (models.Order, error)
}

var (
	_ EntityStore = (*InMemoryEntityRepository)(nil)
	_ EntityStore = (*PostgresEntityRepository)(nil)

	_ analytics.Source = (*InMemoryAnalyticsRepository)(nil)
	_ analytics.Source = (*PostgresAnalyticsRepository)(nil)
	_ analytics.Source = (*BreakerSource)(nil)
)

// windowBounds returns the half open time range [start, end) covered by w.
func windowBounds(w analytics.Window) (time.Time, time.Time) {
	return w.Start, w.End.AddDate(0, 0, 1)
}

func percent(part, whole int) float64 {
	if whole <= 0 {
		return 0
	}
	return math.Round(float64(part)/float64(whole)*1000) / 10
}

func checkScope(q analytics.Query) error {
	if q.Scope.TenantID == "" {
		return ErrTenantRequired
	}
	return nil
}
