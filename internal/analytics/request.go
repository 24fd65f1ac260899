package analytics

import "fmt"

const MaxLimit = 50

// Limits caps the ranked sections of a snapshot. Zero means the
// orchestrator default.
type Limits struct {
	TopCustomers int `mapstructure:"top_customers"`
	TopProducts  int `mapstructure:"top_products"`
	RecentOrders int `mapstructure:"recent_orders"`
}

func DefaultLimits() Limits {
	return Limits{TopCustomers: 5, TopProducts: 10, RecentOrders: 10}
}

func (l Limits) withDefaults(def Limits) Limits {
	if l.TopCustomers == 0 {
		l.TopCustomers = def.TopCustomers
	}
	if l.TopProducts == 0 {
		l.TopProducts = def.TopProducts
	}
	if l.RecentOrders == 0 {
		l.RecentOrders = def.RecentOrders
	}
	return l
}

// Validate requires every limit to be within 1..MaxLimit.
func (l Limits) Validate() error {
	for name, v := range map[string]int{
		"top_customers": l.TopCustomers,
		"top_products":  l.TopProducts,
		"recent_orders": l.RecentOrders,
	} {
		if v < 1 || v > MaxLimit {
			return fmt.Errorf("%w: %s must be between 1 and %d, got %d", ErrInvalidRequest, name, MaxLimit, v)
		}
	}
	return nil
}

// Request asks for one dashboard snapshot.
type Request struct {
	Window Window
	Scope  Scope
	Limits Limits
}
