package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rogerio-castellano/storefront-analytics/internal/analytics"
	"github.com/rogerio-castellano/storefront-analytics/internal/models"
	"github.com/rogerio-castellano/storefront-analytics/internal/resolve"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
)

type BreakerSettings struct {
	MaxRequests  uint32        `mapstructure:"max_requests"`
	Interval     time.Duration `mapstructure:"interval"`
	Timeout      time.Duration `mapstructure:"timeout"`
	MinRequests  uint32        `mapstructure:"min_requests"`
	FailureRatio float64       `mapstructure:"failure_ratio"`
}

func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{
		MaxRequests:  3,
		Interval:     time.Minute,
		Timeout:      30 * time.Second,
		MinRequests:  3,
		FailureRatio: 0.6,
	}
}

// BreakerSource guards every sub-query of a Source with its own circuit
// breaker. While a breaker is open the call fails immediately and the
// orchestrator falls back to synthetic data.
type BreakerSource struct {
	next     analytics.Source
	breakers map[string]*gobreaker.CircuitBreaker
}

func NewBreakerSource(next analytics.Source, s BreakerSettings, log *zap.Logger) *BreakerSource {
	if log == nil {
		log = zap.NewNop()
	}
	b := &BreakerSource{next: next, breakers: make(map[string]*gobreaker.CircuitBreaker, len(analytics.SubQueries))}
	for _, name := range analytics.SubQueries {
		b.breakers[name] = gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "source." + name,
			MaxRequests: s.MaxRequests,
			Interval:    s.Interval,
			Timeout:     s.Timeout,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
				return counts.Requests >= s.MinRequests && failureRatio >= s.FailureRatio
			},
			IsSuccessful: func(err error) bool {
				return err == nil || errors.Is(err, resolve.ErrNoData) || errors.Is(err, ErrTenantRequired)
			},
			OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
				log.Warn("Circuit breaker state changed",
					zap.String("breaker", name),
					zap.String("from", from.String()),
					zap.String("to", to.String()),
				)
			},
		})
	}
	return b
}

// State reports the breaker state of one sub-query.
func (b *BreakerSource) State(subQuery string) gobreaker.State {
	if cb, ok := b.breakers[subQuery]; ok {
		return cb.State()
	}
	return gobreaker.StateClosed
}

func execute[T any](cb *gobreaker.CircuitBreaker, fn func() (T, error)) (T, error) {
	v, err := cb.Execute(func() (interface{}, error) {
		return fn()
	})
	if err != nil {
		var zero T
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return zero, fmt.Errorf("%s: %w: %w", cb.Name(), resolve.ErrSourceUnavailable, err)
		}
		return zero, err
	}
	t, _ := v.(T)
	return t, nil
}

func (b *BreakerSource) Metrics(ctx context.Context, q analytics.Query) (models.MetricSnapshot, error) {
	return execute(b.breakers[analytics.SubQueryMetrics], func() (models.MetricSnapshot, error) {
		return b.next.Metrics(ctx, q)
	})
}

func (b *BreakerSource) TopCustomers(ctx context.Context, q analytics.Query) ([]models.CustomerSummary, error) {
	return execute(b.breakers[analytics.SubQueryTopCustomers], func() ([]models.CustomerSummary, error) {
		return b.next.TopCustomers(ctx, q)
	})
}

func (b *BreakerSource) DailyTrends(ctx context.Context, q analytics.Query) ([]models.TrendPoint, error) {
	return execute(b.breakers[analytics.SubQueryTrends], func() ([]models.TrendPoint, error) {
		return b.next.DailyTrends(ctx, q)
	})
}

func (b *BreakerSource) MonthlyRevenue(ctx context.Context, q analytics.Query) ([]models.RevenueByPeriod, error) {
	return execute(b.breakers[analytics.SubQueryMonthlyRevenue], func() ([]models.RevenueByPeriod, error) {
		return b.next.MonthlyRevenue(ctx, q)
	})
}

func (b *BreakerSource) StatusDistribution(ctx context.Context, q analytics.Query) (models.StatusDistribution, error) {
	return execute(b.breakers[analytics.SubQueryStatusDistribution], func() (models.StatusDistribution, error) {
		return b.next.StatusDistribution(ctx, q)
	})
}

func (b *BreakerSource) TopProducts(ctx context.Context, q analytics.Query) ([]models.ProductPerformance, error) {
	return execute(b.breakers[analytics.SubQueryTopProducts], func() ([]models.ProductPerformance, error) {
		return b.next.TopProducts(ctx, q)
	})
}

func (b *BreakerSource) Acquisition(ctx context.Context, q analytics.Query) ([]models.CustomerAcquisitionPoint, error) {
	return execute(b.breakers[analytics.SubQueryAcquisition], func() ([]models.CustomerAcquisitionPoint, error) {
		return b.next.Acquisition(ctx, q)
	})
}

func (b *BreakerSource) RecentOrders(ctx context.Context, q analytics.Query) ([]models.RecentOrder, error) {
	return execute(b.breakers[analytics.SubQueryRecentOrders], func() ([]models.RecentOrder, error) {
		return b.next.RecentOrders(ctx, q)
	})
}
