package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/rogerio-castellano/storefront-analytics/internal/analytics"
	"github.com/rogerio-castellano/storefront-analytics/internal/models"
	"github.com/rogerio-castellano/storefront-analytics/internal/resolve"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flakySource struct {
	analytics.Unavailable
	err   error
	calls int
}

func (f *flakySource) Metrics(context.Context, analytics.Query) (models.MetricSnapshot, error) {
	f.calls++
	if f.err != nil {
		return models.MetricSnapshot{}, f.err
	}
	return models.MetricSnapshot{TotalOrders: 3}, nil
}

func TestBreakerSource_OpensAfterFailures(t *testing.T) {
	src := &flakySource{err: errors.New("connection reset")}
	b := NewBreakerSource(src, DefaultBreakerSettings(), nil)
	q := query(t, "acme", 7, 0)

	for range 3 {
		_, err := b.Metrics(context.Background(), q)
		require.Error(t, err)
	}
	assert.Equal(t, gobreaker.StateOpen, b.State(analytics.SubQueryMetrics))

	_, err := b.Metrics(context.Background(), q)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
	assert.ErrorIs(t, err, resolve.ErrSourceUnavailable)
	assert.Equal(t, 3, src.calls, "open breaker must not reach the source")

	assert.Equal(t, gobreaker.StateClosed, b.State(analytics.SubQueryTrends))
}

func TestBreakerSource_NoDataDoesNotTrip(t *testing.T) {
	src := &flakySource{err: resolve.ErrNoData}
	b := NewBreakerSource(src, DefaultBreakerSettings(), nil)
	q := query(t, "acme", 7, 0)

	for range 5 {
		_, err := b.Metrics(context.Background(), q)
		assert.ErrorIs(t, err, resolve.ErrNoData)
	}
	assert.Equal(t, gobreaker.StateClosed, b.State(analytics.SubQueryMetrics))
	assert.Equal(t, 5, src.calls)
}

func TestBreakerSource_PassesValues(t *testing.T) {
	b := NewBreakerSource(&flakySource{}, DefaultBreakerSettings(), nil)

	m, err := b.Metrics(context.Background(), query(t, "acme", 7, 0))
	require.NoError(t, err)
	assert.Equal(t, 3, m.TotalOrders)

	_, err = b.TopProducts(context.Background(), query(t, "acme", 7, 5))
	assert.ErrorIs(t, err, resolve.ErrSourceUnavailable)
}
