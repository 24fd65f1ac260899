package telemetry

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rogerio-castellano/storefront-analytics/internal/resolve"
)

// Metrics holds the service collectors. Build it once per registry.
type Metrics struct {
	Resolutions        *prometheus.CounterVec
	ResolutionDuration *prometheus.HistogramVec
	HTTPRequests       *prometheus.CounterVec
	HTTPDuration       *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Resolutions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "analytics_subquery_resolutions_total",
			Help: "Sub-query resolutions by outcome",
		}, []string{"sub_query", "outcome"}),

		ResolutionDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "analytics_subquery_duration_seconds",
			Help:    "Time spent on the live fetch of a sub-query",
			Buckets: prometheus.DefBuckets,
		}, []string{"sub_query"}),

		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "analytics_http_requests_total",
			Help: "HTTP requests by route and status",
		}, []string{"method", "route", "status"}),

		HTTPDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "analytics_http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
}

// Record implements resolve.Sink.
func (m *Metrics) Record(_ context.Context, e resolve.Event) {
	m.Resolutions.WithLabelValues(e.SubQuery, string(e.Outcome)).Inc()
	m.ResolutionDuration.WithLabelValues(e.SubQuery).Observe(e.Duration.Seconds())
}
