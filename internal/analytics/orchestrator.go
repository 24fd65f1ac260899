// Package analytics assembles dashboard snapshots from eight concurrent
// sub-queries, substituting synthetic data for any that fail.
package analytics

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rogerio-castellano/storefront-analytics/internal/models"
	"github.com/rogerio-castellano/storefront-analytics/internal/resolve"
	"github.com/rogerio-castellano/storefront-analytics/internal/segment"
	"github.com/rogerio-castellano/storefront-analytics/internal/synth"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type Config struct {
	Limits Limits
	Synth  synth.Config
}

func DefaultConfig() Config {
	return Config{Limits: DefaultLimits(), Synth: synth.DefaultConfig()}
}

type Orchestrator struct {
	source    Source
	resolver  *resolve.Resolver
	log       *zap.Logger
	tracer    trace.Tracer
	cfg       Config
	now       func() time.Time
	newRandom func() synth.Source
}

type Option func(*Orchestrator)

func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// WithRandom replaces the per snapshot random source factory.
func WithRandom(newRandom func() synth.Source) Option {
	return func(o *Orchestrator) { o.newRandom = newRandom }
}

func WithTracer(t trace.Tracer) Option {
	return func(o *Orchestrator) { o.tracer = t }
}

func NewOrchestrator(source Source, resolver *resolve.Resolver, log *zap.Logger, cfg Config, opts ...Option) *Orchestrator {
	if source == nil {
		source = Unavailable{}
	}
	if log == nil {
		log = zap.NewNop()
	}
	if resolver == nil {
		resolver = resolve.NewResolver(resolve.Discard, log)
	}
	o := &Orchestrator{
		source:    source,
		resolver:  resolver,
		log:       log,
		tracer:    otel.Tracer("github.com/rogerio-castellano/storefront-analytics/internal/analytics"),
		cfg:       cfg,
		now:       time.Now,
		newRandom: synth.NewSource,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// slots holds one result per sub-query. Each goroutine writes only its
// own fields.
type slots struct {
	metrics      models.MetricSnapshot
	topCustomers []models.CustomerSummary
	trends       []models.TrendPoint
	monthly      []models.RevenueByPeriod
	statuses     models.StatusDistribution
	topProducts  []models.ProductPerformance
	acquisition  []models.CustomerAcquisitionPoint
	recentOrders []models.RecentOrder
	outcomes     [8]models.Outcome
}

// BuildSnapshot runs every sub-query concurrently and assembles the results.
// It fails only for an invalid request or when ctx ends first; sub-queries
// already started run to completion and their results are discarded.
func (o *Orchestrator) BuildSnapshot(ctx context.Context, req Request) (*models.DashboardSnapshot, error) {
	if err := req.Window.Validate(); err != nil {
		return nil, err
	}
	req.Limits = req.Limits.withDefaults(o.cfg.Limits)
	if err := req.Limits.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	id := uuid.New()
	ctx, span := o.tracer.Start(ctx, "analytics.BuildSnapshot", trace.WithAttributes(
		attribute.String("snapshot.id", id.String()),
		attribute.String("tenant.id", req.Scope.TenantID),
		attribute.Int("window.days", req.Window.Days),
	))
	defer span.End()

	gen := synth.New(o.newRandom(), synth.WithClock(o.now), synth.WithConfig(o.cfg.Synth))
	work := resolve.WithEventScope(context.WithoutCancel(ctx), resolve.EventScope{
		SnapshotID: id.String(),
		TenantID:   req.Scope.TenantID,
	})

	s := &slots{}
	done := make(chan struct{})
	go func() {
		defer close(done)
		o.dispatch(work, req, gen, s)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		span.SetStatus(codes.Error, "caller abandoned snapshot")
		o.log.Info("snapshot abandoned by caller", zap.String("snapshot_id", id.String()), zap.Error(ctx.Err()))
		return nil, ctx.Err()
	}

	snap := o.assemble(id, req, s)
	if len(snap.Violations) > 0 {
		span.SetAttributes(attribute.Int("snapshot.violations", len(snap.Violations)))
	}
	return snap, nil
}

// dispatch starts all eight sub-queries before waiting on any of them.
func (o *Orchestrator) dispatch(ctx context.Context, req Request, gen *synth.Generator, s *slots) {
	w := req.Window
	base := Query{Window: w, Scope: req.Scope}
	ranked := func(limit int) Query {
		q := base
		q.Limit = limit
		return q
	}

	var wg sync.WaitGroup
	run := func(fn func()) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fn()
		}()
	}

	run(func() {
		s.metrics, s.outcomes[0] = resolve.Resolve(ctx, o.resolver, SubQueryMetrics,
			traced(o.tracer, SubQueryMetrics, func(ctx context.Context) (models.MetricSnapshot, error) {
				return o.source.Metrics(ctx, base)
			}), gen.Metrics)
	})
	run(func() {
		q := ranked(req.Limits.TopCustomers)
		s.topCustomers, s.outcomes[1] = resolve.Resolve(ctx, o.resolver, SubQueryTopCustomers,
			traced(o.tracer, SubQueryTopCustomers, func(ctx context.Context) ([]models.CustomerSummary, error) {
				return o.source.TopCustomers(ctx, q)
			}), func() []models.CustomerSummary {
				return gen.TopCustomers(synth.DefaultCustomers, q.Limit)
			})
	})
	run(func() {
		s.trends, s.outcomes[2] = resolve.Resolve(ctx, o.resolver, SubQueryTrends,
			traced(o.tracer, SubQueryTrends, func(ctx context.Context) ([]models.TrendPoint, error) {
				return o.source.DailyTrends(ctx, base)
			}), func() []models.TrendPoint {
				points, _ := gen.DailyTrendUntil(w.End, w.Days)
				return points
			})
	})
	run(func() {
		s.monthly, s.outcomes[3] = resolve.Resolve(ctx, o.resolver, SubQueryMonthlyRevenue,
			traced(o.tracer, SubQueryMonthlyRevenue, func(ctx context.Context) ([]models.RevenueByPeriod, error) {
				return o.source.MonthlyRevenue(ctx, base)
			}), func() []models.RevenueByPeriod {
				return gen.MonthlySeries(w.MonthLabels(), synth.DefaultMonthlyRevenue, synth.DefaultMonthlyOrders)
			})
	})
	run(func() {
		s.statuses, s.outcomes[4] = resolve.Resolve(ctx, o.resolver, SubQueryStatusDistribution,
			traced(o.tracer, SubQueryStatusDistribution, func(ctx context.Context) (models.StatusDistribution, error) {
				return o.source.StatusDistribution(ctx, base)
			}), gen.StatusDistribution)
	})
	run(func() {
		q := ranked(req.Limits.TopProducts)
		s.topProducts, s.outcomes[5] = resolve.Resolve(ctx, o.resolver, SubQueryTopProducts,
			traced(o.tracer, SubQueryTopProducts, func(ctx context.Context) ([]models.ProductPerformance, error) {
				return o.source.TopProducts(ctx, q)
			}), func() []models.ProductPerformance {
				return gen.TopProducts(synth.DefaultCatalog, q.Limit)
			})
	})
	run(func() {
		s.acquisition, s.outcomes[6] = resolve.Resolve(ctx, o.resolver, SubQueryAcquisition,
			traced(o.tracer, SubQueryAcquisition, func(ctx context.Context) ([]models.CustomerAcquisitionPoint, error) {
				return o.source.Acquisition(ctx, base)
			}), func() []models.CustomerAcquisitionPoint {
				points, _ := gen.AcquisitionUntil(w.End, w.Days)
				return points
			})
	})
	run(func() {
		q := ranked(req.Limits.RecentOrders)
		s.recentOrders, s.outcomes[7] = resolve.Resolve(ctx, o.resolver, SubQueryRecentOrders,
			traced(o.tracer, SubQueryRecentOrders, func(ctx context.Context) ([]models.RecentOrder, error) {
				return o.source.RecentOrders(ctx, q)
			}), func() []models.RecentOrder {
				return gen.RecentOrders(synth.CustomerNames(synth.DefaultCustomers), synth.ProductNames(synth.DefaultCatalog), q.Limit)
			})
	})

	wg.Wait()
}

// traced runs fetch inside a child span named after the sub-query.
func traced[T any](tracer trace.Tracer, name string, fetch func(context.Context) (T, error)) func(context.Context) (T, error) {
	return func(ctx context.Context) (T, error) {
		ctx, span := tracer.Start(ctx, "analytics.source."+name)
		defer span.End()

		v, err := fetch(ctx)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		return v, err
	}
}

func (o *Orchestrator) assemble(id uuid.UUID, req Request, s *slots) *models.DashboardSnapshot {
	snap := &models.DashboardSnapshot{
		ID:           id,
		TenantID:     req.Scope.TenantID,
		WindowStart:  req.Window.Start,
		WindowEnd:    req.Window.End,
		GeneratedAt:  o.now().UTC(),
		Metrics:      s.metrics,
		Sources:      make(map[string]models.Outcome, len(SubQueries)),
		TopCustomers: rankCustomers(s.topCustomers, req.Limits.TopCustomers),
		TopProducts:  rankProducts(s.topProducts, req.Limits.TopProducts),
		RecentOrders: latestOrders(s.recentOrders, req.Limits.RecentOrders),
	}
	for i, name := range SubQueries {
		snap.Sources[name] = s.outcomes[i]
	}

	c := &checker{}
	snap.Trends = c.densifyTrends(req.Window, s.trends)
	snap.Acquisition = c.densifyAcquisition(req.Window, s.acquisition)
	snap.MonthlyRevenue = c.alignMonths(req.Window, s.monthly)
	snap.StatusDistribution = c.checkStatuses(s.statuses)
	c.checkMetrics(&snap.Metrics)

	if total := snap.StatusDistribution.Total(); total != snap.Metrics.TotalOrders {
		c.report("status_total", "status distribution sums to %d, metrics report %d orders", total, snap.Metrics.TotalOrders)
	}

	snap.Violations = c.violations
	for _, v := range c.violations {
		o.log.Warn("snapshot post-condition violated",
			zap.String("snapshot_id", id.String()),
			zap.String("tenant_id", req.Scope.TenantID),
			zap.String("check", v.Check),
			zap.String("detail", v.Detail),
		)
	}
	return snap
}

// rankCustomers attaches tiers, orders by total spent and truncates.
func rankCustomers(in []models.CustomerSummary, limit int) []models.CustomerSummary {
	out := slices.Clone(in)
	for i := range out {
		out[i].Tier = string(segment.CustomerTier(out[i].TotalSpent))
	}
	slices.SortStableFunc(out, func(a, b models.CustomerSummary) int {
		return b.TotalSpent.Cmp(a.TotalSpent)
	})
	return truncate(out, limit)
}

func rankProducts(in []models.ProductPerformance, limit int) []models.ProductPerformance {
	out := slices.Clone(in)
	slices.SortStableFunc(out, func(a, b models.ProductPerformance) int {
		return b.UnitsSold - a.UnitsSold
	})
	return truncate(out, limit)
}

func latestOrders(in []models.RecentOrder, limit int) []models.RecentOrder {
	out := slices.Clone(in)
	slices.SortStableFunc(out, func(a, b models.RecentOrder) int {
		return b.PlacedAt.Compare(a.PlacedAt)
	})
	return truncate(out, limit)
}

func truncate[S ~[]E, E any](s S, limit int) S {
	if len(s) > limit {
		return s[:limit]
	}
	return s
}
