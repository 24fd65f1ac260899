package analytics

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rogerio-castellano/storefront-analytics/internal/models"
	"github.com/rogerio-castellano/storefront-analytics/internal/resolve"
	"github.com/rogerio-castellano/storefront-analytics/internal/segment"
	"github.com/rogerio-castellano/storefront-analytics/internal/synth"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// fakeSource answers from fixed data. Sub-queries listed in fail return an
// error and onCall, when set, runs before every answer.
type fakeSource struct {
	fail   map[string]bool
	onCall func(ctx context.Context, name string) error

	metrics      models.MetricSnapshot
	customers    []models.CustomerSummary
	trends       []models.TrendPoint
	monthly      []models.RevenueByPeriod
	statuses     models.StatusDistribution
	products     []models.ProductPerformance
	acquisition  []models.CustomerAcquisitionPoint
	recentOrders []models.RecentOrder

	mu      sync.Mutex
	queries map[string]Query
}

func (f *fakeSource) call(ctx context.Context, name string, q Query) error {
	f.mu.Lock()
	if f.queries == nil {
		f.queries = map[string]Query{}
	}
	f.queries[name] = q
	f.mu.Unlock()

	if f.onCall != nil {
		if err := f.onCall(ctx, name); err != nil {
			return err
		}
	}
	if f.fail[name] {
		return errors.New(name + ": connection refused")
	}
	return nil
}

func (f *fakeSource) Metrics(ctx context.Context, q Query) (models.MetricSnapshot, error) {
	return f.metrics, f.call(ctx, SubQueryMetrics, q)
}

func (f *fakeSource) TopCustomers(ctx context.Context, q Query) ([]models.CustomerSummary, error) {
	return f.customers, f.call(ctx, SubQueryTopCustomers, q)
}

func (f *fakeSource) DailyTrends(ctx context.Context, q Query) ([]models.TrendPoint, error) {
	return f.trends, f.call(ctx, SubQueryTrends, q)
}

func (f *fakeSource) MonthlyRevenue(ctx context.Context, q Query) ([]models.RevenueByPeriod, error) {
	return f.monthly, f.call(ctx, SubQueryMonthlyRevenue, q)
}

func (f *fakeSource) StatusDistribution(ctx context.Context, q Query) (models.StatusDistribution, error) {
	return f.statuses, f.call(ctx, SubQueryStatusDistribution, q)
}

func (f *fakeSource) TopProducts(ctx context.Context, q Query) ([]models.ProductPerformance, error) {
	return f.products, f.call(ctx, SubQueryTopProducts, q)
}

func (f *fakeSource) Acquisition(ctx context.Context, q Query) ([]models.CustomerAcquisitionPoint, error) {
	return f.acquisition, f.call(ctx, SubQueryAcquisition, q)
}

func (f *fakeSource) RecentOrders(ctx context.Context, q Query) ([]models.RecentOrder, error) {
	return f.recentOrders, f.call(ctx, SubQueryRecentOrders, q)
}

type eventLog struct {
	mu     sync.Mutex
	events []resolve.Event
}

func (l *eventLog) Record(_ context.Context, e resolve.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
}

func newTestOrchestrator(src Source, sink resolve.Sink) *Orchestrator {
	return NewOrchestrator(src, resolve.NewResolver(sink, nil), zap.NewNop(), DefaultConfig(),
		WithClock(func() time.Time { return now }),
		WithRandom(func() synth.Source { return synth.NewSeededSource(99) }),
	)
}

func request(t *testing.T, days int) Request {
	t.Helper()
	w, err := NewWindow(days, now)
	require.NoError(t, err)
	return Request{Window: w, Scope: Scope{TenantID: "acme"}}
}

func checks(snap *models.DashboardSnapshot) []string {
	var names []string
	for _, v := range snap.Violations {
		names = append(names, v.Check)
	}
	return names
}

func liveFixture(w Window) *fakeSource {
	f := &fakeSource{
		metrics: models.MetricSnapshot{
			TotalCustomers:    40,
			TotalOrders:       12,
			TotalRevenue:      decimal.RequireFromString("1200.00"),
			AverageOrderValue: decimal.RequireFromString("100.00"),
		},
		customers: []models.CustomerSummary{
			{ID: 1, Name: "Grace Kim", TotalSpent: decimal.NewFromInt(450)},
			{ID: 2, Name: "Hassan Ahmed", TotalSpent: decimal.NewFromInt(2100)},
			{ID: 3, Name: "Elena Petrov", TotalSpent: decimal.NewFromInt(1000)},
			{ID: 4, Name: "David Miller", TotalSpent: decimal.NewFromInt(1600)},
		},
		statuses: models.StatusDistribution{models.StatusDelivered: 9, models.StatusPending: 3},
		products: []models.ProductPerformance{
			{ID: 1, Name: "Premium Yoga Mat", UnitsSold: 3, Price: decimal.NewFromInt(67)},
			{ID: 2, Name: "Wireless Gaming Mouse", UnitsSold: 9, Price: decimal.NewFromInt(95)},
		},
		recentOrders: []models.RecentOrder{
			{ID: "1001", PlacedAt: now.Add(-48 * time.Hour), Status: models.StatusShipped},
			{ID: "1002", PlacedAt: now.Add(-time.Hour), Status: models.StatusPending},
		},
	}
	for _, d := range w.Dates() {
		f.trends = append(f.trends, models.TrendPoint{Date: d, OrderCount: 2, Revenue: decimal.NewFromInt(200)})
		f.acquisition = append(f.acquisition, models.CustomerAcquisitionPoint{Date: d, NewCustomers: 1, ReturningCustomers: 2, TotalCustomers: 3})
	}
	for _, label := range w.MonthLabels() {
		f.monthly = append(f.monthly, models.RevenueByPeriod{PeriodLabel: label, Revenue: decimal.NewFromInt(100), OrderCount: 1})
	}
	return f
}

func TestBuildSnapshot_AllSourcesDown(t *testing.T) {
	events := &eventLog{}
	o := newTestOrchestrator(Unavailable{}, events)
	req := request(t, 30)

	snap, err := o.BuildSnapshot(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "acme", snap.TenantID)
	assert.Len(t, snap.Trends, 30)
	assert.Len(t, snap.Acquisition, 30)
	assert.Len(t, snap.MonthlyRevenue, MonthsInSeries)
	assert.Equal(t, 856, snap.Metrics.TotalOrders)
	assert.Equal(t, 856, snap.StatusDistribution.Total())
	assert.Len(t, snap.TopCustomers, 5)
	assert.Len(t, snap.TopProducts, 10)
	assert.Len(t, snap.RecentOrders, 10)
	assert.Empty(t, snap.Violations)

	for _, name := range SubQueries {
		assert.Equal(t, models.OutcomeFallback, snap.Sources[name], name)
	}

	require.Len(t, events.events, len(SubQueries))
	for _, e := range events.events {
		assert.Equal(t, snap.ID.String(), e.SnapshotID)
		assert.Equal(t, "acme", e.TenantID)
		assert.Equal(t, models.OutcomeFallback, e.Outcome)
	}
}

func TestBuildSnapshot_TopCustomersRankedAndTiered(t *testing.T) {
	o := newTestOrchestrator(Unavailable{}, nil)
	req := request(t, 30)
	req.Limits.TopCustomers = 8

	snap, err := o.BuildSnapshot(context.Background(), req)
	require.NoError(t, err)

	require.LessOrEqual(t, len(snap.TopCustomers), 8)
	for i, c := range snap.TopCustomers {
		assert.Contains(t, segment.Tiers, segment.Tier(c.Tier))
		if i > 0 {
			assert.True(t, snap.TopCustomers[i-1].TotalSpent.GreaterThanOrEqual(c.TotalSpent))
		}
	}
}

func TestBuildSnapshot_Live(t *testing.T) {
	req := request(t, 14)
	req.Limits = Limits{TopCustomers: 3, TopProducts: 5, RecentOrders: 1}
	src := liveFixture(req.Window)
	o := newTestOrchestrator(src, nil)

	snap, err := o.BuildSnapshot(context.Background(), req)
	require.NoError(t, err)

	for _, name := range SubQueries {
		assert.Equal(t, models.OutcomeLive, snap.Sources[name], name)
	}
	assert.Empty(t, snap.Violations)

	require.Len(t, snap.TopCustomers, 3)
	assert.Equal(t, "Hassan Ahmed", snap.TopCustomers[0].Name)
	assert.Equal(t, string(segment.TierDiamond), snap.TopCustomers[0].Tier)
	assert.Equal(t, string(segment.TierPlatinum), snap.TopCustomers[1].Tier)
	assert.Equal(t, string(segment.TierSilver), snap.TopCustomers[2].Tier)

	require.Len(t, snap.TopProducts, 2)
	assert.Equal(t, "Wireless Gaming Mouse", snap.TopProducts[0].Name)

	require.Len(t, snap.RecentOrders, 1)
	assert.Equal(t, "1002", snap.RecentOrders[0].ID)

	assert.Equal(t, 3, src.queries[SubQueryTopCustomers].Limit)
	assert.Equal(t, "acme", src.queries[SubQueryMetrics].Scope.TenantID)
	assert.Equal(t, req.Window, src.queries[SubQueryTrends].Window)
}

func TestBuildSnapshot_PartialFailure(t *testing.T) {
	req := request(t, 14)
	src := liveFixture(req.Window)
	src.fail = map[string]bool{SubQueryTopProducts: true}
	src.trends = nil

	snap, err := newTestOrchestrator(src, nil).BuildSnapshot(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, models.OutcomeFallback, snap.Sources[SubQueryTopProducts])
	assert.Equal(t, models.OutcomeFallback, snap.Sources[SubQueryTrends])
	assert.Equal(t, models.OutcomeLive, snap.Sources[SubQueryMetrics])
	assert.Len(t, snap.TopProducts, 10)
	assert.Len(t, snap.Trends, 14)
}

func TestBuildSnapshot_RepairsLiveSections(t *testing.T) {
	req := request(t, 7)
	src := liveFixture(req.Window)
	src.trends = src.trends[2:]
	src.acquisition[0].TotalCustomers = 10
	src.statuses = models.StatusDistribution{models.StatusDelivered: 5, "Lost": 2}
	src.monthly = append(src.monthly[:3], models.RevenueByPeriod{PeriodLabel: "Oct 2024", Revenue: decimal.NewFromInt(5)})

	snap, err := newTestOrchestrator(src, nil).BuildSnapshot(context.Background(), req)
	require.NoError(t, err)

	require.Len(t, snap.Trends, 7)
	assert.Equal(t, req.Window.Start, snap.Trends[0].Date)
	assert.Equal(t, 0, snap.Trends[0].OrderCount)
	assert.Equal(t, 3, snap.Acquisition[0].TotalCustomers)
	assert.Len(t, snap.MonthlyRevenue, MonthsInSeries)
	assert.NotContains(t, snap.StatusDistribution, models.OrderStatus("Lost"))

	assert.ElementsMatch(t, []string{
		"trend_density",
		"acquisition_total",
		"monthly_alignment",
		"status_vocabulary",
		"status_total",
	}, checks(snap))
}

func TestBuildSnapshot_StartsAllSubQueriesConcurrently(t *testing.T) {
	var started atomic.Int32
	allStarted := make(chan struct{})

	req := request(t, 7)
	src := liveFixture(req.Window)
	src.onCall = func(ctx context.Context, _ string) error {
		if started.Add(1) == int32(len(SubQueries)) {
			close(allStarted)
		}
		select {
		case <-allStarted:
			return nil
		case <-time.After(2 * time.Second):
			return errors.New("sub-queries ran sequentially")
		}
	}

	snap, err := newTestOrchestrator(src, nil).BuildSnapshot(context.Background(), req)
	require.NoError(t, err)
	for _, name := range SubQueries {
		assert.Equal(t, models.OutcomeLive, snap.Sources[name], name)
	}
}

func TestBuildSnapshot_CallerCancels(t *testing.T) {
	release := make(chan struct{})
	defer close(release)

	req := request(t, 7)
	src := liveFixture(req.Window)
	src.onCall = func(ctx context.Context, _ string) error {
		<-release
		return ctx.Err()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	snap, err := newTestOrchestrator(src, nil).BuildSnapshot(ctx, req)
	assert.Nil(t, snap)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestBuildSnapshot_InvalidRequest(t *testing.T) {
	o := newTestOrchestrator(Unavailable{}, nil)

	_, err := o.BuildSnapshot(context.Background(), Request{})
	assert.ErrorIs(t, err, ErrInvalidWindow)

	req := request(t, 7)
	req.Limits.TopProducts = MaxLimit + 1
	_, err = o.BuildSnapshot(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidRequest)

	req.Limits.TopProducts = -1
	_, err = o.BuildSnapshot(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidRequest)

	offset := time.Date(2026, time.October, 18, 0, 0, 0, 0, time.FixedZone("IST", 5*3600+1800))
	req = Request{Window: Window{Start: offset.AddDate(0, 0, -29), End: offset, Days: 30}, Scope: Scope{TenantID: "acme"}}
	_, err = o.BuildSnapshot(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestBuildSnapshot_ConcurrentCalls(t *testing.T) {
	o := NewOrchestrator(Unavailable{}, nil, nil, DefaultConfig())
	req := request(t, 30)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			snap, err := o.BuildSnapshot(context.Background(), req)
			assert.NoError(t, err)
			if snap != nil {
				assert.Len(t, snap.Trends, 30)
			}
		}()
	}
	wg.Wait()
}
