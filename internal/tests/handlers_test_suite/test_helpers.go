package handlers_test_suite

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rogerio-castellano/storefront-analytics/internal/analytics"
	"github.com/rogerio-castellano/storefront-analytics/internal/auth"
	handler "github.com/rogerio-castellano/storefront-analytics/internal/http/handlers"
	"github.com/rogerio-castellano/storefront-analytics/internal/http/router"
	"github.com/rogerio-castellano/storefront-analytics/internal/models"
	"github.com/rogerio-castellano/storefront-analytics/internal/repo"
	"github.com/rogerio-castellano/storefront-analytics/internal/resolve"
	"github.com/rogerio-castellano/storefront-analytics/internal/synth"
	"github.com/rogerio-castellano/storefront-analytics/internal/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var (
	clock = time.Date(2026, time.October, 18, 12, 0, 0, 0, time.UTC)

	tokens   *auth.Tokens
	token    string
	registry = prometheus.NewRegistry()
	metrics  = telemetry.NewMetrics(registry)
	events   = &eventRecorder{}
)

func init() {
	setupTestRepos()

	var err error
	tokens, err = auth.NewTokens("test-secret")
	if err != nil {
		panic(fmt.Sprintf("error building tokens: %v", err))
	}
	token, err = tokens.GenerateToken("acme", "ops@acme.test", time.Hour)
	if err != nil {
		panic(fmt.Sprintf("error generating token: %v", err))
	}
}

type eventRecorder struct {
	mu     sync.Mutex
	events []resolve.Event
}

func (r *eventRecorder) Record(_ context.Context, e resolve.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *eventRecorder) forSnapshot(id string) []resolve.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []resolve.Event
	for _, e := range r.events {
		if e.SnapshotID == id {
			out = append(out, e)
		}
	}
	return out
}

func setupTestRepos() {
	entities := repo.NewInMemoryEntityRepository()
	seedAcme(entities)

	resolver := resolve.NewResolver(resolve.Sinks{events, metrics}, zap.NewNop())
	orchestrator := analytics.NewOrchestrator(
		repo.NewInMemoryAnalyticsRepository(entities),
		resolver,
		zap.NewNop(),
		analytics.DefaultConfig(),
		analytics.WithClock(func() time.Time { return clock }),
		analytics.WithRandom(func() synth.Source { return synth.NewSeededSource(7) }),
	)

	handler.SetSnapshotBuilder(orchestrator)
	handler.SetClock(func() time.Time { return clock })
	handler.SetDefaultDays(30)
	handler.SetResolutionReader(nil)
}

func day(month time.Month, d, hour int) time.Time {
	return time.Date(2026, month, d, hour, 0, 0, 0, time.UTC)
}

// seedAcme stores three orders in the week before clock and one older order.
func seedAcme(r *repo.InMemoryEntityRepository) {
	alice := r.AddCustomer(models.Customer{TenantID: "acme", FirstName: "Alice", LastName: "Smith", Email: "alice@example.com", CreatedAt: day(time.October, 1, 9)})
	bob := r.AddCustomer(models.Customer{TenantID: "acme", FirstName: "Bob", LastName: "Jones", Email: "bob@example.com", CreatedAt: day(time.October, 15, 8)})

	mat := r.AddProduct(models.Product{TenantID: "acme", Name: "Premium Yoga Mat", Category: "Fitness", Price: decimal.NewFromInt(67), Quantity: 4, LowStockThreshold: 5})
	mouse := r.AddProduct(models.Product{TenantID: "acme", Name: "Wireless Gaming Mouse", Category: "Gaming", Price: decimal.NewFromInt(95)})

	r.AddOrder(models.Order{TenantID: "acme", Number: "#1001", CustomerID: alice.ID, TotalPrice: decimal.NewFromInt(134), Status: models.StatusDelivered,
		Items: []models.OrderItem{{ProductID: mat.ID, Quantity: 2, Price: decimal.NewFromInt(67)}}, CreatedAt: day(time.October, 12, 10)})
	r.AddOrder(models.Order{TenantID: "acme", Number: "#1002", CustomerID: alice.ID, TotalPrice: decimal.NewFromInt(95), Status: models.StatusDelivered,
		Items: []models.OrderItem{{ProductID: mouse.ID, Quantity: 1, Price: decimal.NewFromInt(95)}}, CreatedAt: day(time.October, 15, 9)})
	r.AddOrder(models.Order{TenantID: "acme", Number: "#1003", CustomerID: bob.ID, TotalPrice: decimal.NewFromInt(67), Status: models.StatusPending,
		Items: []models.OrderItem{{ProductID: mat.ID, Quantity: 1, Price: decimal.NewFromInt(67)}}, CreatedAt: day(time.October, 15, 11)})
	r.AddOrder(models.Order{TenantID: "acme", Number: "#0999", CustomerID: alice.ID, TotalPrice: decimal.NewFromInt(95), Status: models.StatusShipped,
		Items: []models.OrderItem{{ProductID: mouse.ID, Quantity: 1, Price: decimal.NewFromInt(95)}}, CreatedAt: day(time.September, 1, 12)})
}

func newRouter() http.Handler {
	return router.NewRouter(router.Options{
		Tokens:        tokens,
		DefaultTenant: "demo",
		Metrics:       metrics,
		Gatherer:      registry,
	})
}

func get(r http.Handler, path string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func asTenant(tenant string) map[string]string {
	return map[string]string{"X-Tenant-ID": tenant}
}

func bearer(tok string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + tok}
}
