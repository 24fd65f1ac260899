package handlers_integrated_test_suite

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rogerio-castellano/storefront-analytics/internal/analytics"
	handler "github.com/rogerio-castellano/storefront-analytics/internal/http/handlers"
	"github.com/rogerio-castellano/storefront-analytics/internal/http/router"
	"github.com/rogerio-castellano/storefront-analytics/internal/repo"
	"github.com/rogerio-castellano/storefront-analytics/internal/resolve"
	"github.com/rogerio-castellano/storefront-analytics/internal/synth"
	"go.uber.org/zap"
)

var (
	database *sql.DB
	tenant   = "it-" + uuid.NewString()
	clock    = time.Date(2026, time.October, 18, 12, 0, 0, 0, time.UTC)
)

func setupTestRepos() {
	source := repo.NewBreakerSource(
		repo.NewPostgresAnalyticsRepository(database, 3*time.Second),
		repo.DefaultBreakerSettings(),
		zap.NewNop(),
	)
	orchestrator := analytics.NewOrchestrator(source, resolve.NewResolver(nil, nil), zap.NewNop(), analytics.DefaultConfig(),
		analytics.WithClock(func() time.Time { return clock }),
		analytics.WithRandom(func() synth.Source { return synth.NewSeededSource(1) }),
	)

	handler.SetSnapshotBuilder(orchestrator)
	handler.SetClock(func() time.Time { return clock })
}

func newRouter() http.Handler {
	return router.NewRouter(router.Options{DefaultTenant: tenant, Gatherer: prometheus.NewRegistry()})
}

func get(r http.Handler, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func exec(query string, args ...any) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if _, err := database.ExecContext(ctx, query, args...); err != nil {
		log.Fatalf("failed to run %q: %v", query, err)
	}
}

func insertID(query string, args ...any) int {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	var id int
	if err := database.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		log.Fatalf("failed to run %q: %v", query, err)
	}
	return id
}

func addCustomer(first, last string, spent float64, orders int, createdAt time.Time) int {
	return insertID(`INSERT INTO customers (tenant_id, first_name, last_name, email, total_spent, orders_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`,
		tenant, first, last, first+"@example.com", spent, orders, createdAt)
}

func addProduct(name string, price float64, quantity int) int {
	return insertID(`INSERT INTO products (tenant_id, name, category, price, quantity, low_stock_threshold)
		VALUES ($1, $2, 'Fitness', $3, $4, 5) RETURNING id`,
		tenant, name, price, quantity)
}

func addOrder(number string, customerID, productID, quantity int, price float64, status string, createdAt time.Time) {
	orderID := insertID(`INSERT INTO orders (tenant_id, order_number, customer_id, total_price, status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`,
		tenant, number, customerID, price*float64(quantity), status, createdAt)
	exec(`INSERT INTO order_items (order_id, product_id, quantity, price) VALUES ($1, $2, $3, $4)`,
		orderID, productID, quantity, price)
}

func clearTenant() {
	exec(`DELETE FROM order_items WHERE order_id IN (SELECT id FROM orders WHERE tenant_id = $1)`, tenant)
	exec(`DELETE FROM orders WHERE tenant_id = $1`, tenant)
	exec(`DELETE FROM products WHERE tenant_id = $1`, tenant)
	exec(`DELETE FROM customers WHERE tenant_id = $1`, tenant)
}
