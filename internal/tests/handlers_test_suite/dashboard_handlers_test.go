package handlers_test_suite

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/rogerio-castellano/storefront-analytics/internal/analytics"
	handler "github.com/rogerio-castellano/storefront-analytics/internal/http/handlers"
	"github.com/rogerio-castellano/storefront-analytics/internal/models"
	"github.com/shopspring/decimal"
)

func decodeSnapshot(t *testing.T, body []byte) models.DashboardSnapshot {
	t.Helper()
	var snap models.DashboardSnapshot
	if err := json.Unmarshal(body, &snap); err != nil {
		t.Fatalf("failed to decode snapshot: %v", err)
	}
	return snap
}

func decodeError(t *testing.T, body []byte) handler.ErrorResponse {
	t.Helper()
	var resp handler.ErrorResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	return resp
}

func TestDashboardHandler_LiveTenant(t *testing.T) {
	r := newRouter()

	w := get(r, "/dashboard?days=7", asTenant("acme"))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d: %s", w.Code, w.Body.String())
	}

	snap := decodeSnapshot(t, w.Body.Bytes())
	if snap.TenantID != "acme" {
		t.Errorf("expected tenant acme, got %q", snap.TenantID)
	}
	for _, name := range analytics.SubQueries {
		if snap.Sources[name] != models.OutcomeLive {
			t.Errorf("expected %s to be live, got %q", name, snap.Sources[name])
		}
	}
	if len(snap.Violations) != 0 {
		t.Errorf("expected no violations, got %v", snap.Violations)
	}

	if snap.Metrics.TotalOrders != 3 {
		t.Errorf("expected 3 orders, got %d", snap.Metrics.TotalOrders)
	}
	if !snap.Metrics.TotalRevenue.Equal(decimal.NewFromInt(296)) {
		t.Errorf("expected revenue 296, got %s", snap.Metrics.TotalRevenue)
	}
	if len(snap.Trends) != 7 {
		t.Errorf("expected 7 trend points, got %d", len(snap.Trends))
	}
	if len(snap.MonthlyRevenue) != analytics.MonthsInSeries {
		t.Errorf("expected %d months, got %d", analytics.MonthsInSeries, len(snap.MonthlyRevenue))
	}
	if last := snap.MonthlyRevenue[len(snap.MonthlyRevenue)-1]; last.PeriodLabel != "Oct 2026" || last.OrderCount != 3 {
		t.Errorf("expected Oct 2026 with 3 orders last, got %+v", last)
	}

	if len(snap.TopCustomers) != 2 {
		t.Fatalf("expected 2 top customers, got %d", len(snap.TopCustomers))
	}
	if top := snap.TopCustomers[0]; top.Name != "Alice Smith" || top.Tier != "Bronze" {
		t.Errorf("expected Alice Smith (Bronze) first, got %s (%s)", top.Name, top.Tier)
	}
	if len(snap.RecentOrders) != 4 || snap.RecentOrders[0].ID != "#1003" {
		t.Errorf("expected #1003 as latest of 4 orders, got %+v", snap.RecentOrders)
	}
	if !snap.WindowEnd.Equal(day(time.October, 18, 0)) {
		t.Errorf("expected window to end on 2026-10-18, got %v", snap.WindowEnd)
	}
}

func TestDashboardHandler_UnknownTenantFallsBack(t *testing.T) {
	r := newRouter()

	w := get(r, "/dashboard", asTenant("initech"))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}

	snap := decodeSnapshot(t, w.Body.Bytes())
	for _, name := range analytics.SubQueries {
		if snap.Sources[name] != models.OutcomeFallback {
			t.Errorf("expected %s to fall back, got %q", name, snap.Sources[name])
		}
	}
	if snap.Metrics.TotalOrders != 856 {
		t.Errorf("expected fallback total of 856 orders, got %d", snap.Metrics.TotalOrders)
	}
	if snap.StatusDistribution.Total() != snap.Metrics.TotalOrders {
		t.Errorf("status distribution %d does not add up to %d orders", snap.StatusDistribution.Total(), snap.Metrics.TotalOrders)
	}
	if len(snap.Trends) != 30 {
		t.Errorf("expected the default 30 day window, got %d points", len(snap.Trends))
	}
	if len(snap.TopCustomers) != 5 || len(snap.TopProducts) != 10 || len(snap.RecentOrders) != 10 {
		t.Errorf("expected default limits 5/10/10, got %d/%d/%d", len(snap.TopCustomers), len(snap.TopProducts), len(snap.RecentOrders))
	}
	for i, c := range snap.TopCustomers {
		if c.Tier == "" {
			t.Errorf("customer %d has no tier", i)
		}
		if i > 0 && snap.TopCustomers[i-1].TotalSpent.LessThan(c.TotalSpent) {
			t.Errorf("customers not sorted by spend at %d", i)
		}
	}

	got := events.forSnapshot(snap.ID.String())
	if len(got) != len(analytics.SubQueries) {
		t.Errorf("expected %d resolution events, got %d", len(analytics.SubQueries), len(got))
	}
	for _, e := range got {
		if e.TenantID != "initech" {
			t.Errorf("expected event tenant initech, got %q", e.TenantID)
		}
	}
}

func TestDashboardHandler_TokenSelectsTenant(t *testing.T) {
	r := newRouter()

	w := get(r, "/dashboard?days=7", map[string]string{
		"Authorization": "Bearer " + token,
		"X-Tenant-ID":   "initech",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	if snap := decodeSnapshot(t, w.Body.Bytes()); snap.TenantID != "acme" {
		t.Errorf("expected token tenant acme, got %q", snap.TenantID)
	}
}

func TestDashboardHandler_InvalidToken(t *testing.T) {
	r := newRouter()

	w := get(r, "/dashboard", bearer("not-a-jwt"))
	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestDashboardHandler_ExplicitWindow(t *testing.T) {
	r := newRouter()

	w := get(r, "/dashboard?start=2026-10-12&end=2026-10-15&top_customers=1&recent_orders=2", asTenant("acme"))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d: %s", w.Code, w.Body.String())
	}

	snap := decodeSnapshot(t, w.Body.Bytes())
	if len(snap.Trends) != 4 {
		t.Errorf("expected 4 trend points, got %d", len(snap.Trends))
	}
	if !snap.WindowStart.Equal(day(time.October, 12, 0)) || !snap.WindowEnd.Equal(day(time.October, 15, 0)) {
		t.Errorf("unexpected window %v - %v", snap.WindowStart, snap.WindowEnd)
	}
	if len(snap.TopCustomers) != 1 {
		t.Errorf("expected 1 top customer, got %d", len(snap.TopCustomers))
	}
	if len(snap.RecentOrders) != 2 {
		t.Errorf("expected 2 recent orders, got %d", len(snap.RecentOrders))
	}
}

func TestDashboardHandler_InvalidQueries(t *testing.T) {
	r := newRouter()

	tests := []struct {
		name  string
		query string
		field string
	}{
		{"zero days", "days=0", "days"},
		{"too many days", "days=367", "days"},
		{"days not a number", "days=week", "days"},
		{"days with range", "days=7&start=2026-10-01&end=2026-10-07", "days"},
		{"start without end", "start=2026-10-01", "end"},
		{"bad date", "start=2026-13-01&end=2026-10-07", "start"},
		{"limit too high", "top_products=51", "top_products"},
		{"limit zero", "recent_orders=0", "recent_orders"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(r, "/dashboard?"+tt.query, asTenant("acme"))
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", w.Code)
			}
			resp := decodeError(t, w.Body.Bytes())
			found := false
			for _, d := range resp.Details {
				if d.Field == tt.field {
					found = true
				}
			}
			if !found {
				t.Errorf("expected a %s error, got %+v", tt.field, resp.Details)
			}
		})
	}
}

func TestDashboardHandler_InvertedRange(t *testing.T) {
	r := newRouter()

	w := get(r, "/dashboard?start=2026-10-15&end=2026-10-01", asTenant("acme"))
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

type failingBuilder struct{ err error }

func (f failingBuilder) BuildSnapshot(context.Context, analytics.Request) (*models.DashboardSnapshot, error) {
	return nil, f.err
}

func TestDashboardHandler_BuilderErrors(t *testing.T) {
	t.Cleanup(setupTestRepos)
	r := newRouter()

	tests := []struct {
		err  error
		want int
	}{
		{context.DeadlineExceeded, http.StatusServiceUnavailable},
		{analytics.ErrInvalidRequest, http.StatusBadRequest},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		handler.SetSnapshotBuilder(failingBuilder{tt.err})
		if w := get(r, "/dashboard", nil); w.Code != tt.want {
			t.Errorf("%v: expected %d, got %d", tt.err, tt.want, w.Code)
		}
	}
}
