package handlers_test_suite

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	handler "github.com/rogerio-castellano/storefront-analytics/internal/http/handlers"
	rl "github.com/rogerio-castellano/storefront-analytics/internal/http/rate_limiter"
	"github.com/rogerio-castellano/storefront-analytics/internal/http/router"
	"github.com/rogerio-castellano/storefront-analytics/internal/models"
	"github.com/rogerio-castellano/storefront-analytics/internal/resolve"
)

func TestHealthHandler(t *testing.T) {
	r := newRouter()

	w := get(r, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	var resp handler.HealthResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode health: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("expected status ok, got %q", resp.Status)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	r := newRouter()

	if w := get(r, "/dashboard?days=3", asTenant("acme")); w.Code != http.StatusOK {
		t.Fatalf("dashboard failed: %d", w.Code)
	}

	w := get(r, "/metrics", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	body := w.Body.String()
	for _, name := range []string{
		"analytics_subquery_resolutions_total",
		"analytics_http_requests_total",
		`route="/dashboard"`,
	} {
		if !strings.Contains(body, name) {
			t.Errorf("expected %s in metrics output", name)
		}
	}
}

func TestSwaggerDoc(t *testing.T) {
	r := newRouter()

	w := get(r, "/swagger/doc.json", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "/segments/order-progress") {
		t.Errorf("expected the order progress route in the API doc")
	}
}

// stubResolutions keeps events per tenant like the Redis resolution log.
type stubResolutions struct {
	events []resolve.Event
	err    error
	asked  int64
	tenant string
}

func (s *stubResolutions) Recent(_ context.Context, tenantID string, n int64) ([]resolve.Event, error) {
	s.asked = n
	s.tenant = tenantID
	if s.err != nil {
		return nil, s.err
	}
	out := []resolve.Event{}
	for _, e := range s.events {
		if e.TenantID == tenantID && int64(len(out)) < n {
			out = append(out, e)
		}
	}
	return out, nil
}

func TestResolutionsHandler(t *testing.T) {
	t.Cleanup(func() { handler.SetResolutionReader(nil) })
	r := newRouter()

	if w := get(r, "/resolutions", nil); w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 without a resolution log, got %d", w.Code)
	}

	stub := &stubResolutions{events: []resolve.Event{
		{SubQuery: "metrics", TenantID: "demo", Outcome: models.OutcomeFallback, Error: "source unavailable", At: clock},
		{SubQuery: "trends", TenantID: "demo", Outcome: models.OutcomeLive, Duration: 3 * time.Millisecond, At: clock},
	}}
	handler.SetResolutionReader(stub)

	w := get(r, "/resolutions?limit=2", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	var resp handler.ResolutionsResult
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode resolutions: %v", err)
	}
	if resp.Meta.TotalCount != 2 || resp.Data[0].SubQuery != "metrics" {
		t.Errorf("unexpected resolutions %+v", resp)
	}
	if stub.asked != 2 || stub.tenant != "demo" {
		t.Errorf("expected 2 events of tenant demo requested, got %d of %q", stub.asked, stub.tenant)
	}

	if w := get(r, "/resolutions?limit=0", nil); w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for limit 0, got %d", w.Code)
	}

	stub.err = errors.New("connection refused")
	if w := get(r, "/resolutions", nil); w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503 when redis fails, got %d", w.Code)
	}
}

func TestResolutionsHandler_TenantIsolation(t *testing.T) {
	t.Cleanup(func() { handler.SetResolutionReader(nil) })
	handler.SetResolutionReader(&stubResolutions{events: []resolve.Event{
		{SnapshotID: "snap-acme", SubQuery: "metrics", TenantID: "acme", Outcome: models.OutcomeLive, At: clock},
		{SnapshotID: "snap-globex", SubQuery: "trends", TenantID: "globex", Outcome: models.OutcomeFallback, Error: "pq: relation does not exist", At: clock},
	}})
	r := newRouter()

	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"acme by header", asTenant("acme"), "snap-acme"},
		{"acme by token", bearer(token), "snap-acme"},
		{"globex by header", asTenant("globex"), "snap-globex"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(r, "/resolutions", tt.headers)
			if w.Code != http.StatusOK {
				t.Fatalf("expected 200 OK, got %d", w.Code)
			}
			var resp handler.ResolutionsResult
			if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
				t.Fatalf("failed to decode resolutions: %v", err)
			}
			if len(resp.Data) != 1 || resp.Data[0].SnapshotID != tt.want {
				t.Errorf("expected only %s, got %+v", tt.want, resp.Data)
			}
		})
	}

	w := get(r, "/resolutions", nil)
	var resp handler.ResolutionsResult
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode resolutions: %v", err)
	}
	if len(resp.Data) != 0 {
		t.Errorf("expected no events for the default tenant, got %+v", resp.Data)
	}
}

func TestRateLimitedRouter(t *testing.T) {
	r := router.NewRouter(router.Options{
		DefaultTenant: "demo",
		Limiters:      rl.New(0.001, 2, time.Minute),
		Metrics:       metrics,
		Gatherer:      registry,
	})

	for i := 0; i < 2; i++ {
		if w := get(r, "/segments/stock?quantity=1&threshold=1", asTenant("acme")); w.Code != http.StatusOK {
			t.Fatalf("request %d: expected 200 OK, got %d", i, w.Code)
		}
	}

	w := get(r, "/segments/stock?quantity=1&threshold=1", asTenant("acme"))
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Errorf("expected a Retry-After header")
	}

	if w := get(r, "/segments/stock?quantity=1&threshold=1", asTenant("globex")); w.Code != http.StatusOK {
		t.Errorf("expected another tenant to pass, got %d", w.Code)
	}
	if w := get(r, "/health", asTenant("acme")); w.Code != http.StatusOK {
		t.Errorf("expected health to skip the limiter, got %d", w.Code)
	}
}
