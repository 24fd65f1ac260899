package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rogerio-castellano/storefront-analytics/internal/analytics"
	"github.com/rogerio-castellano/storefront-analytics/internal/auth"
	rl "github.com/rogerio-castellano/storefront-analytics/internal/http/rate_limiter"
	"github.com/rogerio-castellano/storefront-analytics/internal/telemetry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func captureScope(got *analytics.Scope) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got = ScopeFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestTenant(t *testing.T) {
	tokens, err := auth.NewTokens("test-secret")
	require.NoError(t, err)
	token, err := tokens.GenerateToken("acme", "ops@acme.test", time.Hour)
	require.NoError(t, err)

	other, err := auth.NewTokens("other-secret")
	require.NoError(t, err)
	forged, err := other.GenerateToken("acme", "ops@acme.test", time.Hour)
	require.NoError(t, err)

	tests := []struct {
		name       string
		headers    map[string]string
		wantStatus int
		wantTenant string
	}{
		{"default tenant", nil, http.StatusNoContent, "demo"},
		{"header", map[string]string{TenantHeader: " globex "}, http.StatusNoContent, "globex"},
		{"token wins over header", map[string]string{"Authorization": "Bearer " + token, TenantHeader: "globex"}, http.StatusNoContent, "acme"},
		{"forged token", map[string]string{"Authorization": "Bearer " + forged}, http.StatusUnauthorized, ""},
		{"not a bearer token", map[string]string{"Authorization": "Basic abc"}, http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got analytics.Scope
			h := Tenant(tokens, "demo")(captureScope(&got))

			req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantTenant, got.TenantID)
		})
	}
}

func TestTenant_TokenWithoutSecret(t *testing.T) {
	var got analytics.Scope
	h := Tenant(nil, "demo")(captureScope(&got))

	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set("Authorization", "Bearer whatever")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestTenant_KeepsToken(t *testing.T) {
	tokens, err := auth.NewTokens("test-secret")
	require.NoError(t, err)
	token, err := tokens.GenerateToken("acme", "", time.Minute)
	require.NoError(t, err)

	var got analytics.Scope
	h := Tenant(tokens, "demo")(captureScope(&got))
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, analytics.Scope{TenantID: "acme", AuthToken: token}, got)
}

func TestRateLimit_PerTenant(t *testing.T) {
	limiters := rl.New(0.001, 2, time.Minute)
	var scope analytics.Scope
	h := Tenant(nil, "demo")(RateLimit(limiters)(captureScope(&scope)))

	call := func(tenant string) int {
		req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
		req.Header.Set(TenantHeader, tenant)
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		return rr.Code
	}

	assert.Equal(t, http.StatusNoContent, call("acme"))
	assert.Equal(t, http.StatusNoContent, call("acme"))
	assert.Equal(t, http.StatusTooManyRequests, call("acme"))
	assert.Equal(t, http.StatusNoContent, call("globex"))
}

func TestVisitorKey_FallsBackToIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.RemoteAddr = "10.1.2.3:5555"
	assert.Equal(t, "ip:10.1.2.3", visitorKey(req))

	req = req.WithContext(WithScope(req.Context(), analytics.Scope{TenantID: "acme"}))
	assert.Equal(t, "tenant:acme", visitorKey(req))
}

func TestObserve_LabelsByRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := telemetry.NewMetrics(reg)

	r := chi.NewRouter()
	r.Use(Observe(m, nil))
	r.Get("/segments/{kind}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/segments/stock", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/segments/customer", nil))

	families, err := reg.Gather()
	require.NoError(t, err)

	var found bool
	for _, f := range families {
		if f.GetName() != "analytics_http_requests_total" {
			continue
		}
		for _, metric := range f.GetMetric() {
			labels := map[string]string{}
			for _, l := range metric.GetLabel() {
				labels[l.GetName()] = l.GetValue()
			}
			if labels["route"] == "/segments/{kind}" && labels["status"] == "418" {
				found = true
				assert.Equal(t, 2.0, metric.GetCounter().GetValue())
			}
		}
	}
	assert.True(t, found, "request counter not recorded")
}
