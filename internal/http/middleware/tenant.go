package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/rogerio-castellano/storefront-analytics/internal/analytics"
	"github.com/rogerio-castellano/storefront-analytics/internal/auth"
)

type contextKey string

const scopeKey = contextKey("analytics_scope")

const TenantHeader = "X-Tenant-ID"

// Tenant resolves the caller's scope. A bearer token wins over the
// X-Tenant-ID header, which wins over defaultTenant. A token that fails
// verification is rejected rather than ignored; tokens is nil when no
// secret is configured, and then any bearer token is rejected.
func Tenant(tokens *auth.Tokens, defaultTenant string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			scope := analytics.Scope{TenantID: defaultTenant}

			if header := r.Header.Get("Authorization"); header != "" {
				tokenStr, ok := strings.CutPrefix(header, "Bearer ")
				if !ok || tokens == nil {
					writeJSONError(w, http.StatusUnauthorized, "missing or invalid token")
					return
				}
				tenant, err := tokens.ParseTenant(tokenStr)
				if err != nil {
					writeJSONError(w, http.StatusUnauthorized, "invalid token")
					return
				}
				scope = analytics.Scope{TenantID: tenant, AuthToken: tokenStr}
			} else if tenant := strings.TrimSpace(r.Header.Get(TenantHeader)); tenant != "" {
				scope.TenantID = tenant
			}

			next.ServeHTTP(w, r.WithContext(WithScope(r.Context(), scope)))
		})
	}
}

func WithScope(ctx context.Context, s analytics.Scope) context.Context {
	return context.WithValue(ctx, scopeKey, s)
}

// ScopeFromContext returns the zero Scope when the tenant middleware did not run.
func ScopeFromContext(ctx context.Context) analytics.Scope {
	if s, ok := ctx.Value(scopeKey).(analytics.Scope); ok {
		return s
	}
	return analytics.Scope{}
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
