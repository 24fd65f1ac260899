package middleware

import (
	"net"
	"net/http"

	rl "github.com/rogerio-castellano/storefront-analytics/internal/http/rate_limiter"
)

// RateLimit throttles per tenant, or per client IP for requests without a
// tenant. It must run after Tenant.
func RateLimit(limiters *rl.Limiters) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiters.Allow(visitorKey(r)) {
				w.Header().Set("Retry-After", "1")
				writeJSONError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func visitorKey(r *http.Request) string {
	if tenant := ScopeFromContext(r.Context()).TenantID; tenant != "" {
		return "tenant:" + tenant
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	return "ip:" + ip
}
