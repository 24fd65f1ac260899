package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/rogerio-castellano/storefront-analytics/internal/analytics"
	mw "github.com/rogerio-castellano/storefront-analytics/internal/http/middleware"
	"go.uber.org/zap"
)

// GetDashboardHandler godoc
// @Summary Dashboard snapshot
// @Description Aggregates metrics, trends, monthly revenue, status distribution, rankings, acquisition and recent orders for the caller's tenant. Sections whose live source fails are synthesized and flagged in "sources".
// @Tags dashboard
// @Produce json
// @Security BearerAuth
// @Param X-Tenant-ID header string false "Tenant ID when no token is sent"
// @Param days query int false "Trailing window in days (1-366)"
// @Param start query string false "Window start, YYYY-MM-DD"
// @Param end query string false "Window end, YYYY-MM-DD"
// @Param top_customers query int false "Customers to rank (1-50)"
// @Param top_products query int false "Products to rank (1-50)"
// @Param recent_orders query int false "Recent orders to list (1-50)"
// @Success 200 {object} models.DashboardSnapshot
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /dashboard [get]
func GetDashboardHandler(w http.ResponseWriter, r *http.Request) {
	if snapshots == nil {
		writeError(w, http.StatusServiceUnavailable, "analytics engine is not configured")
		return
	}

	q, errs := parseDashboardQuery(r.URL.Query())
	if len(errs) == 0 {
		errs = validateQuery(q)
	}
	if len(errs) > 0 {
		writeError(w, http.StatusBadRequest, "invalid dashboard query", errs...)
		return
	}

	window, err := q.Window(defaultDays, now())
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	req := analytics.Request{
		Window: window,
		Scope:  mw.ScopeFromContext(r.Context()),
		Limits: q.Limits(),
	}

	snap, err := snapshots.BuildSnapshot(r.Context(), req)
	switch {
	case errors.Is(err, analytics.ErrInvalidWindow), errors.Is(err, analytics.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(w, http.StatusServiceUnavailable, "request ended before the snapshot was ready")
		return
	case err != nil:
		logger.Error("failed to build snapshot", zap.String("tenant_id", req.Scope.TenantID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to build snapshot")
		return
	}

	respond(w, http.StatusOK, snap)
}
