package handlers

import (
	"net/http"

	mw "github.com/rogerio-castellano/storefront-analytics/internal/http/middleware"
	"go.uber.org/zap"
)

const maxResolutions = 500

// HealthHandler godoc
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /health [get]
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, HealthResponse{Status: "ok", Time: now().UTC()})
}

// GetResolutionsHandler godoc
// @Summary Recent sub-query resolutions
// @Description Lists the caller tenant's latest live/fallback decisions kept in Redis, newest first.
// @Tags dashboard
// @Produce json
// @Param limit query int false "Number of events (1-500)" default(50)
// @Success 200 {object} ResolutionsResult
// @Failure 400 {object} ErrorResponse
// @Failure 503 {object} ErrorResponse
// @Router /resolutions [get]
func GetResolutionsHandler(w http.ResponseWriter, r *http.Request) {
	if resolutions == nil {
		writeError(w, http.StatusServiceUnavailable, "resolution log is not configured")
		return
	}

	var errs []ValidationError
	limit := 50
	if n := queryInt(r.URL.Query(), "limit", &errs); n != nil {
		limit = *n
	}
	if len(errs) == 0 && (limit < 1 || limit > maxResolutions) {
		errs = append(errs, ValidationError{Field: "limit", Description: "limit must be between 1 and 500"})
	}
	if len(errs) > 0 {
		writeError(w, http.StatusBadRequest, "invalid resolutions query", errs...)
		return
	}

	scope := mw.ScopeFromContext(r.Context())
	events, err := resolutions.Recent(r.Context(), scope.TenantID, int64(limit))
	if err != nil {
		logger.Warn("failed to read resolution log", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, "resolution log is unavailable")
		return
	}
	respond(w, http.StatusOK, ResolutionsResult{Data: events, Meta: Meta{TotalCount: len(events)}})
}
