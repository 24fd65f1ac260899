package handlers

import (
	"context"
	"time"

	"github.com/rogerio-castellano/storefront-analytics/internal/analytics"
	"github.com/rogerio-castellano/storefront-analytics/internal/models"
	"github.com/rogerio-castellano/storefront-analytics/internal/resolve"
	"go.uber.org/zap"
)

// SnapshotBuilder is implemented by *analytics.Orchestrator.
type SnapshotBuilder interface {
	BuildSnapshot(ctx context.Context, req analytics.Request) (*models.DashboardSnapshot, error)
}

// ResolutionReader is implemented by *redissvc.ResolutionLog.
type ResolutionReader interface {
	Recent(ctx context.Context, tenantID string, n int64) ([]resolve.Event, error)
}

var (
	snapshots   SnapshotBuilder
	resolutions ResolutionReader

	logger      = zap.NewNop()
	defaultDays = 30
	now         = time.Now
)

func SetSnapshotBuilder(b SnapshotBuilder) {
	snapshots = b
}

func SetResolutionReader(r ResolutionReader) {
	resolutions = r
}

func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	logger = l
}

// SetDefaultDays sets the window used when a dashboard request names neither
// days nor start/end.
func SetDefaultDays(days int) {
	defaultDays = days
}

func SetClock(fn func() time.Time) {
	if fn == nil {
		fn = time.Now
	}
	now = fn
}
