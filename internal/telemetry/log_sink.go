package telemetry

import (
	"context"

	"github.com/rogerio-castellano/storefront-analytics/internal/models"
	"github.com/rogerio-castellano/storefront-analytics/internal/resolve"
	"go.uber.org/zap"
)

// LogSink writes resolution events to a zap logger. Fallbacks are logged at
// warn level, live answers at debug.
type LogSink struct {
	log *zap.Logger
}

func NewLogSink(log *zap.Logger) *LogSink {
	return &LogSink{log: log}
}

func (s *LogSink) Record(_ context.Context, e resolve.Event) {
	fields := []zap.Field{
		zap.String("sub_query", e.SubQuery),
		zap.String("outcome", string(e.Outcome)),
		zap.Duration("duration", e.Duration),
		zap.String("snapshot_id", e.SnapshotID),
		zap.String("tenant_id", e.TenantID),
	}
	if e.Outcome == models.OutcomeFallback {
		s.log.Warn("sub-query served from fallback", append(fields, zap.String("error", e.Error))...)
		return
	}
	s.log.Debug("sub-query served live", fields...)
}
