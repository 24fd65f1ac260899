package resolve

import (
	"context"
	"time"

	"github.com/rogerio-castellano/storefront-analytics/internal/models"
)

// Event describes how one sub-query was resolved.
type Event struct {
	SnapshotID string         `json:"snapshot_id,omitempty"`
	TenantID   string         `json:"tenant_id,omitempty"`
	SubQuery   string         `json:"sub_query"`
	Outcome    models.Outcome `json:"outcome"`
	Error      string         `json:"error,omitempty"`
	Duration   time.Duration  `json:"duration"`
	At         time.Time      `json:"at"`
}

// Sink receives resolution events. Implementations must not block the
// caller for long and must tolerate being unavailable.
type Sink interface {
	Record(ctx context.Context, e Event)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, e Event)

func (f SinkFunc) Record(ctx context.Context, e Event) { f(ctx, e) }

// Sinks fans an event out to every sink in order.
type Sinks []Sink

func (s Sinks) Record(ctx context.Context, e Event) {
	for _, sink := range s {
		if sink != nil {
			sink.Record(ctx, e)
		}
	}
}

type nopSink struct{}

func (nopSink) Record(context.Context, Event) {}

// Discard drops every event.
var Discard Sink = nopSink{}

type eventScopeKey struct{}

// EventScope is copied onto every event emitted under a context.
type EventScope struct {
	SnapshotID string
	TenantID   string
}

func WithEventScope(ctx context.Context, s EventScope) context.Context {
	return context.WithValue(ctx, eventScopeKey{}, s)
}

func eventScope(ctx context.Context) EventScope {
	s, _ := ctx.Value(eventScopeKey{}).(EventScope)
	return s
}
