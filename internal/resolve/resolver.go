// Package resolve guarantees a value for every dashboard sub-query: a live
// fetch is tried once and any failure is replaced by a synthetic fallback.
package resolve

import (
	"context"
	"errors"
	"time"

	"github.com/rogerio-castellano/storefront-analytics/internal/models"
	"go.uber.org/zap"
)

type Resolver struct {
	sink Sink
	log  *zap.Logger
	now  func() time.Time
}

func NewResolver(sink Sink, log *zap.Logger) *Resolver {
	if sink == nil {
		sink = Discard
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{sink: sink, log: log, now: time.Now}
}

// Resolve returns the live value when fetch succeeds with data and the
// fallback value otherwise. It never fails and never retries. The returned
// Outcome tells which path was taken.
func Resolve[T any](ctx context.Context, r *Resolver, name string, fetch func(context.Context) (T, error), fallback func() T) (T, models.Outcome) {
	start := r.now()
	res := Fetch(name, func() (T, error) { return fetch(ctx) })

	if res.OK() {
		r.emit(ctx, name, models.OutcomeLive, nil, r.now().Sub(start))
		return res.Value, models.OutcomeLive
	}

	r.emit(ctx, name, models.OutcomeFallback, res.Err, r.now().Sub(start))
	return fallback(), models.OutcomeFallback
}

func (r *Resolver) emit(ctx context.Context, name string, outcome models.Outcome, err error, took time.Duration) {
	scope := eventScope(ctx)
	e := Event{
		SnapshotID: scope.SnapshotID,
		TenantID:   scope.TenantID,
		SubQuery:   name,
		Outcome:    outcome,
		Duration:   took,
		At:         r.now().UTC(),
	}
	if err != nil {
		e.Error = err.Error()
	}

	defer func() {
		if p := recover(); p != nil {
			r.log.Error("resolution sink panicked", zap.String("sub_query", name), zap.Any("panic", p))
		}
	}()
	r.sink.Record(ctx, e)

	if err != nil && !errors.Is(err, ErrNoData) {
		r.log.Debug("live source failed, using fallback", zap.String("sub_query", name), zap.Error(err))
	}
}
