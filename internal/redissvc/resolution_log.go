package redissvc

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rogerio-castellano/storefront-analytics/internal/resolve"
	"go.uber.org/zap"
)

const (
	DefaultResolutionLogKey = "analytics:resolutions"
	DefaultQueueSize        = 256
)

type logEntry struct {
	key  string
	data []byte
	// done is set on flush markers only.
	done chan struct{}
}

// ResolutionLog keeps the latest resolution events of each tenant in a
// capped Redis list named <key>:<tenant>. Record never blocks: events go
// through a bounded queue drained by a single writer, and are dropped when
// the queue is full. Write failures are only logged.
type ResolutionLog struct {
	rdb     *redis.Client
	key     string
	maxLen  int64
	timeout time.Duration
	log     *zap.Logger

	mu      sync.RWMutex
	closed  bool
	queue   chan logEntry
	stopped chan struct{}
	dropped atomic.Int64
}

func NewResolutionLog(rs *RedisService, key string, maxLen int64, log *zap.Logger) *ResolutionLog {
	return newResolutionLog(rs, key, maxLen, DefaultQueueSize, log)
}

func newResolutionLog(rs *RedisService, key string, maxLen int64, queueSize int, log *zap.Logger) *ResolutionLog {
	if key == "" {
		key = DefaultResolutionLogKey
	}
	if maxLen <= 0 {
		maxLen = 1000
	}
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	if log == nil {
		log = zap.NewNop()
	}
	l := &ResolutionLog{
		rdb:     rs.Rdb(),
		key:     key,
		maxLen:  maxLen,
		timeout: time.Second,
		log:     log,
		queue:   make(chan logEntry, queueSize),
		stopped: make(chan struct{}),
	}
	go l.run()
	return l
}

func (l *ResolutionLog) tenantKey(tenantID string) string {
	return l.key + ":" + tenantID
}

func (l *ResolutionLog) run() {
	defer close(l.stopped)
	for entry := range l.queue {
		if entry.done != nil {
			close(entry.done)
			continue
		}
		l.push(entry)
	}
}

func (l *ResolutionLog) push(entry logEntry) {
	ctx, cancel := context.WithTimeout(context.Background(), l.timeout)
	defer cancel()

	pipe := l.rdb.TxPipeline()
	pipe.RPush(ctx, entry.key, entry.data)
	pipe.LTrim(ctx, entry.key, -l.maxLen, -1)
	if _, err := pipe.Exec(ctx); err != nil {
		l.log.Warn("failed to push resolution event", zap.String("key", entry.key), zap.Error(err))
	}
}

// Record implements resolve.Sink.
func (l *ResolutionLog) Record(_ context.Context, e resolve.Event) {
	data, err := json.Marshal(e)
	if err != nil {
		l.log.Error("failed to encode resolution event", zap.Error(err))
		return
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		return
	}
	select {
	case l.queue <- logEntry{key: l.tenantKey(e.TenantID), data: data}:
	default:
		if n := l.dropped.Add(1); n == 1 || n%100 == 0 {
			l.log.Warn("resolution log queue full, dropping events", zap.Int64("dropped", n))
		}
	}
}

// Dropped reports how many events were discarded because the queue was full.
func (l *ResolutionLog) Dropped() int64 {
	return l.dropped.Load()
}

// Recent returns up to n of the latest events of a tenant, newest first.
func (l *ResolutionLog) Recent(ctx context.Context, tenantID string, n int64) ([]resolve.Event, error) {
	if n <= 0 {
		return []resolve.Event{}, nil
	}
	raw, err := l.rdb.LRange(ctx, l.tenantKey(tenantID), -n, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read resolution log: %w", err)
	}

	events := make([]resolve.Event, 0, len(raw))
	for i := len(raw) - 1; i >= 0; i-- {
		var e resolve.Event
		if err := json.Unmarshal([]byte(raw[i]), &e); err != nil {
			continue
		}
		events = append(events, e)
	}
	return events, nil
}

// Flush waits until every event queued before the call has been written.
func (l *ResolutionLog) Flush() {
	l.mu.RLock()
	if l.closed {
		l.mu.RUnlock()
		return
	}
	done := make(chan struct{})
	l.queue <- logEntry{done: done}
	l.mu.RUnlock()
	<-done
}

// Close writes the queued events and stops the writer. Later events are
// ignored.
func (l *ResolutionLog) Close() {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return
	}
	l.closed = true
	close(l.queue)
	l.mu.Unlock()
	<-l.stopped
}
