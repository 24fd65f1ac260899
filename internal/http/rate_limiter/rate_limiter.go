package rate_limiter

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Limiters hands out one token bucket per visitor key. A visitor is usually
// a tenant; anonymous callers are keyed by IP.
type Limiters struct {
	mu       sync.Mutex
	visitors map[string]*clientLimiter

	limit rate.Limit
	burst int
	idle  time.Duration
	now   func() time.Time
}

func New(requestsPerSec float64, burst int, idle time.Duration) *Limiters {
	if requestsPerSec <= 0 {
		requestsPerSec = 1
	}
	if burst <= 0 {
		burst = 3
	}
	if idle <= 0 {
		idle = 5 * time.Minute
	}
	return &Limiters{
		visitors: make(map[string]*clientLimiter),
		limit:    rate.Limit(requestsPerSec),
		burst:    burst,
		idle:     idle,
		now:      time.Now,
	}
}

func (l *Limiters) GetVisitor(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	v, exists := l.visitors[key]
	if !exists {
		limiter := rate.NewLimiter(l.limit, l.burst)
		l.visitors[key] = &clientLimiter{limiter, l.now()}
		return limiter
	}

	v.lastSeen = l.now()
	return v.limiter
}

// Allow reports whether key may make one more request now.
func (l *Limiters) Allow(key string) bool {
	return l.GetVisitor(key).Allow()
}

// StartVisitorCleanupLoop drops idle visitors every interval until ctx ends.
func (l *Limiters) StartVisitorCleanupLoop(ctx context.Context, every time.Duration) {
	if every <= 0 {
		every = time.Minute
	}
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.CleanupIdleVisitors()
		}
	}
}

// CleanupIdleVisitors removes visitors not seen within the idle timeout and
// returns how many were dropped.
func (l *Limiters) CleanupIdleVisitors() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	dropped := 0
	for key, v := range l.visitors {
		if l.now().Sub(v.lastSeen) > l.idle {
			delete(l.visitors, key)
			dropped++
		}
	}
	return dropped
}

func (l *Limiters) CleanupAllVisitors() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.visitors = make(map[string]*clientLimiter)
}

func (l *Limiters) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visitors)
}
