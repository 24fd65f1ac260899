package synth

import (
	"math/rand/v2"
	"sync"
)

// Source is the randomness a Generator draws from. *rand.Rand satisfies it.
type Source interface {
	// Float64 returns a value in [0.0, 1.0).
	Float64() float64
	// IntN returns a value in [0, n). It panics if n <= 0.
	IntN(n int) int
}

// NewSource returns an auto-seeded source that is safe for concurrent use.
// Each call yields an independent stream.
func NewSource() Source {
	return Locked(rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())))
}

// NewSeededSource returns a reproducible source, mostly for demos and tests.
func NewSeededSource(seed uint64) Source {
	return Locked(rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)))
}

// LockedSource serializes access to a Source shared between goroutines.
type LockedSource struct {
	mu  sync.Mutex
	src Source
}

func Locked(src Source) *LockedSource {
	if ls, ok := src.(*LockedSource); ok {
		return ls
	}
	return &LockedSource{src: src}
}

func (l *LockedSource) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.Float64()
}

func (l *LockedSource) IntN(n int) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.src.IntN(n)
}
