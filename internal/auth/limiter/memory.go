package limiter

import (
	"context"
	"sync"
	"time"
)

const sweepInterval = time.Minute

type window struct {
	count     int
	expiresAt time.Time
}

// MemoryLimiter keeps counters in process. Used when no Redis is configured.
// Expired windows are swept at most once per sweepInterval.
type MemoryLimiter struct {
	mu        sync.Mutex
	entries   map[string]window
	now       func() time.Time
	nextSweep time.Time
}

func NewMemoryLimiter() *MemoryLimiter {
	return &MemoryLimiter{entries: make(map[string]window), now: time.Now}
}

func (l *MemoryLimiter) Hit(_ context.Context, key string, d time.Duration) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	w, ok := l.entries[key]
	if !ok || !now.Before(w.expiresAt) {
		w = window{expiresAt: now.Add(d)}
	}
	w.count++
	l.entries[key] = w
	return w.count, nil
}

func (l *MemoryLimiter) Reset(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.entries, key)
	return nil
}

func (l *MemoryLimiter) sweep(now time.Time) {
	if now.Before(l.nextSweep) {
		return
	}
	for k, w := range l.entries {
		if !now.Before(w.expiresAt) {
			delete(l.entries, k)
		}
	}
	l.nextSweep = now.Add(sweepInterval)
}
