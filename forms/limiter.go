package forms

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Limiter decides whether a visitor may submit another form.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// MemoryLimiter is a per-process sliding-window limiter keyed by IP.
type MemoryLimiter struct {
	mu     sync.Mutex
	hits   map[string][]time.Time
	max    int
	window time.Duration
	stop   chan struct{}
	once   sync.Once
}

// NewMemoryLimiter allows max submissions per window for each key.
func NewMemoryLimiter(max int, window time.Duration) *MemoryLimiter {
	l := &MemoryLimiter{
		hits:   make(map[string][]time.Time),
		max:    max,
		window: window,
		stop:   make(chan struct{}),
	}
	go l.cleanup()
	return l
}

func (l *MemoryLimiter) cleanup() {
	ticker := time.NewTicker(l.window)
	defer ticker.Stop()
	for {
		select {
		case <-l.stop:
			return
		case now := <-ticker.C:
			l.mu.Lock()
			for key := range l.hits {
				l.prune(key, now)
			}
			l.mu.Unlock()
		}
	}
}

// prune drops expired hits for key. Caller holds mu.
func (l *MemoryLimiter) prune(key string, now time.Time) []time.Time {
	cutoff := now.Add(-l.window)
	hits := l.hits[key]
	kept := hits[:0]
	for _, t := range hits {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	if len(kept) == 0 {
		delete(l.hits, key)
		return nil
	}
	l.hits[key] = kept
	return kept
}

// Allow records a hit for key unless the window is already full.
func (l *MemoryLimiter) Allow(_ context.Context, key string) (bool, error) {
	now := time.Now()
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.prune(key, now)) >= l.max {
		return false, nil
	}
	l.hits[key] = append(l.hits[key], now)
	return true, nil
}

// Close stops the background cleanup.
func (l *MemoryLimiter) Close() {
	l.once.Do(func() { close(l.stop) })
}

// RedisLimiter is a fixed-window limiter shared by every relay instance
// pointed at the same Redis.
type RedisLimiter struct {
	client *redis.Client
	prefix string
	max    int64
	window time.Duration
}

// NewRedisLimiter allows max submissions per window for each key.
func NewRedisLimiter(client *redis.Client, max int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, prefix: "forms:limit:", max: int64(max), window: window}
}

// Allow increments the key's counter and arms its expiry in one
// transaction. EXPIRE NX leaves a running window alone but re-arms a key
// that lost its TTL, so a failed write can never lock a visitor out.
func (l *RedisLimiter) Allow(ctx context.Context, key string) (bool, error) {
	k := l.prefix + key
	var incr *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, k)
		pipe.ExpireNX(ctx, k, l.window)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("forms: redis limiter: %w", err)
	}
	return incr.Val() <= l.max, nil
}
