package forms

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allow(t *testing.T, l Limiter, key string) bool {
	t.Helper()
	ok, err := l.Allow(context.Background(), key)
	require.NoError(t, err)
	return ok
}

func TestMemoryLimiterBlocksAfterMax(t *testing.T) {
	limiter := NewMemoryLimiter(2, 200*time.Millisecond)
	defer limiter.Close()
	ip := "203.0.113.10"

	if !allow(t, limiter, ip) {
		t.Fatalf("expected first submission to be allowed")
	}
	if !allow(t, limiter, ip) {
		t.Fatalf("expected second submission to be allowed")
	}
	if allow(t, limiter, ip) {
		t.Fatalf("expected third submission to be blocked")
	}
}

func TestMemoryLimiterResetsAfterWindow(t *testing.T) {
	limiter := NewMemoryLimiter(1, 150*time.Millisecond)
	defer limiter.Close()
	ip := "203.0.113.20"

	if !allow(t, limiter, ip) {
		t.Fatalf("expected first submission to be allowed")
	}
	if allow(t, limiter, ip) {
		t.Fatalf("expected second submission to be blocked")
	}

	time.Sleep(200 * time.Millisecond)
	if !allow(t, limiter, ip) {
		t.Fatalf("expected submission after window to be allowed")
	}
}

func TestMemoryLimiterIsPerIP(t *testing.T) {
	limiter := NewMemoryLimiter(1, 200*time.Millisecond)
	defer limiter.Close()

	if !allow(t, limiter, "203.0.113.30") {
		t.Fatalf("expected first ip to be allowed")
	}
	if !allow(t, limiter, "203.0.113.31") {
		t.Fatalf("expected second ip to be allowed independently")
	}
	if allow(t, limiter, "203.0.113.30") {
		t.Fatalf("expected first ip to be blocked after max")
	}
}

func TestMemoryLimiterCloseIsIdempotent(t *testing.T) {
	limiter := NewMemoryLimiter(1, time.Second)
	limiter.Close()
	limiter.Close()
}

func TestRedisLimiterFixedWindow(t *testing.T) {
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer client.Close()
	limiter := NewRedisLimiter(client, 2, time.Minute)

	assert.True(t, allow(t, limiter, "198.51.100.1"))
	assert.True(t, allow(t, limiter, "198.51.100.1"))
	assert.False(t, allow(t, limiter, "198.51.100.1"))
	assert.True(t, allow(t, limiter, "198.51.100.2"), "keys are independent")

	ttl := s.TTL("forms:limit:198.51.100.1")
	assert.Equal(t, time.Minute, ttl)

	s.FastForward(time.Minute + time.Second)
	assert.True(t, allow(t, limiter, "198.51.100.1"), "window expired")
}

func TestRedisLimiterReportsBackendErrors(t *testing.T) {
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr(), MaxRetries: -1})
	defer client.Close()
	limiter := NewRedisLimiter(client, 1, time.Minute)
	s.Close()

	_, err := limiter.Allow(context.Background(), "198.51.100.3")
	assert.Error(t, err)
}

func TestRedisLimiterAlwaysLeavesTTL(t *testing.T) {
	s := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer client.Close()
	limiter := NewRedisLimiter(client, 3, time.Minute)

	for i := 0; i < 5; i++ {
		allow(t, limiter, "198.51.100.4")
		assert.Greater(t, s.TTL("forms:limit:198.51.100.4"), time.Duration(0), "hit %d", i+1)
	}

	// A counter left behind without an expiry is re-armed on the next hit.
	require.NoError(t, s.Set("forms:limit:198.51.100.5", "9"))
	assert.Equal(t, time.Duration(0), s.TTL("forms:limit:198.51.100.5"))
	assert.False(t, allow(t, limiter, "198.51.100.5"))
	assert.Equal(t, time.Minute, s.TTL("forms:limit:198.51.100.5"))

	s.FastForward(time.Minute + time.Second)
	assert.True(t, allow(t, limiter, "198.51.100.5"), "stale counter expires")
}
