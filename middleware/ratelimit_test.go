package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimiterEnforcesPerIPWindow(t *testing.T) {
	rl := newRateLimiter(2, time.Minute)

	ok, _ := rl.allow("10.0.0.1")
	require.True(t, ok)
	ok, _ = rl.allow("10.0.0.1")
	require.True(t, ok)

	ok, retryAfter := rl.allow("10.0.0.1")
	assert.False(t, ok)
	assert.Greater(t, retryAfter, time.Duration(0))

	// Another client has its own window.
	ok, _ = rl.allow("10.0.0.2")
	assert.True(t, ok)
}

func TestRateLimiterWindowResets(t *testing.T) {
	rl := newRateLimiter(1, 10*time.Millisecond)

	ok, _ := rl.allow("10.0.0.1")
	require.True(t, ok)
	ok, _ = rl.allow("10.0.0.1")
	require.False(t, ok)

	time.Sleep(20 * time.Millisecond)

	ok, _ = rl.allow("10.0.0.1")
	assert.True(t, ok)
}

func TestRateLimiterCleanupDropsExpiredWindows(t *testing.T) {
	rl := newRateLimiter(1, 10*time.Millisecond)
	rl.allow("10.0.0.1")

	time.Sleep(20 * time.Millisecond)
	rl.cleanup()

	rl.mu.Lock()
	defer rl.mu.Unlock()
	assert.Empty(t, rl.requests)
}
