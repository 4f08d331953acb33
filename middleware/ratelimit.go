package middleware

import (
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	defaultRateLimit  = 100
	defaultRateWindow = time.Minute
)

type rateLimiter struct {
	requests map[string]*clientWindow
	mu       sync.Mutex
	limit    int
	window   time.Duration
}

type clientWindow struct {
	count     int
	resetTime time.Time
}

func newRateLimiter(limit int, window time.Duration) *rateLimiter {
	return &rateLimiter{
		requests: make(map[string]*clientWindow),
		limit:    limit,
		window:   window,
	}
}

// allow counts the request against ip's fixed window. When the limit is hit
// it reports false and the time left until the window resets.
func (rl *rateLimiter) allow(ip string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	client, exists := rl.requests[ip]
	if !exists || now.After(client.resetTime) {
		rl.requests[ip] = &clientWindow{count: 1, resetTime: now.Add(rl.window)}
		return true, 0
	}

	if client.count >= rl.limit {
		return false, client.resetTime.Sub(now)
	}

	client.count++
	return true, 0
}

func (rl *rateLimiter) cleanup() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	for ip, client := range rl.requests {
		if now.After(client.resetTime) {
			delete(rl.requests, ip)
		}
	}
}

var (
	limiter     *rateLimiter
	limiterOnce sync.Once
)

// RateLimiter applies a per-IP fixed-window limit. Configured through
// RATE_LIMIT_REQUESTS and RATE_LIMIT_WINDOW (default 100 per minute);
// initialized on first use so .env has been loaded by then.
func RateLimiter() gin.HandlerFunc {
	limiterOnce.Do(func() {
		limit := defaultRateLimit
		if v, err := strconv.Atoi(os.Getenv("RATE_LIMIT_REQUESTS")); err == nil && v > 0 {
			limit = v
		}
		window := defaultRateWindow
		if d, err := time.ParseDuration(os.Getenv("RATE_LIMIT_WINDOW")); err == nil && d > 0 {
			window = d
		}
		limiter = newRateLimiter(limit, window)

		go func() {
			ticker := time.NewTicker(window)
			defer ticker.Stop()
			for range ticker.C {
				limiter.cleanup()
			}
		}()
	})

	return func(c *gin.Context) {
		ok, retryAfter := limiter.allow(c.ClientIP())
		if !ok {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"retry_after": retryAfter.Seconds(),
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
