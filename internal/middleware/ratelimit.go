package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Starting a simulation spins up a goroutine that runs for the whole
// integration, so creation is the one endpoint worth throttling. A fixed
// window counter per client IP is enough at that granularity — the cost
// being limited is run startup, not request parsing, and a burst at the
// window edge just means a few extra runs.

// windowCounter tracks one client's requests in the current window.
type windowCounter struct {
	windowStart time.Time
	count       int
}

// RateLimiter caps requests per client IP per fixed time window.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*windowCounter
	limit   int
	window  time.Duration
}

// NewRateLimiter creates a rate limiter allowing limit requests per window.
func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*windowCounter),
		limit:   limit,
		window:  window,
	}

	go rl.sweep()

	return rl
}

// sweep drops clients whose window has lapsed so the map does not grow
// with every IP ever seen.
func (rl *RateLimiter) sweep() {
	ticker := time.NewTicker(rl.window)
	defer ticker.Stop()

	for range ticker.C {
		now := time.Now()
		rl.mu.Lock()
		for ip, wc := range rl.clients {
			if now.Sub(wc.windowStart) >= rl.window {
				delete(rl.clients, ip)
			}
		}
		rl.mu.Unlock()
	}
}

// Allow reports whether a request from the given IP fits in the current
// window, and how long until the window resets when it does not.
func (rl *RateLimiter) Allow(ip string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	wc, ok := rl.clients[ip]
	if !ok || now.Sub(wc.windowStart) >= rl.window {
		rl.clients[ip] = &windowCounter{windowStart: now, count: 1}
		return true, 0
	}

	if wc.count >= rl.limit {
		return false, rl.window - now.Sub(wc.windowStart)
	}
	wc.count++
	return true, 0
}

// RateLimit middleware rejects requests beyond the per-IP budget with 429
// and a Retry-After hint.
func RateLimit(limit int, window time.Duration) gin.HandlerFunc {
	limiter := NewRateLimiter(limit, window)

	return func(c *gin.Context) {
		ok, retryIn := limiter.Allow(c.ClientIP())
		if !ok {
			seconds := int(retryIn.Seconds()) + 1
			c.Header("Retry-After", strconv.Itoa(seconds))
			c.JSON(http.StatusTooManyRequests, gin.H{
				"code":    http.StatusTooManyRequests,
				"message": "Simulation budget exceeded. Retry after " + strconv.Itoa(seconds) + "s.",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
