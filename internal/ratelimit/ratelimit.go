// Package ratelimit is gin middleware for per-ip rate limiting.
//
// In-memory only, not shared between instances. It exists to slow down
// password guessing against the admin login, not to absorb floods.
package ratelimit

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// visitor tracks a single IPs limiter and last activity
type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
	// logged tracks whether we have already emitted the first-denial callback,
	// resets when the entry is evicted and re-created
	logged bool
}

// IPLimiter holds per-IP rate limiters with background eviction
type IPLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor

	perSecond rate.Limit
	burst     int

	// ttl controls how long an idle IP stays in the map before cleanup evicts it
	ttl time.Duration

	// OnFirstDenied is called once per visitor when they first get rate limited
	OnFirstDenied func(ip string)

	// OnDenied is called on every denied request
	OnDenied func(ip string)
}

type Option func(*IPLimiter)

// WithRate sets the refill rate and the bucket size.
// WithRate(10, 50) allows 50 requests at once, then refills at 10 per second.
func WithRate(perSecond float64, burst int) Option {
	return func(l *IPLimiter) {
		l.perSecond = rate.Limit(perSecond)
		l.burst = burst
	}
}

// PerMinute allows n requests per minute with a burst of n
func PerMinute(n int) Option {
	return WithRate(float64(n)/60, n)
}

// WithTTL controls how long an idle IP stays in the map before cleanup
func WithTTL(d time.Duration) Option {
	return func(l *IPLimiter) {
		l.ttl = d
	}
}

// WithOnFirstDenied sets a callback for the first denial per visitor, used for logging
func WithOnFirstDenied(fn func(ip string)) Option {
	return func(l *IPLimiter) {
		l.OnFirstDenied = fn
	}
}

// WithOnDenied sets a callback for every denied request, used for metrics
func WithOnDenied(fn func(ip string)) Option {
	return func(l *IPLimiter) {
		l.OnDenied = fn
	}
}

// New creates an IPLimiter and starts the cleanup goroutine, which stops when ctx is cancelled
func New(ctx context.Context, opts ...Option) *IPLimiter {
	l := &IPLimiter{
		visitors:  make(map[string]*visitor),
		perSecond: 1,
		burst:     10,
		ttl:       10 * time.Minute,
	}
	for _, o := range opts {
		o(l)
	}
	go l.cleanup(ctx)
	return l
}

// allow reports whether ip is within its limit, creating the visitor on first sight
func (l *IPLimiter) allow(ip string) bool {
	l.mu.Lock()
	v, exists := l.visitors[ip]
	if !exists {
		v = &visitor{
			limiter: rate.NewLimiter(l.perSecond, l.burst),
		}
		l.visitors[ip] = v
	}
	v.lastSeen = time.Now()
	allowed := v.limiter.Allow()

	first := !allowed && !v.logged
	if first {
		v.logged = true
	}
	// hooks may be slow, never call them under the lock
	l.mu.Unlock()

	if first && l.OnFirstDenied != nil {
		l.OnFirstDenied(ip)
	}
	if !allowed && l.OnDenied != nil {
		l.OnDenied(ip)
	}

	return allowed
}

// cleanup evicts visitors idle for longer than the TTL, checking every TTL/2
func (l *IPLimiter) cleanup(ctx context.Context) {
	ticker := time.NewTicker(l.ttl / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			l.mu.Lock()
			for ip, v := range l.visitors {
				if now.Sub(v.lastSeen) > l.ttl {
					delete(l.visitors, ip)
				}
			}
			l.mu.Unlock()
		}
	}
}

// Middleware rejects requests over the per-ip limit with 429
func (l *IPLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !l.allow(c.ClientIP()) {
			c.Header("Retry-After", "60")
			// no detail about limits or refill time
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}
