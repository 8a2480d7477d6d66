package ratelimit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newTestLimiter creates a limiter with a short TTL; cancel stops the cleanup goroutine
func newTestLimiter(opts ...Option) (*IPLimiter, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	defaults := []Option{
		WithRate(10, 5),
		WithTTL(100 * time.Millisecond),
	}
	return New(ctx, append(defaults, opts...)...), cancel
}

func TestAllow_BurstThenReject(t *testing.T) {
	l, cancel := newTestLimiter(WithRate(1, 5))
	defer cancel()

	for i := 0; i < 5; i++ {
		require.True(t, l.allow("10.0.0.1"), "request %d within burst", i+1)
	}
	assert.False(t, l.allow("10.0.0.1"), "burst exhausted")
}

func TestAllow_SeparateIPsGetSeparateBuckets(t *testing.T) {
	l, cancel := newTestLimiter(WithRate(1, 3))
	defer cancel()

	for i := 0; i < 3; i++ {
		l.allow("10.0.0.1")
	}

	assert.False(t, l.allow("10.0.0.1"))
	assert.True(t, l.allow("10.0.0.2"))
}

func TestPerMinute(t *testing.T) {
	l, cancel := newTestLimiter(PerMinute(3))
	defer cancel()

	for i := 0; i < 3; i++ {
		require.True(t, l.allow("10.0.0.1"))
	}
	assert.False(t, l.allow("10.0.0.1"))
}

func TestCallbacks(t *testing.T) {
	var first, denied atomic.Int32

	l, cancel := newTestLimiter(
		WithRate(1, 2),
		WithOnFirstDenied(func(string) { first.Add(1) }),
		WithOnDenied(func(string) { denied.Add(1) }),
	)
	defer cancel()

	for i := 0; i < 12; i++ {
		l.allow("10.0.0.1")
	}

	assert.EqualValues(t, 1, first.Load())
	assert.EqualValues(t, 10, denied.Load())
}

func TestCleanup_EvictsIdleVisitors(t *testing.T) {
	l, cancel := newTestLimiter()
	defer cancel()

	l.allow("10.0.0.1")

	assert.Eventually(t, func() bool {
		l.mu.Lock()
		defer l.mu.Unlock()
		return len(l.visitors) == 0
	}, time.Second, 20*time.Millisecond)
}

func TestMiddleware_Returns429(t *testing.T) {
	l, cancel := newTestLimiter(WithRate(1, 1))
	defer cancel()

	r := gin.New()
	r.POST("/login", l.Middleware(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	first := httptest.NewRecorder()
	r.ServeHTTP(first, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusOK, first.Code)

	second := httptest.NewRecorder()
	r.ServeHTTP(second, httptest.NewRequest(http.MethodPost, "/login", nil))
	assert.Equal(t, http.StatusTooManyRequests, second.Code)
	assert.Equal(t, "60", second.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"error":"too many requests"}`, second.Body.String())
}
