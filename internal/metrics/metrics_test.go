package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestMiddleware_LabelsByRouteTemplate(t *testing.T) {
	m := New()

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/api/content/:section", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/boom", func(c *gin.Context) {
		c.Status(http.StatusInternalServerError)
	})

	for _, path := range []string{"/api/content/hero", "/api/content/faq", "/boom", "/nope"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.reqTotal.WithLabelValues("GET", "/api/content/:section", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reqTotal.WithLabelValues("GET", "/boom", "500")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.reqTotal.WithLabelValues("GET", unmatchedRoute, "404")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errorsTotal.WithLabelValues("GET", "/boom")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.inflight))
}

func TestCounters(t *testing.T) {
	m := New()

	m.IncLogin(true)
	m.IncLogin(false)
	m.IncLogin(false)
	m.IncContentUpdate("hero")
	m.AddSessionsPurged(3)
	m.IncRateLimitDenied()
	m.SetBuildInfo("1.2.3")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.loginsTotal.WithLabelValues("success")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.loginsTotal.WithLabelValues("failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.contentUpdatesTotal.WithLabelValues("hero")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.sessionsPurgedTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ratelimitDeniedTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.buildInfo.WithLabelValues("1.2.3")))
}

func TestHandler_ServesExposition(t *testing.T) {
	m := New()
	m.IncLogin(true)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Body.String(), "admin_logins_total"))
}
