package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gogotex/gogotex/backend/doc-revisions/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func serve(r *gin.Engine, method, path string) int {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w.Code
}

func TestRateLimitMiddleware_AllowsUnderLimit(t *testing.T) {
	before := testutil.ToFloat64(metrics.RateLimitAllowed.WithLabelValues("memory"))

	r := gin.New()
	r.Use(RateLimitMiddleware(10, 2))
	r.GET("/ok", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	require.Equal(t, http.StatusOK, serve(r, "GET", "/ok"))
	require.Equal(t, http.StatusOK, serve(r, "GET", "/ok"))

	require.Equal(t, before+2, testutil.ToFloat64(metrics.RateLimitAllowed.WithLabelValues("memory")))
}

func TestRateLimitMiddleware_BlocksWhenExceeded(t *testing.T) {
	r := gin.New()
	r.Use(RateLimitMiddleware(0.5, 1))
	r.GET("/limited", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	require.Equal(t, http.StatusOK, serve(r, "GET", "/limited"))
	require.Equal(t, http.StatusTooManyRequests, serve(r, "GET", "/limited"))

	// one token is replenished after two seconds at 0.5 rps
	time.Sleep(2100 * time.Millisecond)
	require.Equal(t, http.StatusOK, serve(r, "GET", "/limited"))
}

func TestRateLimitMiddleware_UsesSubjectWhenPresent(t *testing.T) {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if u := c.Query("u"); u != "" {
			c.Set(ClaimsKey, map[string]interface{}{"sub": u})
		}
		c.Next()
	})
	r.Use(RateLimitMiddleware(0.5, 1))
	r.GET("/u", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	require.Equal(t, http.StatusOK, serve(r, "GET", "/u?u=user-123"))
	require.Equal(t, http.StatusTooManyRequests, serve(r, "GET", "/u?u=user-123"))
	// another subject has its own bucket
	require.Equal(t, http.StatusOK, serve(r, "GET", "/u?u=user-456"))
}

func TestRateLimitMiddleware_RoutesLimitedIndependently(t *testing.T) {
	r := gin.New()
	limit := RateLimitMiddleware(0.5, 1)
	r.POST("/api/documents/:key/restore", limit, func(c *gin.Context) { c.Status(http.StatusOK) })
	r.DELETE("/api/documents/:key/sections/:sectionKey/revisions/:revision", limit, func(c *gin.Context) { c.Status(http.StatusOK) })

	require.Equal(t, http.StatusOK, serve(r, "POST", "/api/documents/d1/restore"))
	require.Equal(t, http.StatusTooManyRequests, serve(r, "POST", "/api/documents/d2/restore"))
	require.Equal(t, http.StatusOK, serve(r, "DELETE", "/api/documents/d1/sections/s1/revisions/r1"))
}
