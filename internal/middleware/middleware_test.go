package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/opentracing/opentracing-go/mocktracer"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/therealutkarshpriyadarshi/vidshare/internal/logging"
	"github.com/therealutkarshpriyadarshi/vidshare/internal/metrics"
	"github.com/therealutkarshpriyadarshi/vidshare/pkg/models"
)

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RequestID())
	router.GET("/test", func(c *gin.Context) {
		c.String(http.StatusOK, GetRequestID(c))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
	generated := w.Header().Get(RequestIDHeader)
	assert.Len(t, generated, 36)
	assert.Equal(t, generated, w.Body.String())

	w = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	router.ServeHTTP(w, req)
	assert.Equal(t, "req-123", w.Header().Get(RequestIDHeader))
	assert.Equal(t, "req-123", w.Body.String())
}

func TestRequestLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, logging.Config{Level: "info", Format: "json"})

	router := gin.New()
	router.Use(RequestID(), RequestLogger(logger))
	router.GET("/videos", func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/videos?page=2", nil)
	req.Header.Set(RequestIDHeader, "req-42")
	router.ServeHTTP(w, req)

	out := buf.String()
	assert.Contains(t, out, `"path":"/videos?page=2"`)
	assert.Contains(t, out, `"status_code":204`)
	assert.Contains(t, out, `"request_id":"req-42"`)
}

func TestRecovery(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(Recovery(logging.Nop()))
	router.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t,
		`{"statusCode":500,"data":null,"message":"Internal server error","success":false}`,
		w.Body.String())
	assert.NotContains(t, w.Body.String(), "boom")
}

func TestMetricsMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(Metrics())
	router.GET("/videos/:videoId", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	counter := metrics.HTTPRequestsTotal.WithLabelValues("GET", "/videos/:videoId", "200")
	before := testutil.ToFloat64(counter)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/videos/abc", nil))

	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}

func TestTracing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	tracer := mocktracer.New()

	router := gin.New()
	router.Use(Tracing(tracer))
	router.GET("/playlists/:playlistId", func(c *gin.Context) {
		c.Status(http.StatusInternalServerError)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/playlists/abc", nil))

	spans := tracer.FinishedSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "GET /playlists/:playlistId", spans[0].OperationName)
	assert.Equal(t, uint16(500), spans[0].Tag("http.status_code"))
	assert.Equal(t, true, spans[0].Tag("error"))
}

func TestRateLimit_Local(t *testing.T) {
	gin.SetMode(gin.TestMode)

	limiter := NewLocalLimiter(2, time.Second, 2)

	router := gin.New()
	router.Use(RateLimit(limiter, logging.Nop()))
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	}

	before := testutil.ToFloat64(metrics.RateLimitedTotal)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), `"message":"Too many requests"`)
	assert.Equal(t, before+1, testutil.ToFloat64(metrics.RateLimitedTotal))
}

type keyRecorder struct {
	keys []string
	err  error
}

func (k *keyRecorder) Allow(_ context.Context, key string) (bool, error) {
	k.keys = append(k.keys, key)
	return true, k.err
}

func TestRateLimit_KeysByPrincipal(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rec := &keyRecorder{}
	router := gin.New()
	router.Use(func(c *gin.Context) {
		if c.GetHeader("X-Test-User") != "" {
			SetPrincipal(c, &models.User{ID: c.GetHeader("X-Test-User")})
		}
	}, RateLimit(rec, logging.Nop()))
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set("X-Test-User", userID)
	router.ServeHTTP(httptest.NewRecorder(), req)

	req = httptest.NewRequest(http.MethodGet, "/test", nil)
	req.RemoteAddr = "10.0.0.7:1234"
	router.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, []string{"user:" + userID, "ip:10.0.0.7"}, rec.keys)
}

func TestRateLimit_FailsOpen(t *testing.T) {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.Use(RateLimit(&keyRecorder{err: errors.New("redis down")}, logging.Nop()))
	router.GET("/test", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLocalLimiter_EvictIdle(t *testing.T) {
	limiter := NewLocalLimiter(10, time.Second, 0)

	allowed, err := limiter.Allow(context.Background(), "ip:1.2.3.4")
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Len(t, limiter.limiters, 1)

	limiter.evictIdle(time.Now())
	assert.Len(t, limiter.limiters, 1)

	limiter.evictIdle(time.Now().Add(limiter.idleTTL + time.Second))
	assert.Empty(t, limiter.limiters)
}
