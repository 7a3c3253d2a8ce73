package middleware

import (
	"context"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/therealutkarshpriyadarshi/vidshare/internal/apperr"
	"github.com/therealutkarshpriyadarshi/vidshare/internal/logging"
	"github.com/therealutkarshpriyadarshi/vidshare/internal/metrics"
	"github.com/therealutkarshpriyadarshi/vidshare/internal/response"
	"golang.org/x/time/rate"
)

// Limiter decides whether the caller identified by key may proceed
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// LocalLimiter is an in-process token bucket per key. Counters are not
// shared between replicas; use cache.RateLimiter for that.
type LocalLimiter struct {
	limiters map[string]*localEntry
	mu       sync.Mutex
	rate     rate.Limit
	burst    int
	idleTTL  time.Duration
}

type localEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLocalLimiter allows requests per window with the given burst
func NewLocalLimiter(requests int, window time.Duration, burst int) *LocalLimiter {
	if burst <= 0 {
		burst = requests
	}
	return &LocalLimiter{
		limiters: make(map[string]*localEntry),
		rate:     rate.Limit(float64(requests) / window.Seconds()),
		burst:    burst,
		idleTTL:  10 * time.Minute,
	}
}

func (l *LocalLimiter) Allow(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	entry, exists := l.limiters[key]
	if !exists {
		entry = &localEntry{limiter: rate.NewLimiter(l.rate, l.burst)}
		l.limiters[key] = entry
	}
	entry.lastSeen = time.Now()
	l.mu.Unlock()

	return entry.limiter.Allow(), nil
}

// Cleanup drops limiters idle for longer than the idle TTL until ctx is done
func (l *LocalLimiter) Cleanup(ctx context.Context) {
	ticker := time.NewTicker(l.idleTTL)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			l.evictIdle(now)
		}
	}
}

func (l *LocalLimiter) evictIdle(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for key, entry := range l.limiters {
		if now.Sub(entry.lastSeen) > l.idleTTL {
			delete(l.limiters, key)
		}
	}
}

// RateLimit limits requests per authenticated user, or per client IP when the
// request has no principal. Limiter errors let the request through.
func RateLimit(limiter Limiter, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ip:" + c.ClientIP()
		if user, ok := GetPrincipal(c); ok {
			key = "user:" + user.ID
		}

		allowed, err := limiter.Allow(c.Request.Context(), key)
		if err != nil {
			logger.WithError(err).WithField("key", key).Warn("rate limiter unavailable")
			c.Next()
			return
		}

		if !allowed {
			metrics.RecordRateLimited()
			response.Error(c, apperr.New(apperr.KindRateLimited, "Too many requests"))
			return
		}

		c.Next()
	}
}
