package http

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yanqian/technician-matching/internal/infra/config"
)

func errorHandlingMiddleware(logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		httpErr := asHTTPError(c.Errors.Last().Err)
		message := httpErr.Message
		if message == "" {
			message = httpErr.Error()
		}

		if httpErr.Status >= http.StatusInternalServerError {
			logger.Error("request failed", "code", httpErr.Code, "status", httpErr.Status, "path", c.Request.URL.Path, "error", httpErr.Err)
		} else {
			logger.Warn("request failed", "code", httpErr.Code, "status", httpErr.Status, "path", c.Request.URL.Path, "error", httpErr.Err)
		}

		c.JSON(httpErr.Status, gin.H{
			"error": gin.H{
				"code":    httpErr.Code,
				"message": message,
			},
		})
	}
}

// rateLimitMiddleware throttles each client per route, so a burst against the
// ranking endpoint does not lock the same client out of the catalog routes.
func rateLimitMiddleware(cfg config.RateLimitConfig, logger *slog.Logger) gin.HandlerFunc {
	if !cfg.Enabled || cfg.RequestsPerMinute <= 0 {
		return func(c *gin.Context) { c.Next() }
	}

	limiter := newRateLimiter(cfg, time.Now)
	return func(c *gin.Context) {
		key := rateLimitKey(c.ClientIP(), c.FullPath())
		wait, ok := limiter.allow(key)
		if ok {
			c.Next()
			return
		}
		logger.Warn("rate limit exceeded", "ip", c.ClientIP(), "route", c.FullPath(), "retry_after", wait)
		c.Header("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
		abortWithError(c, NewHTTPError(http.StatusTooManyRequests, "rate_limit_exceeded", "too many requests", nil))
	}
}

func rateLimitKey(ip, route string) string {
	if route == "" {
		route = "*"
	}
	return ip + " " + route
}

const defaultIdleTTL = 5 * time.Minute

// rateLimiter holds a token bucket per key. Buckets idle longer than idleTTL are dropped.
type rateLimiter struct {
	buckets     map[string]*bucket
	mu          sync.Mutex
	refillPerNs float64
	burst       float64
	idleTTL     time.Duration
	lastSweep   time.Time
	now         func() time.Time
}

type bucket struct {
	tokens   float64
	lastSeen time.Time
}

func newRateLimiter(cfg config.RateLimitConfig, now func() time.Time) *rateLimiter {
	burst := max(cfg.Burst, 1)
	ttl := cfg.IdleTTL
	if ttl <= 0 {
		ttl = defaultIdleTTL
	}
	return &rateLimiter{
		buckets:     make(map[string]*bucket),
		refillPerNs: float64(cfg.RequestsPerMinute) / float64(time.Minute),
		burst:       float64(burst),
		idleTTL:     ttl,
		lastSweep:   now(),
		now:         now,
	}
}

// allow takes a token for key. When the bucket is empty it returns the time
// until the next token.
func (l *rateLimiter) allow(key string) (time.Duration, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	if now.Sub(l.lastSweep) >= l.idleTTL {
		l.sweepLocked(now)
	}

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{tokens: l.burst}
		l.buckets[key] = b
	} else if elapsed := now.Sub(b.lastSeen); elapsed > 0 {
		b.tokens = math.Min(l.burst, b.tokens+float64(elapsed)*l.refillPerNs)
	}
	b.lastSeen = now

	if b.tokens < 1 {
		return time.Duration((1 - b.tokens) / l.refillPerNs), false
	}
	b.tokens--
	return 0, true
}

func (l *rateLimiter) sweepLocked(now time.Time) {
	for key, b := range l.buckets {
		if now.Sub(b.lastSeen) > l.idleTTL {
			delete(l.buckets, key)
		}
	}
	l.lastSweep = now
}
