package ratelimit

import (
	"net/http"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/time/rate"
)

type bucket struct {
	lim  *rate.Limiter
	seen time.Time
}

// Limiter keeps one token bucket per client IP. Idle buckets are swept on
// access, at most once per sweep interval.
type Limiter struct {
	mu        sync.Mutex
	buckets   map[string]*bucket
	perSecond rate.Limit
	burst     int
	ttl       time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func New(perSecond float64, burst int) *Limiter {
	if burst < 1 {
		burst = 1
	}
	return &Limiter{
		buckets:   make(map[string]*bucket),
		perSecond: rate.Limit(perSecond),
		burst:     burst,
		ttl:       5 * time.Minute,
		now:       time.Now,
	}
}

func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) > time.Minute {
		for k, b := range l.buckets {
			if now.Sub(b.seen) > l.ttl {
				delete(l.buckets, k)
			}
		}
		l.lastSweep = now
	}

	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{lim: rate.NewLimiter(l.perSecond, l.burst)}
		l.buckets[key] = b
	}
	b.seen = now
	return b.lim.AllowN(now, 1)
}

func (l *Limiter) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()
			if ip == "" {
				ip = "unknown"
			}
			if !l.Allow(ip) {
				return echo.NewHTTPError(http.StatusTooManyRequests, "Too many requests, please try again later")
			}
			return next(c)
		}
	}
}
