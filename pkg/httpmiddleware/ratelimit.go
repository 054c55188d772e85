package httpmiddleware

import (
	"context"
	"encoding/json"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

// RateLimitConfig configures the per-client sliding window limiter.
type RateLimitConfig struct {
	// Max requests allowed per window.
	Max int
	// Window length.
	Window time.Duration
	// KeyFunc derives the limiter key from a request. Defaults to the
	// client IP (X-Forwarded-For aware).
	KeyFunc func(*http.Request) string
}

// bucket holds request counts for two adjacent windows. The effective rate
// is the current count plus the previous count weighted by how much of the
// previous window still overlaps the sliding interval.
type bucket struct {
	prev      float64
	prevStart time.Time
	curr      float64
	currStart time.Time
}

type limiter struct {
	cfg RateLimitConfig

	mu      sync.Mutex
	buckets map[string]*bucket
}

func newLimiter(cfg RateLimitConfig) *limiter {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = clientIP
	}
	return &limiter{
		cfg:     cfg,
		buckets: make(map[string]*bucket),
	}
}

func (l *limiter) take(key string, now time.Time) (remaining int, resetAt time.Time, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	b, found := l.buckets[key]
	if !found {
		b = &bucket{currStart: now}
		l.buckets[key] = b
	}

	if now.Sub(b.currStart) >= l.cfg.Window {
		b.prev, b.prevStart = b.curr, b.currStart
		b.curr = 0
		b.currStart = now.Truncate(l.cfg.Window)
		if now.Sub(b.prevStart) >= 2*l.cfg.Window {
			b.prev = 0
		}
	}

	weight := 1.0 - now.Sub(b.currStart).Seconds()/l.cfg.Window.Seconds()
	if weight < 0 {
		weight = 0
	}
	effective := b.prev*weight + b.curr
	resetAt = b.currStart.Add(l.cfg.Window)

	if effective >= float64(l.cfg.Max) {
		return 0, resetAt, false
	}

	b.curr++
	remaining = int(float64(l.cfg.Max) - effective - 1)
	if remaining < 0 {
		remaining = 0
	}
	return remaining, resetAt, true
}

// sweep drops buckets that have been idle for two full windows.
func (l *limiter) sweep(now time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for key, b := range l.buckets {
		if now.Sub(b.currStart) >= 2*l.cfg.Window {
			delete(l.buckets, key)
		}
	}
}

// RateLimit enforces a per-key sliding window limit. Rejected requests get
// 429 with the standard JSON error body; every response carries
// X-RateLimit-Limit, X-RateLimit-Remaining, and X-RateLimit-Reset headers.
// Stale buckets are never evicted; prefer RateLimitWithCleanup for servers.
func RateLimit(cfg RateLimitConfig) Middleware {
	return newLimiter(cfg).middleware()
}

// RateLimitWithCleanup is RateLimit plus a background sweeper that evicts
// idle buckets every two windows until ctx is cancelled.
func RateLimitWithCleanup(ctx context.Context, cfg RateLimitConfig) Middleware {
	l := newLimiter(cfg)
	go func() {
		ticker := time.NewTicker(2 * l.cfg.Window)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				l.sweep(now)
			}
		}
	}()
	return l.middleware()
}

func (l *limiter) middleware() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			remaining, resetAt, ok := l.take(l.cfg.KeyFunc(r), time.Now())

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(l.cfg.Max))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))

			if !ok {
				retryAfter := math.Ceil(math.Max(time.Until(resetAt).Seconds(), 0))
				w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter)))
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_ = json.NewEncoder(w).Encode(map[string]any{
					"code":    http.StatusTooManyRequests,
					"message": "rate limit exceeded",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientIP prefers X-Forwarded-For (first hop), then X-Real-IP, then the
// peer address.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if i := strings.IndexByte(xff, ','); i > 0 {
			return strings.TrimSpace(xff[:i])
		}
		return strings.TrimSpace(xff)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
