package middleware

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"
)

// RateLimitInfo is the current limiter state for one key.
type RateLimitInfo struct {
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RateLimiter decides whether a request identified by key may proceed.
type RateLimiter interface {
	Allow(key string) (bool, RateLimitInfo)
}

// tokenBucket tracks the remaining budget of one client within the window.
type tokenBucket struct {
	remaining int
	resetAt   time.Time
}

// TokenBucketLimiter is an in-memory fixed-window limiter keyed by client.
// State is process-local; a multi-replica deployment needs a shared store in
// front instead.
type TokenBucketLimiter struct {
	limit  int
	window time.Duration

	mu      sync.Mutex
	buckets map[string]*tokenBucket
	now     func() time.Time
}

// NewTokenBucketLimiter allows limit requests per key per window.
func NewTokenBucketLimiter(limit int, window time.Duration) *TokenBucketLimiter {
	return &TokenBucketLimiter{
		limit:   limit,
		window:  window,
		buckets: make(map[string]*tokenBucket),
		now:     time.Now,
	}
}

// Allow consumes one token for key.
func (l *TokenBucketLimiter) Allow(key string) (bool, RateLimitInfo) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	b, ok := l.buckets[key]
	if !ok || now.After(b.resetAt) {
		b = &tokenBucket{remaining: l.limit, resetAt: now.Add(l.window)}
		l.buckets[key] = b
	}

	info := RateLimitInfo{Limit: l.limit, ResetAt: b.resetAt}
	if b.remaining <= 0 {
		info.Remaining = 0
		return false, info
	}
	b.remaining--
	info.Remaining = b.remaining
	return true, info
}

// clientKey extracts the client IP, falling back to the full RemoteAddr.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

// RateLimit returns middleware enforcing limiter per client IP.  Rejected
// requests receive 429 with standard X-RateLimit headers.
func RateLimit(limiter RateLimiter) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, info := limiter.Allow(clientKey(r))

			h := w.Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetAt.Unix(), 10))

			if !allowed {
				h.Set("Retry-After", strconv.Itoa(int(time.Until(info.ResetAt).Seconds())+1))
				h.Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"code":"COMMON_005","message":"too many requests"}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
