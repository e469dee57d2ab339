package middleware

import (
	"net/http"
	"sync"

	"golang.org/x/time/rate"
)

// IPRateLimiter manages rate limiting per client IP at the HTTP boundary.
// This is separate from the per-peer in-room message limiter: it guards
// upgrade storms and pairing-endpoint abuse before any relay state exists.
type IPRateLimiter struct {
	limiters map[string]*rate.Limiter
	mu       sync.Mutex
	rate     rate.Limit
	burst    int
	maxKeys  int
}

// NewIPRateLimiter creates a new IP-based rate limiter.
// r: requests per second, b: burst size
func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	return &IPRateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     r,
		burst:    b,
		maxKeys:  10000,
	}
}

// Allow checks if a request from the given IP is allowed.
func (l *IPRateLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	// Crude bound on tracked IPs: reset the table rather than leak
	if len(l.limiters) > l.maxKeys {
		l.limiters = make(map[string]*rate.Limiter)
	}

	limiter, exists := l.limiters[ip]
	if !exists {
		limiter = rate.NewLimiter(l.rate, l.burst)
		l.limiters[ip] = limiter
	}
	return limiter.Allow()
}

// getIP extracts the client IP from the request
func getIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return forwarded
	}
	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}
	return r.RemoteAddr
}

// RateLimitFunc wraps a HandlerFunc with per-IP rate limiting
func RateLimitFunc(limiter *IPRateLimiter, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !limiter.Allow(getIP(r)) {
			http.Error(w, "Too Many Requests", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	}
}

// SetMaxKeys overrides the tracked-IP bound (used in tests).
func (l *IPRateLimiter) SetMaxKeys(n int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.maxKeys = n
}

// Rate returns the configured per-second limit.
func (l *IPRateLimiter) Rate() rate.Limit { return l.rate }

// Burst returns the configured burst size.
func (l *IPRateLimiter) Burst() int { return l.burst }
