package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// IPRateLimiter caps requests per client IP over a sliding window. It is
// in-memory only; a multi-instance deployment rate-limits per instance.
type IPRateLimiter struct {
	mu     sync.Mutex
	seen   map[string][]time.Time
	limit  int
	window time.Duration
}

func NewIPRateLimiter(limit int, window time.Duration) *IPRateLimiter {
	l := &IPRateLimiter{
		seen:   make(map[string][]time.Time),
		limit:  limit,
		window: window,
	}
	go l.sweep()
	return l
}

// Allow records a hit for ip and reports whether it is within the limit.
func (l *IPRateLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := time.Now()
	hits := pruneBefore(l.seen[ip], now.Add(-l.window))
	if len(hits) >= l.limit {
		l.seen[ip] = hits
		return false
	}
	l.seen[ip] = append(hits, now)
	return true
}

// sweep evicts IPs that have gone quiet so the map cannot grow unbounded.
func (l *IPRateLimiter) sweep() {
	tick := time.NewTicker(time.Minute)
	for range tick.C {
		cutoff := time.Now().Add(-l.window)
		l.mu.Lock()
		for ip, hits := range l.seen {
			if hits = pruneBefore(hits, cutoff); len(hits) == 0 {
				delete(l.seen, ip)
			} else {
				l.seen[ip] = hits
			}
		}
		l.mu.Unlock()
	}
}

func pruneBefore(hits []time.Time, cutoff time.Time) []time.Time {
	kept := hits[:0]
	for _, t := range hits {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	return kept
}

// RateLimit rejects requests over the per-IP limit with 429.
func RateLimit(limiter *IPRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !limiter.Allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
