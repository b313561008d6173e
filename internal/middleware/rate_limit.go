package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/staybook/hotel-reservation-backend/internal/utils"
	"golang.org/x/time/rate"
)

const (
	// idleClientTTL is how long a client's limiter is kept without requests
	idleClientTTL = 10 * time.Minute
	// sweepInterval bounds how often reserve scans for idle clients
	sweepInterval = time.Minute
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter hands out one token bucket per client IP
type IPRateLimiter struct {
	mu        sync.Mutex
	clients   map[string]*clientLimiter
	lastSweep time.Time
	limit     rate.Limit
	burst     int
	now       func() time.Time
}

// NewIPRateLimiter allows requestsPerMinute per client with the given burst
func NewIPRateLimiter(requestsPerMinute, burst int) *IPRateLimiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 60
	}
	if burst <= 0 {
		burst = 1
	}
	return &IPRateLimiter{
		clients: make(map[string]*clientLimiter),
		limit:   rate.Limit(float64(requestsPerMinute) / 60),
		burst:   burst,
		now:     time.Now,
	}
}

// reserve takes a token for ip. It returns false and the wait until the next
// token when the bucket is empty.
func (l *IPRateLimiter) reserve(ip string) (bool, time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSweep) >= sweepInterval {
		l.sweep(now)
	}

	client, ok := l.clients[ip]
	if !ok {
		client = &clientLimiter{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[ip] = client
	}
	client.lastSeen = now

	r := client.limiter.ReserveN(now, 1)
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, delay
	}
	return true, 0
}

// sweep drops clients idle for longer than idleClientTTL. Caller holds mu.
func (l *IPRateLimiter) sweep(now time.Time) {
	for key, client := range l.clients {
		if now.Sub(client.lastSeen) > idleClientTTL {
			delete(l.clients, key)
		}
	}
	l.lastSweep = now
}

// RateLimit rejects clients that exceed the limiter with 429
func RateLimit(limiter *IPRateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, retryAfter := limiter.reserve(utils.GetRealIP(c))
		if !allowed {
			seconds := int(math.Ceil(retryAfter.Seconds()))
			c.Header("Retry-After", strconv.Itoa(seconds))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "rate_limited",
				"message":     "Too many requests, please try again later",
				"code":        "RATE_LIMIT_EXCEEDED",
				"retry_after": seconds,
			})
			return
		}
		c.Next()
	}
}
