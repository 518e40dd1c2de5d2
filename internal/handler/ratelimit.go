package handler

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

const limiterIdleTTL = 10 * time.Minute

type clientEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// clientLimiter keeps one token bucket per client IP.
type clientLimiter struct {
	limit rate.Limit
	burst int

	mu        sync.Mutex
	clients   map[string]*clientEntry
	lastSwept time.Time
	now       func() time.Time
}

// newClientLimiter returns nil when rps is not positive, which disables limiting.
func newClientLimiter(rps float64, burst int) *clientLimiter {
	if rps <= 0 {
		return nil
	}
	if burst < 1 {
		burst = max(1, int(rps))
	}
	return &clientLimiter{
		limit:   rate.Limit(rps),
		burst:   burst,
		clients: make(map[string]*clientEntry),
		now:     time.Now,
	}
}

func (l *clientLimiter) allow(client string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastSwept) > limiterIdleTTL {
		for key, entry := range l.clients {
			if now.Sub(entry.lastSeen) > limiterIdleTTL {
				delete(l.clients, key)
			}
		}
		l.lastSwept = now
	}

	entry, ok := l.clients[client]
	if !ok {
		entry = &clientEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.clients[client] = entry
	}
	entry.lastSeen = now
	return entry.limiter.AllowN(now, 1)
}

func (l *clientLimiter) middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if l != nil && !l.allow(c.ClientIP()) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		c.Next()
	}
}
