package handlers

import (
	"context"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"feuerwehr-web/pkg/config"
	"feuerwehr-web/pkg/i18n"
	"feuerwehr-web/pkg/logger"
	"feuerwehr-web/pkg/response"
	"feuerwehr-web/pkg/schedule"
)

const limiterIdle = 10 * time.Minute

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPLimiter keeps one token bucket per client IP for the public write
// endpoints. Idle buckets are swept periodically.
type IPLimiter struct {
	mu       sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	now      func() time.Time
	sweeper  *schedule.Task
}

// NewIPLimiter allows perMinute requests per IP with the given burst. A
// non-positive perMinute disables limiting.
func NewIPLimiter(cfg config.RateLimitConfig) *IPLimiter {
	l := &IPLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Inf,
		burst:    cfg.Burst,
		now:      time.Now,
	}
	if cfg.PerMinute > 0 {
		l.limit = rate.Every(time.Minute / time.Duration(cfg.PerMinute))
	}
	if l.burst < 1 {
		l.burst = 1
	}
	l.sweeper = schedule.NewTask("rate-limit-sweep", time.Minute, func(context.Context) {
		l.sweep()
	})
	return l
}

// Start begins sweeping idle visitors until ctx ends or Stop is called.
func (l *IPLimiter) Start(ctx context.Context) { l.sweeper.Start(ctx) }

func (l *IPLimiter) Stop() { l.sweeper.Stop() }

// Allow takes a token for ip.
func (l *IPLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	v, ok := l.visitors[ip]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = now
	return v.limiter.AllowN(now, 1)
}

func (l *IPLimiter) sweep() {
	l.mu.Lock()
	defer l.mu.Unlock()
	cutoff := l.now().Add(-limiterIdle)
	for ip, v := range l.visitors {
		if v.lastSeen.Before(cutoff) {
			delete(l.visitors, ip)
		}
	}
}

func (l *IPLimiter) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.visitors)
}

// Middleware answers 429 once the client IP has used up its bucket.
func (l *IPLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !l.Allow(ip) {
			logger.Warn("rate limited", zap.String("ip", ip), zap.String("path", c.FullPath()))
			response.TooManyRequests(c, i18n.T(locale(c), "validation.rate_limited"))
			return
		}
		c.Next()
	}
}
