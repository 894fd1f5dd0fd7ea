package server

import (
	"time"

	"golang.org/x/time/rate"

	"github.com/Zachkp/portfolio/internal/cache"
)

// visitorLimiter hands out one token bucket per client key. Buckets of
// visitors that went quiet are dropped by the cache janitor.
type visitorLimiter struct {
	rps     rate.Limit
	burst   int
	buckets *cache.TTL[string, *rate.Limiter]
}

func newVisitorLimiter(rps float64, burst int, idle time.Duration) *visitorLimiter {
	return &visitorLimiter{
		rps:     rate.Limit(rps),
		burst:   burst,
		buckets: cache.New[string, *rate.Limiter](idle, idle/2),
	}
}

// Allow consumes a token for key.
func (l *visitorLimiter) Allow(key string) bool {
	lim, _ := l.buckets.GetOrCreate(key, func() *rate.Limiter {
		return rate.NewLimiter(l.rps, l.burst)
	})
	return lim.Allow()
}

func (l *visitorLimiter) Stop() {
	l.buckets.Stop()
}
