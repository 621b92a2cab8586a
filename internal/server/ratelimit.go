package server

import (
	"sync"

	"golang.org/x/time/rate"
)

// keyedLimiter hands out per-key token buckets, one per client IP.
type keyedLimiter struct {
	limiters sync.Map // map[string]*rate.Limiter
	rps      float64
	burst    int
}

func newKeyedLimiter(rps float64, burst int) *keyedLimiter {
	return &keyedLimiter{rps: rps, burst: burst}
}

func (l *keyedLimiter) allow(key string) bool {
	v, ok := l.limiters.Load(key)
	if !ok {
		v, _ = l.limiters.LoadOrStore(key, rate.NewLimiter(rate.Limit(l.rps), l.burst))
	}
	return v.(*rate.Limiter).Allow()
}
