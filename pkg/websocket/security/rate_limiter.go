package security

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// rateLimiter is a token bucket refilling capacity tokens per refillRate
type rateLimiter struct {
	limiter    *rate.Limiter
	capacity   int
	refillRate time.Duration
	mutex      sync.Mutex
}

func NewRateLimiter(capacity int, refillRate time.Duration) RateLimiter {
	rl := &rateLimiter{
		capacity:   capacity,
		refillRate: refillRate,
	}
	rl.limiter = rl.newLimiter()
	return rl
}

func (rl *rateLimiter) newLimiter() *rate.Limiter {
	if rl.capacity <= 0 || rl.refillRate <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	every := rl.refillRate / time.Duration(rl.capacity)
	return rate.NewLimiter(rate.Every(every), rl.capacity)
}

func (rl *rateLimiter) current() *rate.Limiter {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()
	return rl.limiter
}

func (rl *rateLimiter) Allow() bool {
	return rl.current().Allow()
}

func (rl *rateLimiter) Wait(ctx context.Context) error {
	return rl.current().Wait(ctx)
}

func (rl *rateLimiter) Reset() {
	rl.mutex.Lock()
	defer rl.mutex.Unlock()
	rl.limiter = rl.newLimiter()
}
