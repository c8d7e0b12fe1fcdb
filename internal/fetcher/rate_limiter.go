package fetcher

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// RateLimiter bounds in-flight requests and requests per minute, per host.
// Zero values disable the respective limit.
type RateLimiter struct {
	maxConcurrent int
	rpm           int
	hosts         map[string]*hostLimiter
	mu            sync.Mutex
}

type hostLimiter struct {
	sem     *semaphore.Weighted
	limiter *rate.Limiter
}

func NewRateLimiter(maxConcurrent, rpm int) *RateLimiter {
	return &RateLimiter{
		maxConcurrent: maxConcurrent,
		rpm:           rpm,
		hosts:         make(map[string]*hostLimiter),
	}
}

func (rl *RateLimiter) forHost(host string) *hostLimiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	limiter, exists := rl.hosts[host]
	if !exists {
		limiter = &hostLimiter{}
		if rl.maxConcurrent > 0 {
			limiter.sem = semaphore.NewWeighted(int64(rl.maxConcurrent))
		}
		if rl.rpm > 0 {
			limiter.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(rl.rpm)), 1)
		}
		rl.hosts[host] = limiter
	}
	return limiter
}

// Acquire blocks until a request to host may start. The returned release must
// be called once the request is finished.
func (rl *RateLimiter) Acquire(ctx context.Context, host string) (func(), error) {
	limiter := rl.forHost(host)

	if limiter.sem != nil {
		if err := limiter.sem.Acquire(ctx, 1); err != nil {
			return nil, err
		}
	}
	release := func() {
		if limiter.sem != nil {
			limiter.sem.Release(1)
		}
	}

	if limiter.limiter != nil {
		if err := limiter.limiter.Wait(ctx); err != nil {
			release()
			return nil, err
		}
	}

	return release, nil
}
