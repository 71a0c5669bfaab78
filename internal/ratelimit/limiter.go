package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	limiter "github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// Limiter decides whether an event for key fits within max events per window.
type Limiter interface {
	Allow(ctx context.Context, key string, window time.Duration, max int) (allowed bool, remaining int, reset time.Time, err error)
}

// FixedWindow is a fixed-window Limiter on top of a ulule limiter store. A
// nil Store selects an in-process memory store.
type FixedWindow struct {
	Store limiter.Store

	mu       sync.Mutex
	limiters map[limiter.Rate]*limiter.Limiter
}

// NewFixedWindow constructs a FixedWindow over store.
func NewFixedWindow(store limiter.Store) *FixedWindow {
	if store == nil {
		store = memory.NewStore()
	}
	return &FixedWindow{Store: store}
}

// Allow implements Limiter.
func (f *FixedWindow) Allow(ctx context.Context, key string, window time.Duration, max int) (bool, int, time.Time, error) {
	if max <= 0 || window <= 0 {
		return true, max, time.Now().Add(window), nil
	}
	lim := f.limiterFor(limiter.Rate{Period: window, Limit: int64(max)})
	res, err := lim.Get(ctx, key)
	if err != nil {
		return false, 0, time.Now().Add(window), fmt.Errorf("ratelimit: %w", err)
	}
	return !res.Reached, int(res.Remaining), time.Unix(res.Reset, 0), nil
}

func (f *FixedWindow) limiterFor(rate limiter.Rate) *limiter.Limiter {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Store == nil {
		f.Store = memory.NewStore()
	}
	if f.limiters == nil {
		f.limiters = make(map[limiter.Rate]*limiter.Limiter)
	}
	lim, ok := f.limiters[rate]
	if !ok {
		lim = limiter.New(f.Store, rate)
		f.limiters[rate] = lim
	}
	return lim
}
