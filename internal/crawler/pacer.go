package crawler

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// DefaultDelay is the pause between consecutive fetches.
const DefaultDelay = time.Second

// Pacer decides how long to pause after each fetch.
type Pacer interface {
	Wait(ctx context.Context) error
}

type constantDelay struct {
	delay time.Duration
}

// ConstantDelay returns a Pacer that sleeps for d on every call.
// A non-positive d does not sleep at all.
func ConstantDelay(d time.Duration) Pacer {
	return constantDelay{delay: d}
}

// NoDelay returns a Pacer that never sleeps
func NoDelay() Pacer {
	return constantDelay{}
}

func (p constantDelay) Wait(ctx context.Context) error {
	if p.delay <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(p.delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

type intervalPacer struct {
	limiter *rate.Limiter
}

// IntervalPacer returns a Pacer that lets consecutive calls through at most
// once per d. Time spent fetching counts toward the interval, so a slow
// response is not followed by a full extra delay.
func IntervalPacer(d time.Duration) Pacer {
	return &intervalPacer{
		limiter: rate.NewLimiter(rate.Every(d), 1),
	}
}

func (p *intervalPacer) Wait(ctx context.Context) error {
	return p.limiter.Wait(ctx)
}
