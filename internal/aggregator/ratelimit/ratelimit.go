// Copyright (c) 2026 Tosho. All rights reserved.
// Author: khoa.nv.dev@gmail.com

/*
Package ratelimit implements the courtesy throttle applied to outbound
requests against external catalog sources.

Unlike the token-bucket limiter guarding inbound traffic (see
platform/middleware), external sources publish their limits as two flat
ceilings — so many requests per second AND so many per minute — and this
limiter mirrors that shape with two independent sliding counters. Each window
is measured from the wall-clock time of its last reset, not from calendar
boundaries.

State is in-memory only and resets on restart. That is acceptable: this is a
courtesy throttle, not a hard SLA.
*/
package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Limiter bounds outbound request rate with per-second and per-minute caps.
//
// # Concurrency
//
// One Limiter instance is shared by every workflow importing from the same
// source. The check-and-increment is a single critical section, so concurrent
// callers can never push a window over its cap.
type Limiter struct {
	mu sync.Mutex

	maxPerSecond int
	maxPerMinute int

	secondCount int
	minuteCount int
	secondStart time.Time
	minuteStart time.Time

	// now and sleep are swappable for deterministic tests.
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// New constructs a [Limiter] with the given window caps. Non-positive caps
// fall back to the defaults used against Shikimori (4 rps, 80 rpm).
func New(maxPerSecond, maxPerMinute int) *Limiter {
	if maxPerSecond <= 0 {
		maxPerSecond = 4
	}
	if maxPerMinute <= 0 {
		maxPerMinute = 80
	}

	now := time.Now()
	return &Limiter{
		maxPerSecond: maxPerSecond,
		maxPerMinute: maxPerMinute,
		secondStart:  now,
		minuteStart:  now,
		now:          time.Now,
		sleep:        sleepContext,
	}
}

// WaitIfNeeded blocks until issuing another request would not exceed either
// cap, then records the request. It returns early with the context's error
// if the caller's deadline expires while waiting.
func (limiter *Limiter) WaitIfNeeded(ctx context.Context) error {
	for {
		limiter.mu.Lock()

		now := limiter.now()

		// Roll windows that have fully elapsed since their last reset.
		if now.Sub(limiter.secondStart) >= time.Second {
			limiter.secondCount = 0
			limiter.secondStart = now
		}
		if now.Sub(limiter.minuteStart) >= time.Minute {
			limiter.minuteCount = 0
			limiter.minuteStart = now
		}

		// Both ceilings must have headroom before the request is admitted.
		if limiter.secondCount < limiter.maxPerSecond && limiter.minuteCount < limiter.maxPerMinute {
			limiter.secondCount++
			limiter.minuteCount++
			limiter.mu.Unlock()
			return nil
		}

		// Suspend for the remainder of whichever window is saturated,
		// then re-check: another caller may have consumed the freed slot.
		wait := time.Second - now.Sub(limiter.secondStart)
		if limiter.minuteCount >= limiter.maxPerMinute {
			wait = time.Minute - now.Sub(limiter.minuteStart)
		}
		limiter.mu.Unlock()

		if wait <= 0 {
			continue
		}

		if err := limiter.sleep(ctx, wait); err != nil {
			return err
		}
	}
}

// sleepContext pauses for d without busy-spinning, honoring ctx cancellation.
func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
