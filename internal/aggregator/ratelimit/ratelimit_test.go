// Copyright (c) 2026 Tosho. All rights reserved.
// Author: khoa.nv.dev@gmail.com

// White-box tests: the clock and sleep hooks are swapped for deterministic
// fakes so window arithmetic is tested without real waiting.
package ratelimit

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock drives the limiter deterministically: sleeping advances time.
type fakeClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (clock *fakeClock) Now() time.Time {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return clock.now
}

func (clock *fakeClock) Sleep(ctx context.Context, d time.Duration) error {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	clock.sleeps = append(clock.sleeps, d)
	clock.now = clock.now.Add(d)
	return nil
}

func newTestLimiter(rps, rpm int, clock *fakeClock) *Limiter {
	limiter := New(rps, rpm)
	limiter.now = clock.Now
	limiter.sleep = clock.Sleep
	limiter.secondStart = clock.Now()
	limiter.minuteStart = clock.Now()
	return limiter
}

/*
TestWaitIfNeeded_UnderCap verifies that requests below both ceilings pass
through without any delay.
*/
func TestWaitIfNeeded_UnderCap(t *testing.T) {
	clock := newFakeClock()
	limiter := newTestLimiter(4, 80, clock)

	for i := 0; i < 4; i++ {
		require.NoError(t, limiter.WaitIfNeeded(context.Background()))
	}

	assert.Empty(t, clock.sleeps, "no request under the cap should wait")
}

/*
TestWaitIfNeeded_SecondCeiling verifies the (N+1)th request in a one-second
window is delayed until the window rolls over.
*/
func TestWaitIfNeeded_SecondCeiling(t *testing.T) {
	clock := newFakeClock()
	limiter := newTestLimiter(2, 80, clock)

	require.NoError(t, limiter.WaitIfNeeded(context.Background()))
	require.NoError(t, limiter.WaitIfNeeded(context.Background()))

	// Third call hits the per-second ceiling and must suspend for the
	// remainder of the window (the full second, since no time has passed).
	require.NoError(t, limiter.WaitIfNeeded(context.Background()))

	require.Len(t, clock.sleeps, 1)
	assert.Equal(t, time.Second, clock.sleeps[0])
}

/*
TestWaitIfNeeded_MinuteCeiling verifies the per-minute window is enforced
independently of the per-second one.
*/
func TestWaitIfNeeded_MinuteCeiling(t *testing.T) {
	clock := newFakeClock()
	limiter := newTestLimiter(100, 3, clock)

	for i := 0; i < 3; i++ {
		require.NoError(t, limiter.WaitIfNeeded(context.Background()))
	}

	require.NoError(t, limiter.WaitIfNeeded(context.Background()))

	require.NotEmpty(t, clock.sleeps)
	assert.Equal(t, time.Minute, clock.sleeps[0], "fourth request should wait out the minute window")
}

/*
TestWaitIfNeeded_WindowRollover verifies counters reset once a window has
fully elapsed, measured from the previous reset.
*/
func TestWaitIfNeeded_WindowRollover(t *testing.T) {
	clock := newFakeClock()
	limiter := newTestLimiter(2, 80, clock)

	require.NoError(t, limiter.WaitIfNeeded(context.Background()))
	require.NoError(t, limiter.WaitIfNeeded(context.Background()))

	// Manually advance past the window; the next request needs no sleep.
	clock.mu.Lock()
	clock.now = clock.now.Add(1100 * time.Millisecond)
	clock.mu.Unlock()

	require.NoError(t, limiter.WaitIfNeeded(context.Background()))
	assert.Empty(t, clock.sleeps)
}

/*
TestWaitIfNeeded_Concurrent hammers one limiter from many goroutines and
asserts no one-second window ever admits more than the cap.
*/
func TestWaitIfNeeded_Concurrent(t *testing.T) {
	const capPerSecond = 4
	clock := newFakeClock()
	limiter := newTestLimiter(capPerSecond, 10_000, clock)

	// Track admissions per window-start timestamp.
	admissions := make(map[time.Time]int)
	var admissionsMu sync.Mutex

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, limiter.WaitIfNeeded(context.Background()))

			limiter.mu.Lock()
			windowStart := limiter.secondStart
			count := limiter.secondCount
			limiter.mu.Unlock()

			assert.LessOrEqual(t, count, capPerSecond)

			admissionsMu.Lock()
			if count > admissions[windowStart] {
				admissions[windowStart] = count
			}
			admissionsMu.Unlock()
		}()
	}
	wg.Wait()

	for windowStart, peak := range admissions {
		assert.LessOrEqual(t, peak, capPerSecond, "window starting at %v exceeded the cap", windowStart)
	}
}

/*
TestWaitIfNeeded_ContextCancelled verifies a cancelled context aborts the
wait instead of blocking the worker.
*/
func TestWaitIfNeeded_ContextCancelled(t *testing.T) {
	clock := newFakeClock()
	limiter := newTestLimiter(1, 80, clock)

	require.NoError(t, limiter.WaitIfNeeded(context.Background()))

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()

	err := limiter.WaitIfNeeded(cancelled)
	assert.ErrorIs(t, err, context.Canceled)
}

/*
TestNew_Defaults verifies non-positive caps fall back to the Shikimori
defaults instead of producing a limiter that admits nothing.
*/
func TestNew_Defaults(t *testing.T) {
	limiter := New(0, -1)

	assert.Equal(t, 4, limiter.maxPerSecond)
	assert.Equal(t, 80, limiter.maxPerMinute)
}
