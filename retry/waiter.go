// Copyright 2026 The blaze Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"time"

	"github.com/malwarebo/blaze/request"
)

// A Waiter specifies how long to wait before retrying a failed HTTP
// request attempt.
//
// Implementations of Waiter must be safe for concurrent use by
// multiple goroutines.
//
// The client will not call the Waiter on a retry policy if the policy
// Decider returned false.
type Waiter interface {
	Wait(e *request.Execution) time.Duration
}

// DefaultWaiter is the default retry wait policy: exponential backoff
// with an initial delay of 100 milliseconds, a multiplier of 2, and a
// delay ceiling of 2 seconds.
var DefaultWaiter = NewExpWaiter(100*time.Millisecond, 2.0, 2*time.Second)

// NewFixedWaiter constructs a Waiter that always returns the given
// duration.
//
// Use NewFixedWaiter to obtain a constant retry backoff.
func NewFixedWaiter(d time.Duration) Waiter {
	return fixedWaiter(d)
}

type fixedWaiter time.Duration

func (w fixedWaiter) Wait(_ *request.Execution) time.Duration {
	return time.Duration(w)
}

// NewExpWaiter constructs a Waiter implementing a deterministic
// exponential backoff formula.
//
// The wait before retrying attempt k (1-based) is:
//
//	min(initial × multiplier^(k-1), max)
//
// Initial must be positive, multiplier must be at least 1, and max
// must be at least initial.
func NewExpWaiter(initial time.Duration, multiplier float64, max time.Duration) Waiter {
	if initial < 1 {
		panic("blaze/retry: initial must be positive")
	}
	if multiplier < 1.0 {
		panic("blaze/retry: multiplier must be at least 1")
	}
	if max < initial {
		panic("blaze/retry: max must be at least initial")
	}
	return &expWaiter{
		initial:    initial,
		multiplier: multiplier,
		max:        max,
	}
}

type expWaiter struct {
	initial    time.Duration
	multiplier float64
	max        time.Duration
}

func (w *expWaiter) Wait(e *request.Execution) time.Duration {
	return Backoff(w.initial, w.multiplier, w.max, e.Attempt+1)
}

// Backoff computes the delay after attempt k (1-based) under the
// exponential formula min(initial × multiplier^(k-1), max). It is
// exported so that custom policies can reuse the clamping behavior,
// which saturates rather than overflowing for large k.
func Backoff(initial time.Duration, multiplier float64, max time.Duration, attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	d := float64(initial)
	for i := 1; i < attempt; i++ {
		d *= multiplier
		if d >= float64(max) {
			return max
		}
	}
	if d > float64(max) {
		return max
	}
	return time.Duration(d)
}
