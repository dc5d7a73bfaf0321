// Copyright 2026 The blaze Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package retry

import (
	"time"

	"github.com/malwarebo/blaze/request"
)

// A Policy controls if and how retries are done during a logical send.
// After every attempt, the Policy decides whether a retry should be
// done and, if so, how long the wait period should be before retrying
// the attempt.
//
// Implementations of Policy must be safe for concurrent use by
// multiple goroutines.
//
// A Policy is composed of the Decider and Waiter interfaces. While you
// can implement Policy yourself, it may be more convenient to use the
// built-in policies DefaultPolicy and Never, to describe one with the
// Exponential configuration structure, or to construct one from
// existing Decider and Waiter implementations using NewPolicy.
type Policy interface {
	Decider
	Waiter
}

// DefaultPolicy is a general-purpose retry policy suitable for common
// use cases. It is a composition of DefaultDecider for retry decisions
// and DefaultWaiter for wait time calculations.
var DefaultPolicy Policy = policy{DefaultDecider, DefaultWaiter}

// Never is a policy that never retries. It is useful if you want the
// other features of the client but do not want retries.
var Never Policy = policy{Times(0), DefaultWaiter}

type policy struct {
	decider Decider
	waiter  Waiter
}

// NewPolicy composes a Decider and a Waiter into a retry Policy.
func NewPolicy(d Decider, w Waiter) Policy {
	return policy{decider: d, waiter: w}
}

func (p policy) Decide(e *request.Execution) bool {
	return p.decider.Decide(e)
}

func (p policy) Wait(e *request.Execution) time.Duration {
	return p.waiter.Wait(e)
}

// Exponential is a declarative retry policy: a cap on total attempts,
// a set of retryable status codes, and an exponential backoff
// schedule. Its zero value retries nothing; fill in MaxAttempts and
// the backoff fields to activate it.
//
// A retry is done iff attempts so far < MaxAttempts AND (the response
// status code is in RetryableStatus OR the attempt failed with a
// retryable error kind, i.e. network or timeout). Any other failure
// kind is terminal even if attempts remain.
type Exponential struct {
	// MaxAttempts caps the total attempt count, including the initial
	// attempt.
	MaxAttempts int
	// InitialDelay is the wait before the first retry.
	InitialDelay time.Duration
	// Multiplier scales the delay after each retry.
	Multiplier float64
	// MaxDelay is the delay ceiling.
	MaxDelay time.Duration
	// RetryableStatus lists the HTTP status codes considered
	// retryable.
	RetryableStatus []int
}

var _ Policy = Exponential{}

// Decide implements Decider.
func (p Exponential) Decide(e *request.Execution) bool {
	if e.Attempt+1 >= p.MaxAttempts {
		return false
	}
	for _, s := range p.RetryableStatus {
		if e.StatusCode == s {
			return true
		}
	}
	return e.Err != nil && e.Kind.Retryable()
}

// Wait implements Waiter using the exponential formula
// min(InitialDelay × Multiplier^(k-1), MaxDelay) where k is the
// 1-based number of the attempt just completed.
func (p Exponential) Wait(e *request.Execution) time.Duration {
	return Backoff(p.InitialDelay, p.Multiplier, p.MaxDelay, e.Attempt+1)
}
