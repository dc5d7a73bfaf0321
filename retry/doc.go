// Copyright 2026 The blaze Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package retry provides flexible policies for deciding whether to
// retry failed attempts during a logical send, and how long to wait
// before retrying.
//
// The interface Policy defines a retry Policy. The simplest way to
// describe one is the Exponential configuration structure:
//
//	policy := retry.Exponential{
//		MaxAttempts:     3,
//		InitialDelay:    100 * time.Millisecond,
//		Multiplier:      2.0,
//		MaxDelay:        2 * time.Second,
//		RetryableStatus: []int{429, 503},
//	}
//
// A Policy can also be assembled from a decision-maker, Decider, and a
// wait time calculator, Waiter, using NewPolicy. Both Decider and
// Waiter have constructors for common use cases:
//
//	decider := retry.Times(3).
//		And(retry.Before(5 * time.Second)).
//		And(retry.StatusCode(500).Or(retry.RetryableKind))
//	waiter := retry.NewExpWaiter(100*time.Millisecond, 2.0, 2*time.Second)
//	policy := retry.NewPolicy(decider, waiter)
//
// If the built-in functionality is insufficient, fully custom retry
// policies can be created via custom implementations of Decider,
// Waiter, or Policy.
package retry
