// Copyright 2026 The blaze Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package pool manages a bounded set of reusable transport handles.
//
// The pool hands one handle out per request attempt and reclaims it
// afterward. It trades bounded reuse for availability: Acquire never
// blocks or fails, creating an ad hoc handle when the idle set is
// empty, and Release destroys handles beyond the configured maximum
// instead of keeping them. Callers needing hard admission control must
// add that separately.
package pool

import (
	"sync"

	"github.com/malwarebo/blaze/transport"
)

// A Factory creates a new transport handle when the idle set cannot
// supply one.
type Factory func() transport.Transport

// A Pool is a mutex-guarded idle set of transport handles. A handle is
// owned exclusively by the pool except while checked out to exactly
// one in-flight attempt.
//
// Acquire and Release are safe to call concurrently from multiple
// in-flight sends. The mutex is held only for the duration of the
// idle-set mutation, never across a blocking transport call, so one
// slow request cannot stall pool operations for others.
type Pool struct {
	mu      sync.Mutex
	idle    []transport.Transport
	max     int
	factory Factory
	closed  bool
}

// New creates a Pool holding at most max idle handles, creating new
// handles with factory. A max below 1 is treated as 1.
func New(factory Factory, max int) *Pool {
	if factory == nil {
		panic("blaze/pool: nil factory")
	}
	if max < 1 {
		max = 1
	}
	return &Pool{
		max:     max,
		factory: factory,
	}
}

// Acquire returns a ready-to-use transport handle, recycled from the
// idle set if one is available, otherwise newly created. It never
// blocks on pool capacity.
func (p *Pool) Acquire() transport.Transport {
	p.mu.Lock()
	if n := len(p.idle); n > 0 {
		t := p.idle[n-1]
		p.idle[n-1] = nil
		p.idle = p.idle[:n-1]
		p.mu.Unlock()
		return t
	}
	p.mu.Unlock()

	// Created outside the lock: the factory may be expensive.
	return p.factory()
}

// Release returns the handle to the idle set if capacity remains,
// otherwise destroys it. Releasing to a closed pool always destroys.
func (p *Pool) Release(t transport.Transport) {
	if t == nil {
		return
	}
	p.mu.Lock()
	if !p.closed && len(p.idle) < p.max {
		p.idle = append(p.idle, t)
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	t.CloseIdleConnections()
}

// Idle reports the number of handles currently at rest in the pool.
func (p *Pool) Idle() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.idle)
}

// Close destroys all idle handles and marks the pool closed. Handles
// checked out at the time of the call are destroyed when released.
func (p *Pool) Close() {
	p.mu.Lock()
	idle := p.idle
	p.idle = nil
	p.closed = true
	p.mu.Unlock()

	for _, t := range idle {
		t.CloseIdleConnections()
	}
}
