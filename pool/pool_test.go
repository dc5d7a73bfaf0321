// Copyright 2026 The blaze Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package pool

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/malwarebo/blaze/request"
	"github.com/malwarebo/blaze/transport"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTransport struct {
	closed atomic.Int32
}

func (f *fakeTransport) Perform(_ context.Context, _ *request.Resolved, _ transport.Options) (*transport.Result, error) {
	return &transport.Result{StatusCode: 200}, nil
}

func (f *fakeTransport) CloseIdleConnections() {
	f.closed.Add(1)
}

func countingFactory(made *atomic.Int32) Factory {
	return func() transport.Transport {
		made.Add(1)
		return &fakeTransport{}
	}
}

func TestNew(t *testing.T) {
	t.Run("nil factory panics", func(t *testing.T) {
		assert.Panics(t, func() { New(nil, 1) })
	})
	t.Run("max below one treated as one", func(t *testing.T) {
		var made atomic.Int32
		p := New(countingFactory(&made), 0)
		a := p.Acquire()
		b := p.Acquire()
		p.Release(a)
		p.Release(b)
		assert.Equal(t, 1, p.Idle())
	})
}

func TestAcquireReusesIdle(t *testing.T) {
	var made atomic.Int32
	p := New(countingFactory(&made), 2)

	a := p.Acquire()
	require.NotNil(t, a)
	p.Release(a)
	assert.Equal(t, 1, p.Idle())

	b := p.Acquire()
	assert.Same(t, a, b)
	assert.Equal(t, 0, p.Idle())
	assert.Equal(t, int32(1), made.Load())
}

func TestAcquireNeverBlocks(t *testing.T) {
	var made atomic.Int32
	p := New(countingFactory(&made), 1)

	// Checking out more handles than the idle cap must create ad hoc
	// handles rather than waiting for a release.
	a := p.Acquire()
	b := p.Acquire()
	c := p.Acquire()
	assert.NotNil(t, a)
	assert.NotNil(t, b)
	assert.NotNil(t, c)
	assert.Equal(t, int32(3), made.Load())
}

func TestReleaseDestroysOverCapacity(t *testing.T) {
	var made atomic.Int32
	p := New(countingFactory(&made), 1)

	a := p.Acquire().(*fakeTransport)
	b := p.Acquire().(*fakeTransport)
	p.Release(a)
	p.Release(b)

	assert.Equal(t, 1, p.Idle())
	assert.Equal(t, int32(0), a.closed.Load())
	assert.Equal(t, int32(1), b.closed.Load())
}

func TestReleaseNil(t *testing.T) {
	var made atomic.Int32
	p := New(countingFactory(&made), 1)
	p.Release(nil)
	assert.Equal(t, 0, p.Idle())
}

func TestClose(t *testing.T) {
	var made atomic.Int32
	p := New(countingFactory(&made), 4)

	a := p.Acquire().(*fakeTransport)
	b := p.Acquire().(*fakeTransport)
	p.Release(a)

	p.Close()
	assert.Equal(t, 0, p.Idle())
	assert.Equal(t, int32(1), a.closed.Load())

	// Handles still checked out at close time are destroyed on release.
	p.Release(b)
	assert.Equal(t, 0, p.Idle())
	assert.Equal(t, int32(1), b.closed.Load())
}

func TestConcurrentAcquireRelease(t *testing.T) {
	var made atomic.Int32
	const max = 4
	p := New(countingFactory(&made), max)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				h := p.Acquire()
				p.Release(h)
			}
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, p.Idle(), max)
	assert.Greater(t, p.Idle(), 0)
}
