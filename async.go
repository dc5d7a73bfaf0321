// Copyright 2026 The blaze Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package blaze

import (
	"context"

	"github.com/malwarebo/blaze/request"
)

// A Future is the pending result of an asynchronous send. It is
// created by Client.SendAsync and completes exactly once.
type Future struct {
	done chan struct{}
	resp *request.Response
}

// SendAsync executes the send on a dedicated goroutine and returns a
// Future for the eventual response. Retry and resolution semantics are
// identical to Send.
func (c *Client) SendAsync(r *request.Request) *Future {
	f := &Future{done: make(chan struct{})}
	go func() {
		f.resp = c.Send(r)
		close(f.done)
	}()
	return f
}

// Done returns a channel that is closed when the response is
// available.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the response is available and returns it. To bound
// the wait, either use WaitContext or set a context on the request
// itself, which also cancels the in-flight send.
func (f *Future) Wait() *request.Response {
	<-f.done
	return f.resp
}

// WaitContext blocks until the response is available or ctx is done.
// A ctx error abandons the wait, not the send: the send keeps running
// and the Future completes normally later.
func (f *Future) WaitContext(ctx context.Context) (*request.Response, error) {
	select {
	case <-f.done:
		return f.resp, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
