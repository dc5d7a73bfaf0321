// Copyright 2026 The blaze Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package transport defines the capability the client core delegates
// actual network I/O to, and provides the production implementation
// built on net/http.
//
// A Transport performs exactly one blocking HTTP exchange per Perform
// call, given a fully-resolved request, and returns either the raw
// status/headers/body or a transport-level failure. It knows nothing
// about retries, interceptors, or connection pooling; those live in
// the client core.
package transport

import (
	"context"
	"net/http"
	"time"

	"github.com/malwarebo/blaze/request"
)

// A Sink consumes response body chunks as they arrive instead of
// having the body buffered. Returning false aborts the transfer, which
// surfaces as a consumer cancellation, not a transport failure.
//
// The chunk slice is reused between calls; a Sink that needs to retain
// the bytes must copy them.
type Sink func(chunk []byte) bool

// A Progress callback is invoked after each chunk of the response body
// is received, with the number of bytes received so far and the total
// expected (-1 when the server did not declare a length). Returning
// false cancels the attempt.
type Progress func(done, total int64) bool

// Options carry the per-perform behavior the executor selects for an
// attempt: an optional streaming sink, an optional progress callback,
// and the response size cap.
type Options struct {
	// Sink, when non-nil, receives the response body incrementally;
	// the Result's Body field is left nil.
	Sink Sink
	// Progress, when non-nil, is invoked periodically during the body
	// transfer.
	Progress Progress
	// MaxResponseSize aborts the transfer once more than this many
	// body bytes have been received. Zero means unlimited.
	MaxResponseSize int64
}

// Timings carries the transport-reported phase timings of one
// exchange. Phases that did not occur (cached connection, plain HTTP)
// report zero.
type Timings struct {
	DNS          time.Duration
	Connect      time.Duration
	TLSHandshake time.Duration
}

// A Result is the successful outcome of one exchange: the server
// answered with some HTTP status. A non-2XX status is still a Result,
// not an error.
type Result struct {
	StatusCode    int
	Proto         string
	Header        http.Header
	Body          []byte
	BytesReceived int64
	Timings       Timings
}

// A Transport performs one blocking HTTP exchange. Implementations
// must be safe for concurrent use by multiple goroutines, and must
// honor ctx for cancellation and per-attempt deadlines.
//
// Production code uses the net/http-backed implementation returned by
// NewHTTP; tests substitute their own.
type Transport interface {
	Perform(ctx context.Context, r *request.Resolved, opts Options) (*Result, error)

	// CloseIdleConnections releases any idle network resources held
	// by the transport. The connection pool calls it when a handle is
	// destroyed.
	CloseIdleConnections()
}
