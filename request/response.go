// Copyright 2026 The blaze Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"net/http"
	"time"

	"github.com/malwarebo/blaze/classify"
)

// A Response is the outcome of one logical send.
//
// A send never fails with a Go error: transport-level failures,
// size-cap aborts, and consumer cancellations are all captured into
// the Response value. Callers inspect Success, Kind, and the status
// predicates.
//
// Invariants: Success == true implies Kind == classify.None and
// StatusCode is set; Success == false implies Kind != classify.None.
// A non-2XX status code does not make Success false; it means the
// transport exchange completed and the server answered with that
// status.
type Response struct {
	// StatusCode is the HTTP status code of the final attempt, or 0
	// if no HTTP response was obtained.
	StatusCode int

	// Header contains the response headers of the final attempt. It
	// is nil if no HTTP response was obtained.
	Header http.Header

	// Body is the fully-buffered response body. It is nil when the
	// response was streamed to a sink, or when no response was
	// obtained.
	Body []byte

	// Success indicates whether an HTTP response was obtained. Use
	// the status predicates to discriminate status classes.
	Success bool

	// Kind classifies the failure when Success is false; it is
	// classify.None on success.
	Kind classify.Kind

	// Message holds human-readable error text when Success is false.
	Message string

	// RequestID is the correlation identifier of the originating
	// request.
	RequestID string

	// Attempts is the number of transport attempts made, including
	// the final one.
	Attempts int

	// RetryWaits records the backoff delay slept before each retry,
	// in order. Its length is Attempts-1 unless the send was cut
	// short while waiting.
	RetryWaits []time.Duration

	// Metrics is the per-send metrics record. It is nil unless
	// metrics capture was enabled on the request.
	Metrics *Metrics
}

// IsSuccess reports whether the response carries a 2XX status code.
func (r *Response) IsSuccess() bool { return r.Success && classify.StatusSuccess(r.StatusCode) }

// IsRedirect reports whether the response carries a 3XX status code.
func (r *Response) IsRedirect() bool { return r.Success && classify.StatusRedirect(r.StatusCode) }

// IsClientError reports whether the response carries a 4XX status
// code.
func (r *Response) IsClientError() bool { return r.Success && classify.StatusClientError(r.StatusCode) }

// IsServerError reports whether the response carries a 5XX status
// code.
func (r *Response) IsServerError() bool { return r.Success && classify.StatusServerError(r.StatusCode) }

// Metrics is the per-send metrics record. It is produced once per
// completed send when metrics are enabled, and never retroactively
// corrected.
type Metrics struct {
	// Total is the wall-clock duration of the whole send, including
	// all attempts and backoff waits.
	Total time.Duration
	// DNS is the name resolution time reported for the final attempt.
	DNS time.Duration
	// Connect is the connection establishment time reported for the
	// final attempt.
	Connect time.Duration
	// TLSHandshake is the TLS handshake time reported for the final
	// attempt, zero for plain HTTP.
	TLSHandshake time.Duration
	// BytesSent is the request body size in bytes.
	BytesSent int64
	// BytesReceived is the number of response body bytes received in
	// the final attempt, counted even when streaming.
	BytesReceived int64
	// UploadSpeed is BytesSent divided by Total, in bytes per second.
	UploadSpeed float64
	// DownloadSpeed is BytesReceived divided by Total, in bytes per
	// second.
	DownloadSpeed float64
}
