// Copyright 2026 The blaze Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"net/http"
	"time"

	"github.com/malwarebo/blaze/classify"
)

// An Execution represents the state of a single logical send.
//
// When a send starts, an Execution is created for it and updated as
// the send progresses (for example when an HTTP response becomes
// available, or when a retry is needed). Retry policies receive the
// Execution after every attempt to make their decision.
//
// Policies should treat the exported fields as read-only; the
// execution state is vital to the correct functioning of the send
// loop.
type Execution struct {
	// Request is the resolved request being executed. It is never
	// nil.
	Request *Resolved

	// Start is the start time of the send. It is assigned a non-zero
	// value when the send starts and remains constant thereafter.
	Start time.Time

	// End is the end time of the send. It contains the zero value
	// until the send ends.
	End time.Time

	// Attempt is the zero-based number of the current attempt. It is
	// zero on the initial attempt, one on the first retry, and so on.
	Attempt int

	// AttemptTimeouts counts the attempts which ended in a timeout.
	AttemptTimeouts int

	// StatusCode is the HTTP status code received in the most recent
	// attempt, or 0 if the attempt ended in a transport failure or a
	// current attempt is underway.
	StatusCode int

	// Header contains the response headers of the most recent
	// attempt, nil on transport failure.
	Header http.Header

	// Body is the buffered response body of the most recent attempt.
	// It is nil on transport failure and when streaming.
	Body []byte

	// BytesReceived counts the response body bytes received in the
	// most recent attempt, including when streaming.
	BytesReceived int64

	// Err is the error from the most recent attempt, nil if the
	// attempt obtained an HTTP response. While a send is in-flight,
	// Err may fluctuate between nil and various non-nil values.
	Err error

	// Kind is the classification of Err for the most recent attempt;
	// classify.None when an HTTP response was obtained.
	Kind classify.Kind

	// RetryWaits records the backoff delay slept before each retry so
	// far.
	RetryWaits []time.Duration
}

// Responded indicates whether the most recent attempt obtained an
// HTTP response (of any status code).
func (e *Execution) Responded() bool {
	return e.Err == nil && e.StatusCode != 0
}

// Duration returns the duration of the send so far. If the send has
// not yet started, the duration is zero. If the send has ended, the
// duration is End minus Start; otherwise it is the current time minus
// Start.
func (e *Execution) Duration() time.Duration {
	if !e.Started() {
		return time.Duration(0)
	} else if !e.Ended() {
		return time.Since(e.Start)
	}

	return e.End.Sub(e.Start)
}

// Started indicates whether the send has started.
func (e *Execution) Started() bool {
	return e.Start != (time.Time{})
}

// Ended indicates whether the send has ended. Once it has, there will
// be no further changes to the execution.
func (e *Execution) Ended() bool {
	return e.End != (time.Time{})
}

// Timeout indicates whether the most recent attempt ended in a
// timeout.
func (e *Execution) Timeout() bool {
	return e.Kind == classify.Timeout
}

// Reset clears the per-attempt fields ahead of a retry and advances
// the attempt counter.
func (e *Execution) Reset() {
	e.StatusCode = 0
	e.Header = nil
	e.Body = nil
	e.BytesReceived = 0
	e.Err = nil
	e.Kind = classify.None
	e.Attempt++
}
