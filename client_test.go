// Copyright 2026 The blaze Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package blaze

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"github.com/malwarebo/blaze/classify"
	"github.com/malwarebo/blaze/request"
	"github.com/malwarebo/blaze/retry"
	"github.com/malwarebo/blaze/transport"
)

// outcome scripts one transport attempt: either an error, or a status
// with a body.
type outcome struct {
	status int
	body   string
	err    error
}

// scriptedTransport plays back a fixed sequence of attempt outcomes
// and records what the client handed it.
type scriptedTransport struct {
	mu       sync.Mutex
	script   []outcome
	performs int
	closed   int
	resolved []*request.Resolved
}

func scripted(outcomes ...outcome) *scriptedTransport {
	return &scriptedTransport{script: outcomes}
}

func (s *scriptedTransport) Perform(_ context.Context, r *request.Resolved, opts transport.Options) (*transport.Result, error) {
	s.mu.Lock()
	i := s.performs
	s.performs++
	s.resolved = append(s.resolved, r)
	s.mu.Unlock()

	if i >= len(s.script) {
		return nil, fmt.Errorf("unscripted attempt %d", i)
	}
	o := s.script[i]
	if o.err != nil {
		return nil, o.err
	}

	body := []byte(o.body)
	result := &transport.Result{
		StatusCode:    o.status,
		Header:        http.Header{"X-Scripted": []string{"yes"}},
		BytesReceived: int64(len(body)),
	}
	if opts.MaxResponseSize > 0 && int64(len(body)) > opts.MaxResponseSize {
		return nil, fmt.Errorf("received %d of maximum %d bytes: %w",
			len(body), opts.MaxResponseSize, classify.ErrTooLarge)
	}
	if opts.Sink != nil {
		if len(body) > 0 && !opts.Sink(body) {
			return nil, fmt.Errorf("streaming sink stopped: %w", classify.ErrCancelled)
		}
	} else {
		result.Body = body
	}
	if opts.Progress != nil {
		if !opts.Progress(int64(len(body)), int64(len(body))) {
			return nil, fmt.Errorf("progress callback stopped: %w", classify.ErrCancelled)
		}
	}
	return result, nil
}

func (s *scriptedTransport) CloseIdleConnections() {
	s.mu.Lock()
	s.closed++
	s.mu.Unlock()
}

func (s *scriptedTransport) performCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.performs
}

var noRetry = Config{Retry: retry.Never}

func newRequest(t *testing.T, method, url string, body interface{}) *request.Request {
	t.Helper()
	r, err := request.New(method, url, body)
	require.NoError(t, err)
	return r
}

func TestSend(t *testing.T) {
	st := scripted(outcome{status: 200, body: "hello"})
	c := NewWithTransport(st, noRetry)

	resp := c.Send(newRequest(t, "GET", "http://test.local/x", nil))

	require.NotNil(t, resp)
	assert.True(t, resp.Success)
	assert.True(t, resp.IsSuccess())
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, []byte("hello"), resp.Body)
	assert.Equal(t, "yes", resp.Header.Get("X-Scripted"))
	assert.Equal(t, classify.None, resp.Kind)
	assert.Equal(t, 1, resp.Attempts)
	assert.Empty(t, resp.RetryWaits)
	assert.NotEmpty(t, resp.RequestID)
	assert.Equal(t, 1, st.performCount())
}

func TestSendInvalidURL(t *testing.T) {
	st := scripted()
	c := NewWithTransport(st, noRetry)

	r := newRequest(t, "GET", "not a url", nil)
	resp := c.Send(r)

	require.NotNil(t, resp)
	assert.False(t, resp.Success)
	assert.Equal(t, classify.InvalidURL, resp.Kind)
	assert.NotEmpty(t, resp.Message)
	assert.Equal(t, 0, resp.Attempts)
	assert.Equal(t, 0, st.performCount())
	assert.NotEmpty(t, resp.RequestID)
	assert.Equal(t, r.ID, resp.RequestID)
}

func TestSendRetriesUntilSuccess(t *testing.T) {
	st := scripted(
		outcome{status: 503},
		outcome{status: 503},
		outcome{status: 200, body: "finally"},
	)
	c := NewWithTransport(st, Config{
		Retry: retry.Exponential{
			MaxAttempts:     3,
			InitialDelay:    time.Millisecond,
			Multiplier:      2.0,
			MaxDelay:        10 * time.Millisecond,
			RetryableStatus: []int{503},
		},
	})

	resp := c.Send(newRequest(t, "GET", "http://test.local/flaky", nil))

	assert.True(t, resp.Success)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, []byte("finally"), resp.Body)
	assert.Equal(t, 3, resp.Attempts)
	assert.Equal(t, []time.Duration{time.Millisecond, 2 * time.Millisecond}, resp.RetryWaits)
	assert.Equal(t, 3, st.performCount())
}

func TestSendRetriesExhausted(t *testing.T) {
	st := scripted(
		outcome{status: 503},
		outcome{status: 503},
		outcome{status: 503},
	)
	c := NewWithTransport(st, Config{
		Retry: retry.Exponential{
			MaxAttempts:     3,
			InitialDelay:    time.Millisecond,
			Multiplier:      1.0,
			MaxDelay:        time.Millisecond,
			RetryableStatus: []int{503},
		},
	})

	resp := c.Send(newRequest(t, "GET", "http://test.local/down", nil))

	// A response was obtained, so the send is a success even though
	// every attempt returned 503.
	assert.True(t, resp.Success)
	assert.True(t, resp.IsServerError())
	assert.Equal(t, 503, resp.StatusCode)
	assert.Equal(t, 3, resp.Attempts)
	assert.Equal(t, 3, st.performCount())
}

func TestSendDoesNotRetryOtherStatus(t *testing.T) {
	for _, status := range []int{400, 404, 500, 501} {
		t.Run(fmt.Sprintf("status=%d", status), func(t *testing.T) {
			st := scripted(outcome{status: status})
			c := NewWithTransport(st, Config{
				Retry: retry.Exponential{
					MaxAttempts:     5,
					InitialDelay:    time.Millisecond,
					Multiplier:      1.0,
					MaxDelay:        time.Millisecond,
					RetryableStatus: []int{503},
				},
			})

			resp := c.Send(newRequest(t, "GET", "http://test.local/", nil))
			assert.True(t, resp.Success)
			assert.Equal(t, status, resp.StatusCode)
			assert.Equal(t, 1, st.performCount())
		})
	}
}

func TestSendRetriesNetworkError(t *testing.T) {
	st := scripted(
		outcome{err: fmt.Errorf("dial: %w", syscall.ECONNREFUSED)},
		outcome{status: 200},
	)
	c := NewWithTransport(st, Config{
		Retry: retry.Exponential{
			MaxAttempts:  3,
			InitialDelay: time.Millisecond,
			Multiplier:   1.0,
			MaxDelay:     time.Millisecond,
		},
	})

	resp := c.Send(newRequest(t, "GET", "http://test.local/", nil))

	assert.True(t, resp.Success)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, 2, resp.Attempts)
	assert.Equal(t, 2, st.performCount())
}

func TestSendTerminalKindsNotRetried(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		kind classify.Kind
	}{
		{"too large", fmt.Errorf("cap: %w", classify.ErrTooLarge), classify.TooLarge},
		{"cancelled", fmt.Errorf("sink: %w", classify.ErrCancelled), classify.Cancelled},
		{"unknown", errors.New("something odd"), classify.Unknown},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			st := scripted(outcome{err: tc.err})
			c := NewWithTransport(st, Config{
				Retry: retry.Exponential{
					MaxAttempts:  5,
					InitialDelay: time.Millisecond,
					Multiplier:   1.0,
					MaxDelay:     time.Millisecond,
				},
			})

			resp := c.Send(newRequest(t, "GET", "http://test.local/", nil))

			assert.False(t, resp.Success)
			assert.Equal(t, tc.kind, resp.Kind)
			assert.NotEmpty(t, resp.Message)
			assert.Equal(t, 1, st.performCount())
		})
	}
}

func TestSendNetworkFailureExhausted(t *testing.T) {
	refused := fmt.Errorf("dial: %w", syscall.ECONNREFUSED)
	st := scripted(outcome{err: refused}, outcome{err: refused})
	c := NewWithTransport(st, Config{
		Retry: retry.Exponential{
			MaxAttempts:  2,
			InitialDelay: time.Millisecond,
			Multiplier:   1.0,
			MaxDelay:     time.Millisecond,
		},
	})

	resp := c.Send(newRequest(t, "GET", "http://test.local/", nil))

	assert.False(t, resp.Success)
	assert.Equal(t, classify.Network, resp.Kind)
	assert.Equal(t, 2, resp.Attempts)
	assert.False(t, resp.IsSuccess())
	assert.False(t, resp.IsServerError())
}

func TestDefaultHeaders(t *testing.T) {
	st := scripted(outcome{status: 200})
	c := NewWithTransport(st, noRetry)
	c.SetDefaultHeader("User-Agent", "blaze-test")
	c.SetDefaultHeader("Accept", "application/json")

	r := newRequest(t, "GET", "http://test.local/", nil)
	r.Header.Set("Accept", "text/plain")
	c.Send(r)

	require.Len(t, st.resolved, 1)
	h := st.resolved[0].Header
	assert.Equal(t, "blaze-test", h.Get("User-Agent"))
	assert.Equal(t, "text/plain", h.Get("Accept"))
}

func TestInterceptorsRunOncePerSend(t *testing.T) {
	st := scripted(
		outcome{status: 503},
		outcome{status: 503},
		outcome{status: 200},
	)
	c := NewWithTransport(st, Config{
		Retry: retry.Exponential{
			MaxAttempts:     3,
			InitialDelay:    time.Millisecond,
			Multiplier:      1.0,
			MaxDelay:        time.Millisecond,
			RetryableStatus: []int{503},
		},
	})

	var reqCalls, respCalls int
	c.UseRequest(func(_ context.Context, r *request.Resolved) error {
		reqCalls++
		r.Header.Set("X-Trace", "abc")
		return nil
	})
	c.UseResponse(func(_ context.Context, _ *request.Resolved, resp *request.Response) error {
		respCalls++
		assert.Equal(t, 200, resp.StatusCode)
		return nil
	})

	resp := c.Send(newRequest(t, "GET", "http://test.local/", nil))

	assert.True(t, resp.Success)
	assert.Equal(t, 3, st.performCount())
	assert.Equal(t, 1, reqCalls)
	assert.Equal(t, 1, respCalls)

	// The mutation made by the request interceptor is visible to every
	// attempt, since all attempts share the resolved request.
	for _, r := range st.resolved {
		assert.Equal(t, "abc", r.Header.Get("X-Trace"))
	}
}

func TestRequestInterceptorOrder(t *testing.T) {
	st := scripted(outcome{status: 200})
	c := NewWithTransport(st, noRetry)

	var order []string
	c.UseRequest(func(_ context.Context, _ *request.Resolved) error {
		order = append(order, "first")
		return nil
	})
	c.UseRequest(func(_ context.Context, _ *request.Resolved) error {
		order = append(order, "second")
		return nil
	})

	c.Send(newRequest(t, "GET", "http://test.local/", nil))
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestRequestInterceptorError(t *testing.T) {
	st := scripted(outcome{status: 200})
	c := NewWithTransport(st, noRetry)
	c.UseRequest(func(_ context.Context, _ *request.Resolved) error {
		return errors.New("quota exceeded")
	})

	resp := c.Send(newRequest(t, "GET", "http://test.local/", nil))

	assert.False(t, resp.Success)
	assert.Equal(t, classify.Unknown, resp.Kind)
	assert.Equal(t, "request interceptor: quota exceeded", resp.Message)
	assert.Equal(t, 0, st.performCount())
	assert.NotEmpty(t, resp.RequestID)
}

func TestResponseInterceptorError(t *testing.T) {
	st := scripted(outcome{status: 200, body: "ok"})
	c := NewWithTransport(st, noRetry)
	c.UseResponse(func(_ context.Context, _ *request.Resolved, _ *request.Response) error {
		return errors.New("schema mismatch")
	})

	resp := c.Send(newRequest(t, "GET", "http://test.local/", nil))

	assert.False(t, resp.Success)
	assert.Equal(t, classify.Unknown, resp.Kind)
	assert.Equal(t, "response interceptor: schema mismatch", resp.Message)
	assert.Equal(t, 1, st.performCount())
}

func TestUseNilInterceptorPanics(t *testing.T) {
	c := NewWithTransport(scripted(), noRetry)
	assert.Panics(t, func() { c.UseRequest(nil) })
	assert.Panics(t, func() { c.UseResponse(nil) })
}

func TestStreamResponse(t *testing.T) {
	t.Run("sink consumes the body", func(t *testing.T) {
		st := scripted(outcome{status: 200, body: "streamed bytes"})
		c := NewWithTransport(st, noRetry)

		var got []byte
		resp := c.StreamResponse(newRequest(t, "GET", "http://test.local/", nil), func(chunk []byte) bool {
			got = append(got, chunk...)
			return true
		})

		assert.True(t, resp.Success)
		assert.Nil(t, resp.Body)
		assert.Equal(t, []byte("streamed bytes"), got)
	})

	t.Run("sink refusal is cancelled and never retried", func(t *testing.T) {
		st := scripted(
			outcome{status: 200, body: "data"},
			outcome{status: 200, body: "data"},
		)
		c := NewWithTransport(st, Config{
			Retry: retry.Exponential{
				MaxAttempts:  5,
				InitialDelay: time.Millisecond,
				Multiplier:   1.0,
				MaxDelay:     time.Millisecond,
			},
		})

		resp := c.StreamResponse(newRequest(t, "GET", "http://test.local/", nil), func([]byte) bool {
			return false
		})

		assert.False(t, resp.Success)
		assert.Equal(t, classify.Cancelled, resp.Kind)
		assert.Equal(t, 1, st.performCount())
	})
}

func TestSendWithProgress(t *testing.T) {
	t.Run("progress observes the transfer", func(t *testing.T) {
		st := scripted(outcome{status: 200, body: "0123456789"})
		c := NewWithTransport(st, noRetry)

		var lastDone, lastTotal int64
		resp := c.SendWithProgress(newRequest(t, "GET", "http://test.local/", nil), func(done, total int64) bool {
			lastDone, lastTotal = done, total
			return true
		})

		assert.True(t, resp.Success)
		assert.Equal(t, []byte("0123456789"), resp.Body)
		assert.Equal(t, int64(10), lastDone)
		assert.Equal(t, int64(10), lastTotal)
	})

	t.Run("progress refusal is cancelled", func(t *testing.T) {
		st := scripted(outcome{status: 200, body: "data"})
		c := NewWithTransport(st, noRetry)

		resp := c.SendWithProgress(newRequest(t, "GET", "http://test.local/", nil), func(_, _ int64) bool {
			return false
		})

		assert.False(t, resp.Success)
		assert.Equal(t, classify.Cancelled, resp.Kind)
	})
}

func TestMaxResponseSize(t *testing.T) {
	big := make([]byte, 2048)
	for i := range big {
		big[i] = 'x'
	}

	t.Run("within cap", func(t *testing.T) {
		st := scripted(outcome{status: 200, body: string(big)})
		cfg := noRetry
		cfg.MaxResponseSize = 4096
		c := NewWithTransport(st, cfg)

		resp := c.Send(newRequest(t, "GET", "http://test.local/", nil))
		assert.True(t, resp.Success)
		assert.Len(t, resp.Body, 2048)
	})

	t.Run("over cap", func(t *testing.T) {
		st := scripted(outcome{status: 200, body: string(big)})
		cfg := noRetry
		cfg.MaxResponseSize = 1024
		c := NewWithTransport(st, cfg)

		resp := c.Send(newRequest(t, "GET", "http://test.local/", nil))
		assert.False(t, resp.Success)
		assert.Equal(t, classify.TooLarge, resp.Kind)
	})
}

func TestMetrics(t *testing.T) {
	st := scripted(outcome{status: 200, body: "payload"})
	c := NewWithTransport(st, noRetry)

	r := newRequest(t, "POST", "http://test.local/", "request body")
	r.Metrics = true
	resp := c.Send(r)

	require.NotNil(t, resp.Metrics)
	assert.Greater(t, resp.Metrics.Total, time.Duration(0))
	assert.Equal(t, int64(len("request body")), resp.Metrics.BytesSent)
	assert.Equal(t, int64(len("payload")), resp.Metrics.BytesReceived)
	assert.Greater(t, resp.Metrics.DownloadSpeed, 0.0)
}

func TestMetricsDisabledByDefault(t *testing.T) {
	st := scripted(outcome{status: 200})
	c := NewWithTransport(st, noRetry)
	resp := c.Send(newRequest(t, "GET", "http://test.local/", nil))
	assert.Nil(t, resp.Metrics)
}

// blockingTransport blocks every attempt until its context is done.
type blockingTransport struct{}

func (blockingTransport) Perform(ctx context.Context, _ *request.Resolved, _ transport.Options) (*transport.Result, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (blockingTransport) CloseIdleConnections() {}

func TestOverallDeadline(t *testing.T) {
	cfg := Config{
		Retry:           retry.Exponential{MaxAttempts: 100, InitialDelay: time.Millisecond, Multiplier: 1.0, MaxDelay: time.Millisecond},
		OverallDeadline: 50 * time.Millisecond,
	}
	c := NewWithTransport(blockingTransport{}, cfg)

	start := time.Now()
	resp := c.Send(newRequest(t, "GET", "http://test.local/slow", nil))
	elapsed := time.Since(start)

	assert.False(t, resp.Success)
	assert.Equal(t, classify.Timeout, resp.Kind)
	assert.Less(t, elapsed, 5*time.Second)
}

func TestRequestContextCancelsSend(t *testing.T) {
	c := NewWithTransport(blockingTransport{}, Config{Retry: retry.DefaultPolicy})

	ctx, cancel := context.WithCancel(context.Background())
	r, err := request.NewWithContext(ctx, "GET", "http://test.local/slow", nil)
	require.NoError(t, err)

	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	resp := c.Send(r)

	assert.False(t, resp.Success)
	assert.Equal(t, classify.Cancelled, resp.Kind)
	assert.Equal(t, 1, resp.Attempts)
}

// cancelAfterTransport cancels the given context and then answers
// successfully, modeling a context that expires just as the final
// attempt concludes.
type cancelAfterTransport struct {
	cancel context.CancelFunc
}

func (t cancelAfterTransport) Perform(_ context.Context, _ *request.Resolved, _ transport.Options) (*transport.Result, error) {
	t.cancel()
	return &transport.Result{StatusCode: 200, Body: []byte("made it"), BytesReceived: 7}, nil
}

func (cancelAfterTransport) CloseIdleConnections() {}

func TestSendKeepsResponseObtainedBeforeContextExpiry(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r, err := request.NewWithContext(ctx, "GET", "http://test.local/", nil)
	require.NoError(t, err)

	c := NewWithTransport(cancelAfterTransport{cancel: cancel}, noRetry)
	resp := c.Send(r)

	assert.True(t, resp.Success)
	assert.Equal(t, 200, resp.StatusCode)
	assert.Equal(t, []byte("made it"), resp.Body)
	assert.Equal(t, classify.None, resp.Kind)
	assert.Empty(t, resp.Message)
	assert.Equal(t, 1, resp.Attempts)
}

func TestLimiter(t *testing.T) {
	st := scripted(outcome{status: 200}, outcome{status: 200})
	cfg := noRetry
	cfg.Limiter = rate.NewLimiter(rate.Every(time.Millisecond), 1)
	c := NewWithTransport(st, cfg)

	first := c.Send(newRequest(t, "GET", "http://test.local/", nil))
	second := c.Send(newRequest(t, "GET", "http://test.local/", nil))
	assert.True(t, first.Success)
	assert.True(t, second.Success)
	assert.Equal(t, 2, st.performCount())
}

func TestLimiterFailureMakesNoAttempt(t *testing.T) {
	st := scripted(outcome{status: 200})
	cfg := noRetry
	// Burst zero can never admit a waiter, so Wait fails before any
	// transport exchange.
	cfg.Limiter = rate.NewLimiter(rate.Every(time.Hour), 0)
	c := NewWithTransport(st, cfg)

	resp := c.Send(newRequest(t, "GET", "http://test.local/", nil))

	assert.False(t, resp.Success)
	assert.Equal(t, classify.Unknown, resp.Kind)
	assert.NotEmpty(t, resp.Message)
	assert.Equal(t, 0, resp.Attempts)
	assert.Equal(t, 0, st.performCount())
}

// meetTransport blocks each Perform until the expected number of
// concurrent attempts has arrived, forcing handles to be checked out
// of the pool simultaneously.
type meetTransport struct {
	barrier *sync.WaitGroup
	mu      sync.Mutex
	closed  int
}

func (m *meetTransport) Perform(_ context.Context, _ *request.Resolved, _ transport.Options) (*transport.Result, error) {
	m.barrier.Done()
	m.barrier.Wait()
	return &transport.Result{StatusCode: 200}, nil
}

func (m *meetTransport) CloseIdleConnections() {
	m.mu.Lock()
	m.closed++
	m.mu.Unlock()
}

func (m *meetTransport) closedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

func TestInjectedTransportSurvivesPoolOverflow(t *testing.T) {
	var barrier sync.WaitGroup
	barrier.Add(2)
	mt := &meetTransport{barrier: &barrier}
	cfg := noRetry
	cfg.MaxConnections = 1
	c := NewWithTransport(mt, cfg)

	// Two concurrent sends check two handles out of a capacity-1
	// pool; releasing the second one overflows the idle set.
	f1 := c.SendAsync(newRequest(t, "GET", "http://test.local/", nil))
	f2 := c.SendAsync(newRequest(t, "GET", "http://test.local/", nil))
	assert.True(t, f1.Wait().Success)
	assert.True(t, f2.Wait().Success)

	// The overflow release must not close the shared transport while
	// it remains in use.
	assert.Equal(t, 0, mt.closedCount())

	c.CloseIdleConnections()
	assert.Equal(t, 1, mt.closedCount())
}

func TestCloseIdleConnections(t *testing.T) {
	st := scripted(outcome{status: 200})
	c := NewWithTransport(st, noRetry)

	c.Send(newRequest(t, "GET", "http://test.local/", nil))
	c.CloseIdleConnections()
	st.mu.Lock()
	closed := st.closed
	st.mu.Unlock()
	assert.GreaterOrEqual(t, closed, 1)
}

func TestNewWithTransportNilPanics(t *testing.T) {
	assert.Panics(t, func() { NewWithTransport(nil, Config{}) })
}

func TestNormalizeDefaults(t *testing.T) {
	c := NewWithTransport(scripted(), Config{})
	assert.Equal(t, DefaultTimeout, c.cfg.Timeout)
	assert.Equal(t, DefaultMaxRedirects, c.cfg.MaxRedirects)
	assert.Equal(t, DefaultMaxConnections, c.cfg.MaxConnections)
	assert.NotNil(t, c.cfg.Retry)
}

func TestSetters(t *testing.T) {
	c := NewWithTransport(scripted(), noRetry)

	c.SetTimeout(5 * time.Second)
	assert.Equal(t, 5*time.Second, c.cfg.Timeout)
	c.SetTimeout(0)
	assert.Equal(t, 5*time.Second, c.cfg.Timeout)

	c.SetFollowRedirects(false)
	assert.False(t, c.cfg.FollowRedirects)

	c.SetMaxRedirects(7)
	assert.Equal(t, 7, c.cfg.MaxRedirects)

	c.SetRetryPolicy(nil)
	assert.Equal(t, retry.DefaultPolicy, c.cfg.Retry)

	c.SetMaxResponseSize(-1)
	assert.Equal(t, int64(0), c.cfg.MaxResponseSize)

	c.SetOverallDeadline(time.Minute)
	assert.Equal(t, time.Minute, c.cfg.OverallDeadline)

	a := &request.Auth{Bearer: "tok"}
	c.SetAuth(a)
	assert.Same(t, a, c.cfg.Auth)
}

func TestVerbHelpers(t *testing.T) {
	send := func(f func(c *Client)) *request.Resolved {
		st := scripted(outcome{status: 200})
		c := NewWithTransport(st, noRetry)
		f(c)
		if len(st.resolved) != 1 {
			t.Fatalf("expected 1 attempt, got %d", len(st.resolved))
		}
		return st.resolved[0]
	}

	t.Run("Get", func(t *testing.T) {
		r := send(func(c *Client) { c.Get("http://test.local/a") })
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/a", r.URL.Path)
	})
	t.Run("Head", func(t *testing.T) {
		r := send(func(c *Client) { c.Head("http://test.local/") })
		assert.Equal(t, "HEAD", r.Method)
	})
	t.Run("Options", func(t *testing.T) {
		r := send(func(c *Client) { c.Options("http://test.local/") })
		assert.Equal(t, "OPTIONS", r.Method)
	})
	t.Run("Delete", func(t *testing.T) {
		r := send(func(c *Client) { c.Delete("http://test.local/a/1") })
		assert.Equal(t, "DELETE", r.Method)
	})
	t.Run("Post", func(t *testing.T) {
		r := send(func(c *Client) { c.Post("http://test.local/a", "application/json", `{"x":1}`) })
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, []byte(`{"x":1}`), r.Body)
	})
	t.Run("Put", func(t *testing.T) {
		r := send(func(c *Client) { c.Put("http://test.local/a/1", "text/plain", "v") })
		assert.Equal(t, "PUT", r.Method)
		assert.Equal(t, []byte("v"), r.Body)
	})
	t.Run("Patch", func(t *testing.T) {
		r := send(func(c *Client) { c.Patch("http://test.local/a/1", "text/plain", []byte("p")) })
		assert.Equal(t, "PATCH", r.Method)
		assert.Equal(t, []byte("p"), r.Body)
	})
	t.Run("PostForm", func(t *testing.T) {
		r := send(func(c *Client) {
			c.PostForm("http://test.local/form", map[string][]string{"a": {"1"}, "b": {"2"}})
		})
		assert.Equal(t, "POST", r.Method)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		assert.Equal(t, []byte("a=1&b=2"), r.Body)
	})
}

func TestVerbHelperBadBody(t *testing.T) {
	st := scripted(outcome{status: 200})
	c := NewWithTransport(st, noRetry)

	resp := c.Post("http://test.local/", "application/json", 42)

	assert.False(t, resp.Success)
	assert.Equal(t, classify.Unknown, resp.Kind)
	assert.NotEmpty(t, resp.Message)
	assert.Equal(t, 0, st.performCount())
}

func TestSendAsync(t *testing.T) {
	t.Run("future completes with the response", func(t *testing.T) {
		st := scripted(outcome{status: 200, body: "async"})
		c := NewWithTransport(st, noRetry)

		f := c.SendAsync(newRequest(t, "GET", "http://test.local/", nil))
		resp := f.Wait()

		require.NotNil(t, resp)
		assert.True(t, resp.Success)
		assert.Equal(t, []byte("async"), resp.Body)

		select {
		case <-f.Done():
		default:
			t.Fatal("Done channel not closed after Wait returned")
		}
	})

	t.Run("wait is idempotent", func(t *testing.T) {
		st := scripted(outcome{status: 200})
		c := NewWithTransport(st, noRetry)
		f := c.SendAsync(newRequest(t, "GET", "http://test.local/", nil))
		first := f.Wait()
		second := f.Wait()
		assert.Same(t, first, second)
	})

	t.Run("wait context abandons the wait not the send", func(t *testing.T) {
		c := NewWithTransport(blockingTransport{}, Config{
			Retry:           retry.Never,
			OverallDeadline: 100 * time.Millisecond,
		})
		f := c.SendAsync(newRequest(t, "GET", "http://test.local/slow", nil))

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
		defer cancel()
		resp, err := f.WaitContext(ctx)
		assert.Nil(t, resp)
		assert.ErrorIs(t, err, context.DeadlineExceeded)

		// The send itself keeps running and completes on its own
		// deadline.
		final := f.Wait()
		require.NotNil(t, final)
		assert.Equal(t, classify.Timeout, final.Kind)
	})
}
