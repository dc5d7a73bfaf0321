// Copyright 2026 The blaze Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package blaze

import (
	"context"
	"crypto/x509"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/malwarebo/blaze/classify"
	"github.com/malwarebo/blaze/pool"
	"github.com/malwarebo/blaze/request"
	"github.com/malwarebo/blaze/retry"
	"github.com/malwarebo/blaze/transport"
)

// Config holds the client-wide defaults and limits. It is read (not
// mutated) during a send; the Set* methods on Client mutate it with no
// synchronization guarantee against concurrently in-flight sends, so
// do not reconfigure a client from one goroutine while sends are
// active on others unless external synchronization is added.
type Config struct {
	// DefaultHeaders are merged under each request's own headers; on
	// a key collision the request value wins.
	DefaultHeaders http.Header

	// Timeout caps the wall-clock duration of one attempt. It is not
	// a bound on the whole send: with retries, total wall time can
	// reach max_attempts × (Timeout + backoff delay). Use
	// OverallDeadline to bound the whole send. Zero means
	// DefaultTimeout.
	Timeout time.Duration

	// FollowRedirects toggles automatic redirect chasing. Note the
	// zero value disables it; DefaultConfig returns it enabled.
	FollowRedirects bool

	// MaxRedirects caps the redirect chase depth. Zero means
	// DefaultMaxRedirects.
	MaxRedirects int

	// MaxConnections caps the number of idle transport handles held
	// for reuse. Zero means DefaultMaxConnections.
	MaxConnections int

	// InsecureSkipVerify disables TLS certificate verification.
	InsecureSkipVerify bool

	// RootCAs overrides the system certificate pool when non-nil.
	RootCAs *x509.CertPool

	// Proxy routes all requests through the given proxy URL. When
	// nil, the standard environment proxy variables apply.
	Proxy *url.URL

	// Auth is the default credential set attached to every request;
	// nil means none.
	Auth *request.Auth

	// Retry decides whether failed attempts are retried and how long
	// to back off. Nil means retry.DefaultPolicy; use retry.Never to
	// disable retries.
	Retry retry.Policy

	// MaxResponseSize aborts an attempt once more than this many
	// response body bytes have been received. Zero means unlimited.
	MaxResponseSize int64

	// OverallDeadline, when positive, bounds the wall-clock time of a
	// whole send (all attempts and backoff waits). It is layered
	// outside the per-attempt Timeout, not a replacement for it.
	OverallDeadline time.Duration

	// Limiter, when non-nil, gates every attempt through the rate
	// limiter; the wait counts against the overall deadline but not
	// against the per-attempt timeout.
	Limiter *rate.Limiter

	// Logger receives structured client logs. Nil means no logging.
	Logger *zerolog.Logger

	// LogLevel filters the logger ("trace", "debug", "info", "warn",
	// "error", "fatal", "panic", "disabled"). An empty or unparseable
	// value falls back to "info".
	LogLevel string
}

// Default limits applied where Config fields are zero.
const (
	DefaultTimeout        = 30 * time.Second
	DefaultMaxRedirects   = 5
	DefaultMaxConnections = 10
)

// DefaultConfig returns the configuration used by New: 30 second
// attempt timeout, redirects followed up to 5 hops, at most 10 idle
// transport handles, TLS verification on, default retry policy, no
// size cap, no logging.
func DefaultConfig() Config {
	return Config{
		Timeout:         DefaultTimeout,
		FollowRedirects: true,
		MaxRedirects:    DefaultMaxRedirects,
		MaxConnections:  DefaultMaxConnections,
	}
}

// A Client executes logical HTTP requests against a transport,
// applying retry/backoff policy, per-attempt timeouts, connection
// reuse, and interceptors.
//
// A Client holds internal state (the connection pool) and should be
// reused rather than created per request. Sends may run concurrently
// from multiple goroutines; the configuration setters may not run
// concurrently with sends.
type Client struct {
	cfg              Config
	injected         transport.Transport
	pool             *pool.Pool
	reqInterceptors  []RequestInterceptor
	respInterceptors []ResponseInterceptor
	log              zerolog.Logger
}

// New creates a Client with DefaultConfig.
func New() *Client {
	return NewWithConfig(DefaultConfig())
}

// NewWithConfig creates a Client with the given configuration. Zero
// values for Timeout, MaxRedirects, and MaxConnections are replaced
// with the package defaults; a nil Retry means retry.DefaultPolicy.
func NewWithConfig(cfg Config) *Client {
	c := &Client{cfg: normalize(cfg)}
	c.log = buildLogger(c.cfg)
	c.rebuildPool()
	return c
}

// NewWithTransport creates a Client that performs all attempts through
// the given transport instead of the built-in net/http one. This is
// the substitution point for tests and for hosts that manage transport
// lifetime themselves; the TLS and proxy fields of cfg are ignored
// since they configure the built-in transport.
func NewWithTransport(t transport.Transport, cfg Config) *Client {
	if t == nil {
		panic("blaze: nil transport")
	}
	c := &Client{cfg: normalize(cfg), injected: t}
	c.log = buildLogger(c.cfg)
	c.rebuildPool()
	return c
}

func normalize(cfg Config) Config {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxRedirects <= 0 {
		cfg.MaxRedirects = DefaultMaxRedirects
	}
	if cfg.MaxConnections <= 0 {
		cfg.MaxConnections = DefaultMaxConnections
	}
	if cfg.Retry == nil {
		cfg.Retry = retry.DefaultPolicy
	}
	return cfg
}

func buildLogger(cfg Config) zerolog.Logger {
	if cfg.Logger == nil {
		return zerolog.Nop()
	}
	return cfg.Logger.Level(parseLevel(cfg.LogLevel))
}

func parseLevel(level string) zerolog.Level {
	l, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return l
}

// rebuildPool replaces the connection pool, destroying all idle
// handles. Called at construction and by the setters that change how
// transport handles are built.
func (c *Client) rebuildPool() {
	if c.pool != nil {
		c.pool.Close()
	}
	factory := c.transportFactory()
	c.pool = pool.New(factory, c.cfg.MaxConnections)
}

func (c *Client) transportFactory() pool.Factory {
	if c.injected != nil {
		t := sharedTransport{c.injected}
		return func() transport.Transport { return t }
	}
	cfg := transport.Config{
		InsecureSkipVerify: c.cfg.InsecureSkipVerify,
		RootCAs:            c.cfg.RootCAs,
		Proxy:              c.cfg.Proxy,
	}
	return func() transport.Transport { return transport.NewHTTP(cfg) }
}

// sharedTransport shields an injected transport from the pool's
// destroy-on-overflow behavior. Every pool handle is the same
// underlying instance, so an over-capacity release must not close the
// connections other in-flight sends are using; only an explicit
// Client.CloseIdleConnections reaches the injected transport.
type sharedTransport struct {
	transport.Transport
}

func (sharedTransport) CloseIdleConnections() {}

func (c *Client) defaults() request.Defaults {
	return request.Defaults{
		Headers:         c.cfg.DefaultHeaders,
		Timeout:         c.cfg.Timeout,
		FollowRedirects: c.cfg.FollowRedirects,
		MaxRedirects:    c.cfg.MaxRedirects,
		Auth:            c.cfg.Auth,
	}
}

// Send executes the logical request and returns its outcome. It
// blocks until the final attempt concludes.
//
// Send never returns nil and never panics on transport failure: DNS,
// connect, TLS, timeout, and size-cap failures are all captured into
// the returned Response's Kind and Message fields.
func (c *Client) Send(r *request.Request) *request.Response {
	return c.send(r, transport.Options{MaxResponseSize: c.cfg.MaxResponseSize})
}

// StreamResponse executes the request, delivering the response body
// incrementally to sink instead of buffering it; the returned
// Response has a nil Body. A sink returning false aborts the transfer
// with the Cancelled kind, which is never retried.
//
// If an attempt fails after the sink has consumed data and the retry
// policy orders a retry, the sink observes the next attempt's body
// from its beginning.
func (c *Client) StreamResponse(r *request.Request, sink transport.Sink) *request.Response {
	return c.send(r, transport.Options{Sink: sink, MaxResponseSize: c.cfg.MaxResponseSize})
}

// SendWithProgress executes the request, invoking progress with
// (bytes so far, bytes total) as the response body arrives; total is
// -1 when the server did not declare a length. A progress callback
// returning false cancels the attempt with the Cancelled kind, which
// is never retried.
func (c *Client) SendWithProgress(r *request.Request, progress transport.Progress) *request.Response {
	return c.send(r, transport.Options{Progress: progress, MaxResponseSize: c.cfg.MaxResponseSize})
}

func (c *Client) send(r *request.Request, opts transport.Options) *request.Response {
	start := time.Now()

	res, err := request.Resolve(r, c.defaults())
	if err != nil {
		c.log.Error().Str("id", r.ID).Str("url", r.URL).Err(err).Msg("request resolution failed")
		return &request.Response{
			Kind:      classify.InvalidURL,
			Message:   err.Error(),
			RequestID: r.ID,
		}
	}

	ctx := r.Context()
	if c.cfg.OverallDeadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.cfg.OverallDeadline)
		defer cancel()
	}

	if err := runRequestInterceptors(ctx, c.reqInterceptors, res); err != nil {
		return &request.Response{
			Kind:      classify.Unknown,
			Message:   "request interceptor: " + err.Error(),
			RequestID: res.ID,
		}
	}

	e := &request.Execution{Request: res, Start: time.Now()}
	var result *transport.Result
	attempts := 0

RetryLoop:
	for {
		if c.cfg.Limiter != nil {
			if err := c.cfg.Limiter.Wait(ctx); err != nil {
				e.Err = err
				e.Kind = classify.Classify(err)
				break
			}
		}

		result = c.attempt(ctx, e, opts)
		attempts++

		c.log.Debug().
			Str("id", res.ID).
			Str("method", res.Method).
			Str("url", res.URL.String()).
			Int("attempt", e.Attempt).
			Int("status", e.StatusCode).
			Stringer("kind", e.Kind).
			Msg("attempt finished")

		// An attempt that concluded before the context expired keeps
		// its outcome; an obtained response is never overwritten with
		// the context error.
		if ctx.Err() != nil {
			break
		}
		if !c.cfg.Retry.Decide(e) {
			break
		}
		wait := c.cfg.Retry.Wait(e)
		e.RetryWaits = append(e.RetryWaits, wait)
		c.log.Debug().Str("id", res.ID).Dur("wait", wait).Int("attempt", e.Attempt).Msg("retrying")
		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			e.Err = ctx.Err()
			e.Kind = classify.Classify(e.Err)
			break RetryLoop
		}
		e.Reset()
		result = nil
	}

	e.End = time.Now()
	resp := c.conclude(e, result, start, res, attempts)

	if err := runResponseInterceptors(ctx, c.respInterceptors, res, resp); err != nil {
		resp.Success = false
		if resp.Kind == classify.None {
			resp.Kind = classify.Unknown
		}
		resp.Message = "response interceptor: " + err.Error()
	}
	return resp
}

// attempt performs one transport exchange: acquire a handle, perform
// under the per-attempt timeout, classify, release. The returned
// result is nil when the attempt failed.
func (c *Client) attempt(ctx context.Context, e *request.Execution, opts transport.Options) *transport.Result {
	t := c.pool.Acquire()
	attemptCtx, cancel := context.WithTimeout(ctx, e.Request.Timeout)
	result, err := t.Perform(attemptCtx, e.Request, opts)
	cancel()
	c.pool.Release(t)

	if err != nil {
		e.Err = err
		e.Kind = classify.Classify(err)
		if e.Kind == classify.Timeout {
			e.AttemptTimeouts++
		}
		return nil
	}
	e.Err = nil
	e.Kind = classify.None
	e.StatusCode = result.StatusCode
	e.Header = result.Header
	e.Body = result.Body
	e.BytesReceived = result.BytesReceived
	return result
}

// conclude builds the final Response from the execution state of the
// last attempt. The attempts count is the number of Perform calls
// actually made, which is zero when the send was cut short before the
// first exchange.
func (c *Client) conclude(e *request.Execution, result *transport.Result, start time.Time, res *request.Resolved, attempts int) *request.Response {
	resp := &request.Response{
		RequestID:  res.ID,
		Attempts:   attempts,
		RetryWaits: e.RetryWaits,
	}
	if e.Err != nil {
		resp.Kind = e.Kind
		resp.Message = e.Err.Error()
	} else {
		resp.Success = true
		resp.StatusCode = e.StatusCode
		resp.Header = e.Header
		resp.Body = e.Body
	}

	if res.Metrics {
		total := time.Since(start)
		m := &request.Metrics{
			Total:         total,
			BytesSent:     int64(len(res.Body)),
			BytesReceived: e.BytesReceived,
		}
		if result != nil {
			m.DNS = result.Timings.DNS
			m.Connect = result.Timings.Connect
			m.TLSHandshake = result.Timings.TLSHandshake
		}
		if secs := total.Seconds(); secs > 0 {
			m.UploadSpeed = float64(m.BytesSent) / secs
			m.DownloadSpeed = float64(m.BytesReceived) / secs
		}
		resp.Metrics = m
	}
	return resp
}

// CloseIdleConnections destroys all idle transport handles held by
// the connection pool. With an injected transport the pool handles are
// one shared instance, so its idle connections are closed exactly
// once.
func (c *Client) CloseIdleConnections() {
	c.pool.Close()
	if c.injected != nil {
		c.injected.CloseIdleConnections()
	}
	c.rebuildPool()
}

// Configuration setters. None of these may be called concurrently
// with in-flight sends.

// SetDefaultHeader sets a client-wide default header applied to every
// request that does not itself set the same key.
func (c *Client) SetDefaultHeader(key, value string) {
	if c.cfg.DefaultHeaders == nil {
		c.cfg.DefaultHeaders = make(http.Header)
	}
	c.cfg.DefaultHeaders.Set(key, value)
}

// SetTimeout sets the per-attempt timeout.
func (c *Client) SetTimeout(d time.Duration) {
	if d > 0 {
		c.cfg.Timeout = d
	}
}

// SetFollowRedirects toggles automatic redirect chasing.
func (c *Client) SetFollowRedirects(follow bool) {
	c.cfg.FollowRedirects = follow
}

// SetMaxRedirects caps the redirect chase depth.
func (c *Client) SetMaxRedirects(n int) {
	if n > 0 {
		c.cfg.MaxRedirects = n
	}
}

// SetAuth sets the default credentials; nil clears them.
func (c *Client) SetAuth(a *request.Auth) {
	c.cfg.Auth = a
}

// SetRetryPolicy replaces the retry policy; nil restores the default.
func (c *Client) SetRetryPolicy(p retry.Policy) {
	if p == nil {
		p = retry.DefaultPolicy
	}
	c.cfg.Retry = p
}

// SetMaxResponseSize caps received body bytes per attempt; zero or
// negative means unlimited.
func (c *Client) SetMaxResponseSize(n int64) {
	if n < 0 {
		n = 0
	}
	c.cfg.MaxResponseSize = n
}

// SetOverallDeadline bounds the wall-clock time of a whole send; zero
// disables the bound.
func (c *Client) SetOverallDeadline(d time.Duration) {
	if d < 0 {
		d = 0
	}
	c.cfg.OverallDeadline = d
}

// SetLimiter installs a rate limiter gating attempts; nil removes it.
func (c *Client) SetLimiter(l *rate.Limiter) {
	c.cfg.Limiter = l
}

// SetLogLevel adjusts the logger's level.
func (c *Client) SetLogLevel(level string) {
	c.cfg.LogLevel = level
	c.log = c.log.Level(parseLevel(level))
}

// SetMaxConnections caps the idle transport handle count. The pool is
// rebuilt, destroying currently idle handles.
func (c *Client) SetMaxConnections(n int) {
	if n > 0 {
		c.cfg.MaxConnections = n
		c.rebuildPool()
	}
}

// SetProxy routes requests through the given proxy URL; nil restores
// environment proxy behavior. The pool is rebuilt.
func (c *Client) SetProxy(u *url.URL) {
	c.cfg.Proxy = u
	c.rebuildPool()
}

// SetInsecureSkipVerify toggles TLS certificate verification. The
// pool is rebuilt.
func (c *Client) SetInsecureSkipVerify(skip bool) {
	c.cfg.InsecureSkipVerify = skip
	c.rebuildPool()
}

// SetRootCAs overrides the certificate pool used for TLS
// verification; nil restores the system pool. The pool is rebuilt.
func (c *Client) SetRootCAs(cas *x509.CertPool) {
	c.cfg.RootCAs = cas
	c.rebuildPool()
}
