// Copyright 2026 The blaze Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package transport

import (
	"bytes"
	"context"
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/http/httptrace"
	"net/url"
	"time"

	"github.com/malwarebo/blaze/classify"
	"github.com/malwarebo/blaze/request"
)

const readChunkSize = 32 * 1024

// Config describes how to build the net/http-backed transport.
type Config struct {
	// InsecureSkipVerify disables TLS certificate verification.
	InsecureSkipVerify bool
	// RootCAs overrides the system certificate pool when non-nil.
	RootCAs *x509.CertPool
	// Proxy routes all requests through the given proxy URL. When
	// nil, the standard environment proxy variables apply.
	Proxy *url.URL
}

// HTTP is the production Transport. It wraps an http.Client configured
// from Config, with redirect policy taken per-request from the
// resolved request rather than fixed at construction.
type HTTP struct {
	client *http.Client
}

var _ Transport = (*HTTP)(nil)

// NewHTTP builds a Transport over net/http from the given Config.
func NewHTTP(cfg Config) *HTTP {
	proxy := http.ProxyFromEnvironment
	if cfg.Proxy != nil {
		proxy = http.ProxyURL(cfg.Proxy)
	}
	t := &http.Transport{
		Proxy: proxy,
		DialContext: (&net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: cfg.InsecureSkipVerify,
			RootCAs:            cfg.RootCAs,
		},
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	return &HTTP{
		client: &http.Client{
			Transport:     t,
			CheckRedirect: checkRedirect,
		},
	}
}

// NewHTTPFromClient wraps an existing http.Client as a Transport. The
// client's CheckRedirect is replaced so that the per-request redirect
// policy applies.
func NewHTTPFromClient(c *http.Client) *HTTP {
	c2 := *c
	c2.CheckRedirect = checkRedirect
	return &HTTP{client: &c2}
}

// Perform implements Transport. The resolved request's redirect policy
// and credentials are applied here; the per-attempt deadline is
// expected to already be set on ctx by the caller.
func (t *HTTP) Perform(ctx context.Context, r *request.Resolved, opts Options) (*Result, error) {
	ctx = withRedirectPolicy(ctx, r.FollowRedirects, r.MaxRedirects)

	var timings Timings
	if r.Metrics {
		ctx = httptrace.WithClientTrace(ctx, timingTrace(&timings))
	}

	req, err := newHTTPRequest(ctx, r)
	if err != nil {
		return nil, err
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	result := &Result{
		StatusCode: resp.StatusCode,
		Proto:      resp.Proto,
		Header:     resp.Header,
		Timings:    timings,
	}
	if err := readBody(resp.Body, resp.ContentLength, result, opts); err != nil {
		return nil, err
	}
	return result, nil
}

// CloseIdleConnections implements Transport.
func (t *HTTP) CloseIdleConnections() {
	t.client.CloseIdleConnections()
}

func newHTTPRequest(ctx context.Context, r *request.Resolved) (*http.Request, error) {
	var body io.Reader
	if len(r.Body) > 0 {
		body = bytes.NewReader(r.Body)
	}
	req, err := http.NewRequestWithContext(ctx, r.Method, r.URL.String(), body)
	if err != nil {
		return nil, err
	}
	req.Header = r.Header.Clone()
	if req.Header == nil {
		req.Header = make(http.Header)
	}
	r.Auth.Apply(req.Header)
	return req, nil
}

// readBody drains the response body chunk by chunk so that the size
// cap, sink, and progress callback all observe the transfer as it
// happens rather than after full buffering.
func readBody(body io.Reader, total int64, result *Result, opts Options) error {
	var buf bytes.Buffer
	chunk := make([]byte, readChunkSize)
	var done int64
	for {
		n, err := body.Read(chunk)
		if n > 0 {
			done += int64(n)
			result.BytesReceived = done
			if opts.MaxResponseSize > 0 && done > opts.MaxResponseSize {
				return fmt.Errorf("blaze/transport: received %d of maximum %d bytes: %w",
					done, opts.MaxResponseSize, classify.ErrTooLarge)
			}
			if opts.Sink != nil {
				if !opts.Sink(chunk[:n]) {
					return fmt.Errorf("blaze/transport: streaming sink stopped after %d bytes: %w",
						done, classify.ErrCancelled)
				}
			} else {
				buf.Write(chunk[:n])
			}
			if opts.Progress != nil {
				if !opts.Progress(done, total) {
					return fmt.Errorf("blaze/transport: progress callback stopped after %d bytes: %w",
						done, classify.ErrCancelled)
				}
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
	}
	if opts.Sink == nil {
		result.Body = buf.Bytes()
	}
	return nil
}

type redirectPolicyKey struct{}

type redirectPolicy struct {
	follow bool
	max    int
}

func withRedirectPolicy(ctx context.Context, follow bool, max int) context.Context {
	return context.WithValue(ctx, redirectPolicyKey{}, redirectPolicy{follow: follow, max: max})
}

// checkRedirect consults the redirect policy travelling in the request
// context. http.Client applies one CheckRedirect per client, so the
// per-request policy has to ride along on the context.
func checkRedirect(req *http.Request, via []*http.Request) error {
	p, ok := req.Context().Value(redirectPolicyKey{}).(redirectPolicy)
	if !ok {
		return nil
	}
	if !p.follow {
		return http.ErrUseLastResponse
	}
	if len(via) >= p.max {
		return fmt.Errorf("blaze/transport: stopped after %d redirects", p.max)
	}
	return nil
}

func timingTrace(t *Timings) *httptrace.ClientTrace {
	var dnsStart, connectStart, tlsStart time.Time
	return &httptrace.ClientTrace{
		DNSStart: func(httptrace.DNSStartInfo) {
			dnsStart = time.Now()
		},
		DNSDone: func(httptrace.DNSDoneInfo) {
			if !dnsStart.IsZero() {
				t.DNS = time.Since(dnsStart)
			}
		},
		ConnectStart: func(string, string) {
			connectStart = time.Now()
		},
		ConnectDone: func(string, string, error) {
			if !connectStart.IsZero() {
				t.Connect = time.Since(connectStart)
			}
		},
		TLSHandshakeStart: func() {
			tlsStart = time.Now()
		},
		TLSHandshakeDone: func(tls.ConnectionState, error) {
			if !tlsStart.IsZero() {
				t.TLSHandshake = time.Since(tlsStart)
			}
		},
	}
}
