// Copyright 2026 The blaze Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const nilCtxMsg = "blaze/request: nil context"

// A Request describes one logical HTTP request for execution by a
// client.
//
// The logical request described by a Request will typically result in
// a single lower-level request attempt being made, but may result in
// multiple attempts, for example if a failed attempt needs to be
// retried.
//
// Fields left at their zero value fall back to the owning client's
// defaults when the request is resolved for execution (see Resolve).
// The pointer-typed override fields distinguish "not set" (nil, use
// the client default) from an explicit zero value.
//
// A Request is constructed by the caller or by a Builder and is
// consumed read-only by the execution logic; request interceptors are
// the only sanctioned mutation point, and they operate on the Resolved
// form, not on the Request itself.
type Request struct {
	// Method specifies the HTTP method (GET, POST, PUT, etc.).
	// An empty string means GET.
	Method string

	// URL is the raw target URL. It is validated against the absolute
	// http(s) URL grammar when the request is resolved; a malformed
	// URL fails the whole send before any attempt is made.
	URL string

	// Header contains the request header fields to be sent. Header
	// keys here take precedence over same-named client default
	// headers.
	Header http.Header

	// Body is the pre-buffered request body to be sent. A nil or
	// empty body indicates no request body should be sent, for example
	// on a GET or DELETE request.
	Body []byte

	// Timeout optionally overrides the client's per-attempt timeout.
	Timeout *time.Duration

	// FollowRedirects optionally overrides the client's redirect
	// chasing behavior.
	FollowRedirects *bool

	// MaxRedirects optionally overrides the client's redirect chase
	// depth cap.
	MaxRedirects *int

	// Auth optionally overrides the client's credentials for this
	// request only.
	Auth *Auth

	// ID is the correlation identifier for the logical request. If
	// empty, one is generated when the request is resolved.
	ID string

	// Metrics enables capture of a per-send Metrics record on the
	// returned Response.
	Metrics bool

	// ctx allows the entire logical send to be cancelled. It should
	// only be modified by copying the whole Request using WithContext.
	ctx context.Context
}

// New wraps NewWithContext using the background context.
//
// Parameter body may be nil (empty body), or it may be a string,
// []byte, io.Reader, or io.ReadCloser. If body is an io.Reader, it is
// read to the end and buffered into a []byte. If body is an
// io.ReadCloser, it is closed after buffering.
func New(method, url string, body interface{}) (*Request, error) {
	return NewWithContext(context.Background(), method, url, body)
}

// NewWithContext returns a new Request given a method, URL, and
// optional body.
//
// The URL is deliberately not validated here; validation happens at
// resolution time so that a malformed URL surfaces as an InvalidURL
// response rather than as a construction error.
//
// Parameter body may be nil (empty body), or it may be a string,
// []byte, io.Reader, or io.ReadCloser. If body is an io.Reader, it is
// read to the end and buffered into a []byte. If body is an
// io.ReadCloser, it is closed after buffering.
func NewWithContext(ctx context.Context, method, url string, body interface{}) (*Request, error) {
	if ctx == nil {
		return nil, errors.New(nilCtxMsg)
	}
	if method == "" {
		method = "GET"
	}
	if !validMethod(method) {
		return nil, fmt.Errorf("blaze/request: invalid method %q", method)
	}
	b, err := BodyBytes(body)
	if err != nil {
		return nil, err
	}
	return &Request{
		ctx:    ctx,
		Method: method,
		URL:    url,
		Header: make(http.Header),
		Body:   b,
	}, nil
}

// Context returns the request's context. The context controls
// cancellation of the overall logical send. To change the context,
// use WithContext.
//
// The returned context is always non-nil; it defaults to the
// background context.
func (r *Request) Context() context.Context {
	if r.ctx != nil {
		return r.ctx
	}
	return context.Background()
}

// WithContext returns a shallow copy of r with its context changed to
// ctx, which must be non-nil.
//
// The context controls the entire lifetime of a logical send,
// including: making individual request attempts, running interceptors,
// and waiting for a retry backoff period to expire.
func (r *Request) WithContext(ctx context.Context) *Request {
	if ctx == nil {
		panic(nilCtxMsg)
	}
	r2 := new(Request)
	*r2 = *r
	r2.ctx = ctx
	return r2
}

func validMethod(method string) bool {
	/*
	     Method         = "OPTIONS"                ; Section 9.2
	                    | "GET"                    ; Section 9.3
	                    | "HEAD"                   ; Section 9.4
	                    | "POST"                   ; Section 9.5
	                    | "PUT"                    ; Section 9.6
	                    | "DELETE"                 ; Section 9.7
	                    | "TRACE"                  ; Section 9.8
	                    | "CONNECT"                ; Section 9.9
	                    | extension-method
	   extension-method = token
	     token          = 1*<any CHAR except CTLs or separators>

	   We don't need to check for length more than 1 because we always
	   interpret the empty string as "GET".
	*/
	return strings.IndexFunc(method, isNotToken) == -1
}

func isNotToken(r rune) bool {
	return !isTokenRune(r)
}

// isTokenRune is lifted from x/net/http/httpguts/httplex.go (but
// converted to non-exported). It classifies a rune as being valid for
// a token as defined in https://tools.ietf.org/html/rfc7230#section-3.2.6
func isTokenRune(r rune) bool {
	i := int(r)
	return i < len(isTokenTable) && isTokenTable[i]
}

var isTokenTable = func() [127]bool {
	var t [127]bool
	for _, r := range "!#$%&'*+-.^_`|~0123456789" +
		"ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz" {
		t[r] = true
	}
	return t
}()
