// Copyright 2026 The blaze Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"net/http"
	urlpkg "net/url"
	"strings"
	"time"

	"github.com/malwarebo/blaze/codec"
)

// Defaults carries the client-wide fallback values applied to a
// Request during resolution. Every overridable Request field uses the
// per-request value if present, else the corresponding default.
type Defaults struct {
	// Headers are merged under the request's own headers; on a key
	// collision the request value wins.
	Headers http.Header
	// Timeout caps the wall-clock duration of one attempt.
	Timeout time.Duration
	// FollowRedirects toggles automatic redirect chasing.
	FollowRedirects bool
	// MaxRedirects caps the redirect chase depth.
	MaxRedirects int
	// Auth is the default credential set; nil means none.
	Auth *Auth
}

// A Resolved is a Request with all client-default fallbacks applied,
// ready for execution. All attempts of a single logical send share one
// Resolved value. No optional fields remain: timeout, redirect policy,
// and auth are concrete.
type Resolved struct {
	Method          string
	URL             *urlpkg.URL
	Header          http.Header
	Body            []byte
	Timeout         time.Duration
	FollowRedirects bool
	MaxRedirects    int
	Auth            *Auth
	ID              string
	Metrics         bool
}

// Resolve merges the per-request overrides in r with the client
// defaults in d, producing a Resolved request.
//
// Resolve validates the request URL against the absolute http(s) URL
// grammar; on failure it returns a non-nil error and the whole send
// must short-circuit with no attempt made. As a side effect, Resolve
// assigns a correlation ID to r if the caller did not supply one, so
// that even a failed resolution is attributable.
func Resolve(r *Request, d Defaults) (*Resolved, error) {
	if r.ID == "" {
		r.ID = codec.NewRequestID()
	}

	u, err := codec.ParseURL(r.URL)
	if err != nil {
		return nil, err
	}
	u.Host = removeEmptyPort(u.Host)

	method := r.Method
	if method == "" {
		method = "GET"
	}

	res := &Resolved{
		Method:          method,
		URL:             u,
		Header:          mergeHeaders(d.Headers, r.Header),
		Body:            r.Body,
		Timeout:         d.Timeout,
		FollowRedirects: d.FollowRedirects,
		MaxRedirects:    d.MaxRedirects,
		Auth:            d.Auth,
		ID:              r.ID,
		Metrics:         r.Metrics,
	}
	if r.Timeout != nil {
		res.Timeout = *r.Timeout
	}
	if r.FollowRedirects != nil {
		res.FollowRedirects = *r.FollowRedirects
	}
	if r.MaxRedirects != nil {
		res.MaxRedirects = *r.MaxRedirects
	}
	if r.Auth != nil {
		res.Auth = r.Auth
	}
	return res, nil
}

// mergeHeaders returns a new header map holding defaults overlaid
// with overrides. A key present in both keeps only the override
// values. Neither input map is mutated.
func mergeHeaders(defaults, overrides http.Header) http.Header {
	merged := make(http.Header, len(defaults)+len(overrides))
	for k, vv := range defaults {
		merged[k] = append([]string(nil), vv...)
	}
	for k, vv := range overrides {
		merged[http.CanonicalHeaderKey(k)] = append([]string(nil), vv...)
	}
	return merged
}

// hasPort is lifted verbatim from net/http/http.go
//
// Given a string of the form "host", "host:port", or "[ipv6::address]:port",
// return true if the string includes a port.
func hasPort(s string) bool { return strings.LastIndex(s, ":") > strings.LastIndex(s, "]") }

// removeEmptyPort is lifted verbatim from net/http/http.go
//
// removeEmptyPort strips the empty port in ":port" to ""
// as mandated by RFC 3986 Section 6.2.3.
func removeEmptyPort(host string) string {
	if hasPort(host) {
		return strings.TrimSuffix(host, ":")
	}
	return host
}
