// Copyright 2026 The blaze Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package blaze

import (
	"context"
	"net/http"
	"time"

	"github.com/malwarebo/blaze/request"
)

// A Builder accumulates request fields fluently and terminates in
// Build, Send, or SendAsync.
//
// Builder is an immutable value: every configuration method returns a
// new Builder and leaves the receiver unchanged, so builders may be
// shared, stored, and forked without aliasing hazards:
//
//	base := blaze.NewBuilder("GET", "https://api.example.com/items").
//		Header("Accept", "application/json")
//	fast := base.Timeout(500 * time.Millisecond)
//	slow := base.Timeout(10 * time.Second)
//
// A Builder obtained from Client.NewRequest is bound to that client
// and can Send directly; one from NewBuilder can only Build.
type Builder struct {
	client  *Client
	ctx     context.Context
	method  string
	url     string
	header  http.Header
	body    interface{}
	timeout *time.Duration
	follow  *bool
	maxRed  *int
	auth    *request.Auth
	id      string
	metrics bool
}

// NewBuilder starts a builder for the given method and URL, unbound
// to any client.
func NewBuilder(method, url string) Builder {
	return Builder{method: method, url: url}
}

// NewRequest starts a builder for the given method and URL, bound to
// the client so that Send and SendAsync work.
func (c *Client) NewRequest(method, url string) Builder {
	return Builder{client: c, method: method, url: url}
}

// Context sets the context controlling the whole send, including
// retry backoff waits.
func (b Builder) Context(ctx context.Context) Builder {
	b.ctx = ctx
	return b
}

// Header adds a header value. The header map is copied, so the
// receiver is unchanged.
func (b Builder) Header(key, value string) Builder {
	h := make(http.Header, len(b.header)+1)
	for k, vv := range b.header {
		h[k] = append([]string(nil), vv...)
	}
	h.Add(key, value)
	b.header = h
	return b
}

// ContentType sets the Content-Type header.
func (b Builder) ContentType(value string) Builder {
	return b.Header("Content-Type", value)
}

// Body sets the request body. It accepts the same types as
// request.BodyBytes: nil, string, []byte, io.Reader, io.ReadCloser.
// An invalid type surfaces as an error from Build.
func (b Builder) Body(body interface{}) Builder {
	b.body = body
	return b
}

// Timeout overrides the client's per-attempt timeout for this request.
func (b Builder) Timeout(d time.Duration) Builder {
	b.timeout = &d
	return b
}

// FollowRedirects overrides the client's redirect chasing behavior
// for this request.
func (b Builder) FollowRedirects(follow bool) Builder {
	b.follow = &follow
	return b
}

// MaxRedirects overrides the client's redirect chase depth cap for
// this request.
func (b Builder) MaxRedirects(n int) Builder {
	b.maxRed = &n
	return b
}

// BasicAuth attaches HTTP Basic credentials to this request.
func (b Builder) BasicAuth(username, password string) Builder {
	b.auth = &request.Auth{Basic: &request.BasicAuth{Username: username, Password: password}}
	return b
}

// BearerAuth attaches a bearer token to this request.
func (b Builder) BearerAuth(token string) Builder {
	b.auth = &request.Auth{Bearer: token}
	return b
}

// APIKey attaches an API key credential to this request. An empty
// header name defaults to "X-API-Key".
func (b Builder) APIKey(header, value string) Builder {
	b.auth = &request.Auth{APIKey: &request.APIKey{Header: header, Value: value}}
	return b
}

// ID sets the correlation identifier; when unset, one is generated at
// resolution.
func (b Builder) ID(id string) Builder {
	b.id = id
	return b
}

// Metrics enables capture of the per-send Metrics record.
func (b Builder) Metrics() Builder {
	b.metrics = true
	return b
}

// Build produces the immutable Request described by the builder.
func (b Builder) Build() (*request.Request, error) {
	ctx := b.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	r, err := request.NewWithContext(ctx, b.method, b.url, b.body)
	if err != nil {
		return nil, err
	}
	for k, vv := range b.header {
		for _, v := range vv {
			r.Header.Add(k, v)
		}
	}
	r.Timeout = b.timeout
	r.FollowRedirects = b.follow
	r.MaxRedirects = b.maxRed
	r.Auth = b.auth
	r.ID = b.id
	r.Metrics = b.metrics
	return r, nil
}

// Send builds the request and sends it on the bound client. A build
// error is captured into the returned Response. Send panics if the
// builder is not bound to a client.
func (b Builder) Send() *request.Response {
	if b.client == nil {
		panic("blaze: builder not bound to a client; use Client.NewRequest")
	}
	r, err := b.Build()
	if err != nil {
		return errorResponse(err)
	}
	return b.client.Send(r)
}

// SendAsync builds the request and sends it asynchronously on the
// bound client. SendAsync panics if the builder is not bound to a
// client.
func (b Builder) SendAsync() *Future {
	if b.client == nil {
		panic("blaze: builder not bound to a client; use Client.NewRequest")
	}
	r, err := b.Build()
	if err != nil {
		f := &Future{done: make(chan struct{}), resp: errorResponse(err)}
		close(f.done)
		return f
	}
	return b.client.SendAsync(r)
}
