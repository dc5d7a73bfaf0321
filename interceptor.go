// Copyright 2026 The blaze Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package blaze

import (
	"context"

	"github.com/malwarebo/blaze/request"
)

// A RequestInterceptor is called once per logical send, after the
// request has been resolved and before the first attempt. It receives
// a mutable view of the resolved request; changes it makes apply to
// every attempt of the send.
//
// Returning a non-nil error aborts the send with an Unknown error
// kind and no attempt made.
type RequestInterceptor func(ctx context.Context, r *request.Resolved) error

// A ResponseInterceptor is called once per logical send, on the final
// response after the last attempt. It may mutate the response.
//
// Returning a non-nil error marks the response failed with an Unknown
// error kind.
type ResponseInterceptor func(ctx context.Context, r *request.Resolved, resp *request.Response) error

// UseRequest appends interceptors to the back of the request
// interceptor chain. Interceptors run in registration order, exactly
// once per logical send (not once per attempt), with no isolation
// between them: each sees the mutations of those before it.
func (c *Client) UseRequest(interceptors ...RequestInterceptor) {
	for _, i := range interceptors {
		if i == nil {
			panic("blaze: nil interceptor")
		}
	}
	c.reqInterceptors = append(c.reqInterceptors, interceptors...)
}

// UseResponse appends interceptors to the back of the response
// interceptor chain. Interceptors run in registration order, exactly
// once per logical send, on the final response only.
func (c *Client) UseResponse(interceptors ...ResponseInterceptor) {
	for _, i := range interceptors {
		if i == nil {
			panic("blaze: nil interceptor")
		}
	}
	c.respInterceptors = append(c.respInterceptors, interceptors...)
}

func runRequestInterceptors(ctx context.Context, chain []RequestInterceptor, r *request.Resolved) error {
	for _, i := range chain {
		if err := i(ctx, r); err != nil {
			return err
		}
	}
	return nil
}

func runResponseInterceptors(ctx context.Context, chain []ResponseInterceptor, r *request.Resolved, resp *request.Response) error {
	for _, i := range chain {
		if err := i(ctx, r, resp); err != nil {
			return err
		}
	}
	return nil
}
