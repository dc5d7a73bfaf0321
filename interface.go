// Copyright 2026 The blaze Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package blaze

import (
	"net/url"

	"github.com/malwarebo/blaze/classify"
	"github.com/malwarebo/blaze/request"
	"github.com/malwarebo/blaze/transport"
)

// Sender is the interface that wraps the basic Send method. Client
// implements Sender, and any other implementation must behave
// substantially the same as Client.Send: block until the final
// attempt concludes and never return nil.
//
// The package-level verb helpers (Get, Post, and friends) work with
// any Sender.
type Sender interface {
	Send(r *request.Request) *request.Response
}

// Streamer is the interface that wraps the StreamResponse method.
type Streamer interface {
	StreamResponse(r *request.Request, sink transport.Sink) *request.Response
}

// IdleCloser is the interface that wraps the CloseIdleConnections
// method.
type IdleCloser interface {
	CloseIdleConnections()
}

// Executor is the interface that groups the full send surface
// implemented by Client.
type Executor interface {
	Sender
	Streamer
	IdleCloser
	SendAsync(r *request.Request) *Future
	SendWithProgress(r *request.Request, progress transport.Progress) *request.Response
}

var _ Executor = (*Client)(nil)

// Get issues a GET to the specified URL, using the same policies
// followed by Send.
func (c *Client) Get(url string) *request.Response { return Get(c, url) }

// Head issues a HEAD to the specified URL, using the same policies
// followed by Send.
func (c *Client) Head(url string) *request.Response { return Head(c, url) }

// Options issues an OPTIONS to the specified URL, using the same
// policies followed by Send.
func (c *Client) Options(url string) *request.Response { return Options(c, url) }

// Delete issues a DELETE to the specified URL, using the same
// policies followed by Send.
func (c *Client) Delete(url string) *request.Response { return Delete(c, url) }

// Post issues a POST to the specified URL, using the same policies
// followed by Send.
//
// The body parameter may be nil for an empty body, or may be any of
// the types supported by request.New and request.BodyBytes, namely:
// string; []byte; io.Reader; and io.ReadCloser.
func (c *Client) Post(url, contentType string, body interface{}) *request.Response {
	return Post(c, url, contentType, body)
}

// Put issues a PUT to the specified URL, using the same policies
// followed by Send. The body parameter follows the same rules as
// Post.
func (c *Client) Put(url, contentType string, body interface{}) *request.Response {
	return Put(c, url, contentType, body)
}

// Patch issues a PATCH to the specified URL, using the same policies
// followed by Send. The body parameter follows the same rules as
// Post.
func (c *Client) Patch(url, contentType string, body interface{}) *request.Response {
	return Patch(c, url, contentType, body)
}

// PostForm issues a POST to the specified URL, with data's keys and
// values URL-encoded as the request body.
//
// The Content-Type header is set to application/x-www-form-urlencoded.
// To set other headers, use request.New and Client.Send.
func (c *Client) PostForm(url string, data url.Values) *request.Response {
	return PostForm(c, url, data)
}

// Get uses the specified Sender to issue a GET to the specified URL.
func Get(s Sender, url string) *request.Response {
	return bodiless(s, "GET", url)
}

// Head uses the specified Sender to issue a HEAD to the specified
// URL.
func Head(s Sender, url string) *request.Response {
	return bodiless(s, "HEAD", url)
}

// Options uses the specified Sender to issue an OPTIONS to the
// specified URL.
func Options(s Sender, url string) *request.Response {
	return bodiless(s, "OPTIONS", url)
}

// Delete uses the specified Sender to issue a DELETE to the specified
// URL.
func Delete(s Sender, url string) *request.Response {
	return bodiless(s, "DELETE", url)
}

// Post uses the specified Sender to issue a POST to the specified
// URL. The body parameter follows the same rules as Client.Post.
func Post(s Sender, url, contentType string, body interface{}) *request.Response {
	return bodied(s, "POST", url, contentType, body)
}

// Put uses the specified Sender to issue a PUT to the specified URL.
// The body parameter follows the same rules as Client.Post.
func Put(s Sender, url, contentType string, body interface{}) *request.Response {
	return bodied(s, "PUT", url, contentType, body)
}

// Patch uses the specified Sender to issue a PATCH to the specified
// URL. The body parameter follows the same rules as Client.Post.
func Patch(s Sender, url, contentType string, body interface{}) *request.Response {
	return bodied(s, "PATCH", url, contentType, body)
}

// PostForm uses the specified Sender to issue a POST to the specified
// URL, with data's keys and values URL-encoded as the request body.
func PostForm(s Sender, url string, data url.Values) *request.Response {
	return Post(s, url, "application/x-www-form-urlencoded", data.Encode())
}

func bodiless(s Sender, method, url string) *request.Response {
	r, err := request.New(method, url, nil)
	if err != nil {
		return errorResponse(err)
	}
	return s.Send(r)
}

func bodied(s Sender, method, url, contentType string, body interface{}) *request.Response {
	r, err := request.New(method, url, body)
	if err != nil {
		return errorResponse(err)
	}
	r.Header.Set("Content-Type", contentType)
	return s.Send(r)
}

// errorResponse converts a request construction error into the failed
// Response shape, preserving the never-throws surface of the verb
// helpers.
func errorResponse(err error) *request.Response {
	return &request.Response{
		Kind:    classify.Unknown,
		Message: err.Error(),
	}
}
