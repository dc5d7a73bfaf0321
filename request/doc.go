// Copyright 2026 The blaze Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package request contains the core types describing one logical HTTP
request and its outcome.

A Request describes how to make a logical HTTP request, potentially
involving repeated attempts if retry is necessary after a failure. Its
body is pre-buffered into a []byte so the same request can be sent more
than once. Optional fields (timeout, redirect policy, auth) are
pointers: nil means "use the client default".

Create a request directly, or with the fluent builder in the root
package:

	r, err := request.New("GET", "https://example.com", nil)
	...
	resp := client.Send(r)

A request may be assigned a context to allow the entire logical send to
be cancelled, including retry backoff waits:

	r, err := request.NewWithContext(ctx, "POST", "https://example.com/upload", body)
	...

Resolve merges a Request with client Defaults into a Resolved request,
validating the URL and assigning a correlation ID. All attempts of one
send share a single Resolved value.

A Response is the outcome of a send. Sends never fail with a Go error;
transport failures are captured into the Response's Kind and Message
fields, and callers discriminate status classes with the IsSuccess,
IsRedirect, IsClientError, and IsServerError predicates.

An Execution carries the in-flight state of a send between attempts.
It is the input type for retry policies, which will typically not
allocate Execution values themselves but work with the ones handed out
by the send loop.
*/
package request
