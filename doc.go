// Copyright 2026 The blaze Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package blaze provides a robust HTTP client with retries, connection
reuse, interceptors, streaming, and a never-throws response surface.

Create a Client to begin making requests.

	client := blaze.New()
	resp := client.Get("https://www.example.com")
	if resp.IsSuccess() {
		fmt.Println(string(resp.Body))
	}

A send never fails with a Go error. Transport failures (DNS, connect,
TLS, timeout, size cap) are captured into the returned Response:

	resp := client.Get("https://unreachable.example.com")
	if !resp.Success {
		fmt.Println(resp.Kind, resp.Message)
	}

Requests are described by request.Request values, built directly or
with the fluent builder:

	resp := client.NewRequest("POST", "https://api.example.com/items").
		ContentType("application/json").
		Body(`{"name":"widget"}`).
		BearerAuth(token).
		Timeout(2 * time.Second).
		Send()

For control over retry decisions and backoff timing, install a policy
from package retry:

	client := blaze.NewWithConfig(blaze.Config{
		Timeout: 5 * time.Second,
		Retry: retry.Exponential{
			MaxAttempts:     3,
			InitialDelay:    100 * time.Millisecond,
			Multiplier:      2.0,
			MaxDelay:        2 * time.Second,
			RetryableStatus: []int{429, 503},
		},
	})

To observe or mutate traffic, register interceptors; they run exactly
once per logical send, not once per attempt:

	client.UseRequest(func(_ context.Context, r *request.Resolved) error {
		r.Header.Set("X-Env", "staging")
		return nil
	})

For asynchronous sends use SendAsync, which returns a Future; for
incremental body consumption use StreamResponse; for transfer progress
use SendWithProgress.

The mechanics of a single HTTP exchange live behind the
transport.Transport capability. Production clients build one from
net/http automatically; tests and hosts that manage transport lifetime
themselves inject one via NewWithTransport.
*/
package blaze
