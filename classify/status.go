// Copyright 2026 The blaze Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package classify

// StatusSuccess reports whether the status code is in the 2XX range,
// [200, 300).
func StatusSuccess(status int) bool {
	return status >= 200 && status < 300
}

// StatusRedirect reports whether the status code is in the 3XX range,
// [300, 400).
func StatusRedirect(status int) bool {
	return status >= 300 && status < 400
}

// StatusClientError reports whether the status code is in the 4XX
// range, [400, 500).
func StatusClientError(status int) bool {
	return status >= 400 && status < 500
}

// StatusServerError reports whether the status code is in the 5XX
// range, [500, 600).
func StatusServerError(status int) bool {
	return status >= 500 && status < 600
}
