// Copyright 2026 The blaze Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package codec bundles the stateless encoding helpers used around the
// HTTP client surface: percent-encoding, base64, query strings, URL
// validation, and request ID generation. None of the functions hold
// state or have concurrency concerns.
package codec

import (
	"encoding/base64"
	"fmt"
	"net/url"

	"github.com/google/uuid"
)

// URLEncode percent-encodes s so it can be safely placed inside a URL
// query component.
func URLEncode(s string) string {
	return url.QueryEscape(s)
}

// URLDecode reverses URLEncode. It returns an error if the input
// contains an invalid percent escape.
func URLDecode(s string) (string, error) {
	return url.QueryUnescape(s)
}

// Base64Encode encodes b using standard base64 encoding.
func Base64Encode(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

// Base64Decode reverses Base64Encode.
func Base64Decode(s string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(s)
}

// ParseQuery parses a URL query string into url.Values. Keys repeated
// in the input accumulate multiple values.
func ParseQuery(query string) (url.Values, error) {
	return url.ParseQuery(query)
}

// BuildQuery encodes values into "URL encoded" form, sorted by key.
func BuildQuery(values url.Values) string {
	return values.Encode()
}

// ParseURL parses rawurl and verifies it matches the absolute http(s)
// URL grammar: a parseable URL with scheme "http" or "https" and a
// non-empty host.
func ParseURL(rawurl string) (*url.URL, error) {
	u, err := url.Parse(rawurl)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("blaze/codec: unsupported URL scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("blaze/codec: URL %q has no host", rawurl)
	}
	return u, nil
}

// ValidateURL reports whether rawurl matches the absolute http(s) URL
// grammar accepted by ParseURL.
func ValidateURL(rawurl string) bool {
	_, err := ParseURL(rawurl)
	return err == nil
}

// NewRequestID returns a new correlation identifier: a random
// (version 4) UUID in its canonical hyphenated string form.
func NewRequestID() string {
	return uuid.NewString()
}
