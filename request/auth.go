// Copyright 2026 The blaze Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"encoding/base64"
	"net/http"
)

// An Auth describes the credentials to attach to a request. Exactly
// one of the scheme fields should be set; if more than one is set,
// the first non-nil scheme in the order Basic, Bearer, APIKey wins.
type Auth struct {
	// Basic holds HTTP Basic Authentication credentials.
	Basic *BasicAuth
	// Bearer holds a bearer token, sent as "Authorization: Bearer <t>".
	Bearer string
	// APIKey holds an API key sent in a caller-chosen header.
	APIKey *APIKey
}

// BasicAuth contains HTTP Basic Authentication credentials.
//
// With HTTP Basic Authentication the provided username and password
// are not encrypted.
type BasicAuth struct {
	Username string
	Password string
}

// APIKey contains an API key credential and the header to carry it.
// An empty Header defaults to "X-API-Key".
type APIKey struct {
	Header string
	Value  string
}

// Apply sets the header fields implied by the configured scheme.
// Existing Authorization (or API key) header values are overwritten.
// A nil Auth applies nothing.
func (a *Auth) Apply(h http.Header) {
	if a == nil {
		return
	}
	switch {
	case a.Basic != nil:
		h.Set("Authorization", "Basic "+basicAuth(a.Basic.Username, a.Basic.Password))
	case a.Bearer != "":
		h.Set("Authorization", "Bearer "+a.Bearer)
	case a.APIKey != nil:
		name := a.APIKey.Header
		if name == "" {
			name = "X-API-Key"
		}
		h.Set(name, a.APIKey.Value)
	}
}

// basicAuth is lifted verbatim from net/http/client.go.
//
// See 2 (end of page 4) https://www.ietf.org/rfc/rfc2617.txt
// "To receive authorization, the client sends the userid and password,
// separated by a single colon (":") character, within a base64
// encoded string in the credentials."
// It is not meant to be urlencoded.
func basicAuth(username, password string) string {
	auth := username + ":" + password
	return base64.StdEncoding.EncodeToString([]byte(auth))
}

// SetBasicAuth sets the request's Auth to use HTTP Basic
// Authentication with the provided username and password.
func (r *Request) SetBasicAuth(username, password string) {
	r.Auth = &Auth{Basic: &BasicAuth{Username: username, Password: password}}
}

// SetBearerAuth sets the request's Auth to use the provided bearer
// token.
func (r *Request) SetBearerAuth(token string) {
	r.Auth = &Auth{Bearer: token}
}
