// Copyright 2026 The blaze Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package classify

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"errors"
	"net"
	"syscall"
)

// A Kind is the error classification of a request attempt outcome, as
// reported by function Classify().
//
// The kind None means the attempt obtained an HTTP response, whatever
// its status code. Every other kind describes a failure to obtain a
// response. Only the kinds Network and Timeout describe conditions
// with some prospect of success on retry; all remaining kinds are
// terminal.
type Kind int

const (
	// None indicates no error: an HTTP response was obtained. The
	// response status code may still be a client or server error code;
	// use the Status predicates to discriminate.
	None Kind = iota
	// InvalidURL indicates the request URL did not match the absolute
	// http(s) URL grammar. It is detected before any attempt is made
	// and is always terminal.
	InvalidURL
	// Network indicates a DNS, connect, send, or receive failure.
	//
	// Function Classify() returns Network if the error, or any of its
	// wrapped causes, is a DNS error, a connection refusal or reset,
	// or any other non-timeout error reported by the network layer.
	Network
	// Timeout indicates a client-side timeout. The server may be going
	// through a temporary period of slowness, or the attempt may
	// succeed on retry, possibly with a longer timeout.
	//
	// Function Classify() returns Timeout if the error or any of its
	// wrapped causes has a Timeout() function that reports true, or is
	// context.DeadlineExceeded.
	Timeout
	// SSL indicates a TLS handshake or certificate verification
	// failure. Retrying cannot help, so SSL is terminal.
	SSL
	// TooLarge indicates the response body exceeded the configured
	// maximum response size and the attempt was aborted mid-transfer.
	TooLarge
	// Cancelled indicates the consumer stopped the attempt on purpose:
	// a streaming sink or progress callback returned false, or the
	// request context was cancelled. A deliberate stop is not a
	// transport failure, so Cancelled is terminal and never retried.
	Cancelled
	// Unknown indicates any other failure to obtain a response.
	Unknown
)

var (
	// ErrTooLarge is the sentinel cause wrapped into attempt errors
	// when the response body exceeds the configured size cap.
	ErrTooLarge = errors.New("blaze: response body exceeds maximum size")
	// ErrCancelled is the sentinel cause wrapped into attempt errors
	// when a streaming sink or progress callback aborts the transfer.
	ErrCancelled = errors.New("blaze: transfer cancelled by consumer")
)

var kindNames = []string{
	"None",
	"InvalidURL",
	"Network",
	"Timeout",
	"SSL",
	"TooLarge",
	"Cancelled",
	"Unknown",
}

// String returns the name of the kind.
func (k Kind) String() string {
	if k < None || k > Unknown {
		return "Invalid"
	}
	return kindNames[k]
}

// Retryable indicates whether a failure of this kind has some prospect
// of success on retry. Only Network and Timeout are retryable; every
// other kind is terminal regardless of how many attempts remain.
func (k Kind) Retryable() bool {
	return k == Network || k == Timeout
}

// Classify returns the error kind of the given attempt error. A nil
// error produces None.
//
// In assessing the kind, Classify looks at wrapped cause errors
// contained within err, not just err itself. The deliberate abort
// sentinels (ErrTooLarge, ErrCancelled) are checked first so that a
// cancellation which also tripped the transport's context machinery
// is not mistaken for a timeout. Classify never checks whether an
// error has a Temporary() function that returns true, as the
// semantics of Temporary() aren't entirely clear.
func Classify(err error) Kind {
	if err == nil {
		return None
	}

	if errors.Is(err, ErrTooLarge) {
		return TooLarge
	}
	if errors.Is(err, ErrCancelled) || errors.Is(err, context.Canceled) {
		return Cancelled
	}

	if isCertErr(err) {
		return SSL
	}

	var hasTimeout hasTimeout
	if errors.As(err, &hasTimeout) && hasTimeout.Timeout() {
		return Timeout
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.ECONNREFUSED, syscall.ECONNRESET, syscall.EPIPE, syscall.EHOSTUNREACH, syscall.ENETUNREACH:
			return Network
		}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return Network
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return Network
	}

	return Unknown
}

func isCertErr(err error) bool {
	var unknownAuthority x509.UnknownAuthorityError
	if errors.As(err, &unknownAuthority) {
		return true
	}
	var certInvalid x509.CertificateInvalidError
	if errors.As(err, &certInvalid) {
		return true
	}
	var hostname x509.HostnameError
	if errors.As(err, &hostname) {
		return true
	}
	var recordHeader tls.RecordHeaderError
	if errors.As(err, &recordHeader) {
		return true
	}
	var verification *tls.CertificateVerificationError
	return errors.As(err, &verification)
}

type hasTimeout interface {
	Timeout() bool
}
