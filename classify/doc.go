// Copyright 2026 The blaze Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Package classify maps request attempt outcomes onto a small typed
// error taxonomy (Kind), and provides status code range predicates.
// This is handy for writing retry policies, and for other purposes
// such as bucketing error metrics.
//
// Classification looks through wrapped causes, so errors produced by
// the net/http machinery (which typically arrive wrapped in a
// *url.Error) classify the same as their root cause.
package classify
