// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rtpriority provides the OS-priority primitive that the cyclic
// executive imposes on its worker threads. The executive never reads back a
// worker's priority; it only ever sets one, so the primitive exposed here is
// deliberately narrow: a totally ordered integer range and a setter.
package rtpriority

import "fmt"

// Priority is an OS-level scheduling priority. Larger values run sooner.
// The range is closed: [Min, Max].
type Priority int32

// Min and Max bound the priority range available to the executive. The
// dispatcher always runs at Max; idle and demoted workers run at Min.
const (
	Min Priority = 0
	Max Priority = 99
)

// Clamp restricts p to [Min, Max].
func (p Priority) Clamp() Priority {
	switch {
	case p < Min:
		return Min
	case p > Max:
		return Max
	default:
		return p
	}
}

// Sub returns p-n, clamped to [Min, Max]. It is used throughout the
// dispatcher to compute offsets like P_MAX-(i+1) without risking a value
// outside the legal range.
func (p Priority) Sub(n int) Priority {
	return Priority(int32(p) - int32(n)).Clamp()
}

func (p Priority) String() string {
	return fmt.Sprintf("priority(%d)", int32(p))
}

// Setter assigns an OS-level scheduling priority to the calling worker
// thread. It is constructed once on the worker's own locked OS thread, and
// the worker itself makes the initial drop to Min. Every later out-of-band
// priority change is made by the dispatcher: a release, an aperiodic
// admission raise, and the demotions at the slack boundary and at a deadline
// miss.
type Setter interface {
	SetPriority(p Priority) error
}
