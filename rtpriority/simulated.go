// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package rtpriority

import "sync/atomic"

// Simulated is an in-process Setter that records the priority it was last
// asked to assume, without touching any OS scheduling facility. It is the
// default backend used by every test in this module: it makes priority
// strictness (P1) mechanically checkable without root privileges or a
// platform that honours real-time priorities.
type Simulated struct {
	current int32 // atomic; holds a Priority
}

// NewSimulated returns a Simulated starting at Min.
func NewSimulated() *Simulated {
	s := &Simulated{}
	atomic.StoreInt32(&s.current, int32(Min))
	return s
}

// SetPriority implements Setter.
func (s *Simulated) SetPriority(p Priority) error {
	atomic.StoreInt32(&s.current, int32(p.Clamp()))
	return nil
}

// Current returns the most recently assigned priority.
func (s *Simulated) Current() Priority {
	return Priority(atomic.LoadInt32(&s.current))
}
