// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executive

import "v.io/x/rtexec/timing"

// FrameTrace records a hierarchical interval trace of where frame time
// went: a "frame" interval per frame, with a "slack" child interval spanning
// the aperiodic's slack-stealing window when one runs. It supplements, and
// never replaces, the line-oriented AuditSink — useful for explaining a
// deadline miss after the fact rather than for noticing one.
type FrameTrace struct {
	timer timing.Timer
}

// NewFrameTrace returns a FrameTrace backed by a fresh timing.CompactTimer.
func NewFrameTrace() *FrameTrace {
	return &FrameTrace{timer: timing.NewCompactTimer("rtexec")}
}

func (t *FrameTrace) pushFrame() {
	if t == nil {
		return
	}
	t.timer.Push("frame")
}

func (t *FrameTrace) pushSlack() {
	if t == nil {
		return
	}
	t.timer.Push("slack")
}

func (t *FrameTrace) popSlack() {
	if t == nil {
		return
	}
	t.timer.Pop()
}

func (t *FrameTrace) popFrame() {
	if t == nil {
		return
	}
	t.timer.Pop()
}

// String returns the formatted interval tree recorded so far.
func (t *FrameTrace) String() string {
	if t == nil {
		return ""
	}
	return t.timer.String()
}
