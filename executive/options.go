// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executive

import "v.io/x/rtexec/rtpriority"

// Option configures an Executive at construction time, in the same marker
// interface style as vlog.LoggingOpts.
type Option interface {
	executiveOpt()
}

// WithClock overrides the default wall-clock Clock. Tests use this to
// install a FakeClock.
type WithClock struct{ Clock Clock }

func (WithClock) executiveOpt() {}

// WithAuditSink overrides the default vlog-backed AuditSink.
type WithAuditSink struct{ Sink AuditSink }

func (WithAuditSink) executiveOpt() {}

// WithPrioritySetterFactory overrides how each worker constructs its
// rtpriority.Setter. The factory is invoked on the worker's own locked OS
// thread, so a factory that returns a real rtpriority.LinuxSetter captures
// the correct thread id. The default factory returns rtpriority.Simulated,
// matching the policy that real OS priority control is opt-in.
type WithPrioritySetterFactory struct{ New func() rtpriority.Setter }

func (WithPrioritySetterFactory) executiveOpt() {}

// WithFrameTrace enables per-frame interval tracing via FrameTrace.
type WithFrameTrace struct{ Enabled bool }

func (WithFrameTrace) executiveOpt() {}
