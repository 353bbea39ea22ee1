// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executive

import "sync"

// aperiodicLatch is the request channel described in 4.3: a latching
// boolean guarded by its own mutex, set by any caller via request(), sampled
// and cleared exactly once per frame by the dispatcher. It never blocks the
// caller and never touches the aperiodic task's own state directly — all
// state-machine transitions stay confined to the dispatcher goroutine, per
// the canonical (latch-and-sample) policy chosen over the alternative
// variant that sets Pending directly from request().
//
// A second request arriving before the dispatcher samples the first is
// coalesced into the same pending request (P7); this is intentional, not a
// missed-wakeup bug.
type aperiodicLatch struct {
	mu      sync.Mutex
	pending bool
}

// request latches a pending aperiodic release request.
func (l *aperiodicLatch) request() {
	l.mu.Lock()
	l.pending = true
	l.mu.Unlock()
}

// sampleAndClear atomically reads and clears the latch.
func (l *aperiodicLatch) sampleAndClear() bool {
	l.mu.Lock()
	p := l.pending
	l.pending = false
	l.mu.Unlock()
	return p
}
