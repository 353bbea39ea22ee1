// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executive

import (
	"runtime"
	"time"

	"v.io/x/rtexec/nsync"
	"v.io/x/rtexec/rtpriority"
)

// taskState is one of {Idle, Pending, Running}, per the data model.
type taskState int

const (
	stateIdle taskState = iota
	statePending
	stateRunning
)

func (s taskState) String() string {
	switch s {
	case stateIdle:
		return "Idle"
	case statePending:
		return "Pending"
	case stateRunning:
		return "Running"
	default:
		return "unknown"
	}
}

// taskRecord is the per-task ownership arena described in the design notes:
// the dispatcher reaches it by index and never holds more than one task's
// state lock at a time; the worker goroutine only ever touches its own
// record. mu/cv implement the release handshake in the Mesa style that
// nsync.CV exists to express: the worker waits in a for-loop, re-checking
// state == Pending after every wakeup, rather than assuming one signal
// means one release.
type taskRecord struct {
	id        int
	aperiodic bool
	body      func()
	wcet      int // time units

	mu nsync.Mu
	cv nsync.CV

	state        taskState
	releaseTime  time.Time
	deadlineTime time.Time
	skipCount    int

	newSetter func() rtpriority.Setter
	setter    rtpriority.Setter
	ready     chan struct{}

	audit AuditSink
}

func newTaskRecord(id int, aperiodic bool, body func(), wcet int, newSetter func() rtpriority.Setter, audit AuditSink) *taskRecord {
	return &taskRecord{
		id:        id,
		aperiodic: aperiodic,
		body:      body,
		wcet:      wcet,
		newSetter: newSetter,
		audit:     audit,
		ready:     make(chan struct{}),
	}
}

// start spawns the worker goroutine and blocks until its priority-setter
// backend is initialized on the worker's own locked OS thread, matching the
// spec's requirement that Set{Periodic,Aperiodic}Task "spawns the worker in
// Idle at P_MIN" before returning.
func (t *taskRecord) start() {
	go t.run()
	<-t.ready
}

func (t *taskRecord) run() {
	runtime.LockOSThread()
	t.setter = t.newSetter()
	t.setter.SetPriority(rtpriority.Min)
	close(t.ready)

	for {
		t.mu.Lock()
		for t.state != statePending {
			t.cv.Wait(&t.mu)
		}
		t.state = stateRunning
		t.mu.Unlock()

		t.invokeBody()

		t.mu.Lock()
		t.state = stateIdle
		t.mu.Unlock()
	}
}

func (t *taskRecord) invokeBody() {
	defer func() {
		if r := recover(); r != nil {
			t.audit.OnBodyFault(t.id, t.aperiodic, r)
		}
	}()
	t.body()
}

// setPriority assigns p to the worker. It is always called by the
// dispatcher, never by the worker itself, per the contract that a worker
// never reads or sets its own priority.
func (t *taskRecord) setPriority(p rtpriority.Priority) {
	t.setter.SetPriority(p)
}

// release transitions the task Idle -> Pending under the state lock,
// publishing release_time and deadline_time alongside the state change so
// both are observed under the same lock acquisition (P2).
func (t *taskRecord) release(releaseTime, deadlineTime time.Time) {
	t.mu.Lock()
	t.releaseTime = releaseTime
	t.deadlineTime = deadlineTime
	t.state = statePending
	t.mu.Unlock()
	t.cv.Broadcast()
}

// snapshot returns a consistent copy of the fields the dispatcher's audit
// inspects, taken under the state lock.
type taskSnapshot struct {
	state     taskState
	skipCount int
}

func (t *taskRecord) snapshot() taskSnapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return taskSnapshot{state: t.state, skipCount: t.skipCount}
}

// decrementSkip decrements skip_count if positive and reports whether the
// release should be suppressed this frame.
func (t *taskRecord) decrementSkip() (suppressed bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.skipCount > 0 {
		t.skipCount--
		return true
	}
	return false
}

// clearSkip resets skip_count to 0, used when an aperiodic request arrives
// while the aperiodic task is Idle with skip_count > 0; that request is not
// admitted.
func (t *taskRecord) clearSkip() {
	t.mu.Lock()
	t.skipCount = 0
	t.mu.Unlock()
}

// setSkipToOne sets skip_count to exactly 1 (never incremented past 1),
// matching the aperiodic overrun behaviour.
func (t *taskRecord) setSkipToOne() {
	t.mu.Lock()
	t.skipCount = 1
	t.mu.Unlock()
}

// auditDeadline performs the Step G audit for one task: if it is not Idle,
// report the miss, demote, and apply the skip-count penalty. Returns true
// if a miss was recorded.
func (t *taskRecord) auditDeadline() bool {
	t.mu.Lock()
	state := t.state
	missed := state != stateIdle
	if missed {
		if state == statePending {
			t.state = stateIdle
		}
		t.skipCount++
	}
	skipCount := t.skipCount
	t.mu.Unlock()

	if missed {
		t.setPriority(rtpriority.Min)
		t.audit.OnDeadlineMiss(t.id, t.aperiodic, skipCount)
	}
	return missed
}
