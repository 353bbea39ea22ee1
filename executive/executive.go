// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package executive implements the core of a cyclic-executive real-time
// scheduler: a single dispatcher thread that drives a statically defined,
// cyclically repeating schedule of frames, releasing periodic tasks against
// it and opportunistically servicing a single aperiodic task by stealing
// each frame's slack.
//
// The application code inside each task body, the construction of the
// schedule table, any logging/tracing front-end beyond AuditSink, the OS
// priority primitive (rtpriority provides one implementation of it), and
// the host-side CLI that instantiates an Executive are all external
// collaborators, not part of this package.
package executive

import (
	"runtime"
	"time"

	"v.io/x/rtexec/rtpriority"
)

const defaultUnitDurationMS = 10

// Executive is the dispatcher and its owned table of tasks. The zero value
// is not usable; construct one with New.
type Executive struct {
	numTasks    int
	frameLength int
	unitTime    time.Duration

	tasks     []*taskRecord
	aperiodic *taskRecord
	schedule  *Schedule
	latch     aperiodicLatch

	clock     Clock
	audit     AuditSink
	trace     *FrameTrace
	newSetter func() rtpriority.Setter

	started bool
	doneCh  chan struct{}
}

// New reserves numTasks task slots and fixes the schedule's time base.
// unitDurationMS of 0 defaults to 10ms, matching the documented default.
func New(numTasks, frameLength, unitDurationMS int, opts ...Option) (*Executive, error) {
	if numTasks < 0 {
		return nil, configErrorf("New", "numTasks must be >= 0, got %d", numTasks)
	}
	if frameLength <= 0 {
		return nil, configErrorf("New", "frameLength must be > 0, got %d", frameLength)
	}
	if unitDurationMS <= 0 {
		unitDurationMS = defaultUnitDurationMS
	}
	e := &Executive{
		numTasks:    numTasks,
		frameLength: frameLength,
		unitTime:    time.Duration(unitDurationMS) * time.Millisecond,
		tasks:       make([]*taskRecord, numTasks),
		schedule:    newSchedule(numTasks, frameLength),
		clock:       NewRealClock(),
		audit:       NewVlogAuditSink(),
		newSetter:   func() rtpriority.Setter { return rtpriority.NewSimulated() },
		doneCh:      make(chan struct{}),
	}
	for _, opt := range opts {
		switch o := opt.(type) {
		case WithClock:
			e.clock = o.Clock
		case WithAuditSink:
			e.audit = o.Sink
		case WithPrioritySetterFactory:
			e.newSetter = o.New
		case WithFrameTrace:
			if o.Enabled {
				e.trace = NewFrameTrace()
			}
		}
	}
	return e, nil
}

// SetPeriodicTask registers the task body and wcet for id, and spawns its
// worker, Idle at P_MIN. id must be in [0, numTasks) and not already
// registered.
func (e *Executive) SetPeriodicTask(id int, body func(), wcet int) error {
	if e.started {
		return configErrorf("SetPeriodicTask", "executive already started")
	}
	if id < 0 || id >= e.numTasks {
		return configErrorf("SetPeriodicTask", "task id %d is out of range [0, %d)", id, e.numTasks)
	}
	if e.tasks[id] != nil {
		return configErrorf("SetPeriodicTask", "task id %d is already registered", id)
	}
	if wcet < 0 {
		return configErrorf("SetPeriodicTask", "wcet must be >= 0, got %d", wcet)
	}
	t := newTaskRecord(id, false, body, wcet, e.newSetter, e.audit)
	t.start()
	e.tasks[id] = t
	return nil
}

// SetAperiodicTask registers the aperiodic body and wcet, at most once, and
// spawns its worker, Idle at P_MIN.
func (e *Executive) SetAperiodicTask(body func(), wcet int) error {
	if e.started {
		return configErrorf("SetAperiodicTask", "executive already started")
	}
	if e.aperiodic != nil {
		return configErrorf("SetAperiodicTask", "aperiodic task already registered")
	}
	if wcet < 0 {
		return configErrorf("SetAperiodicTask", "wcet must be >= 0, got %d", wcet)
	}
	t := newTaskRecord(-1, true, body, wcet, e.newSetter, e.audit)
	t.start()
	e.aperiodic = t
	return nil
}

// AddFrame appends a frame to the schedule. Every id in frame must be a
// registered periodic task id; the frame's slack is computed now, from the
// wcets registered so far, and stored.
func (e *Executive) AddFrame(frame []int) error {
	if e.started {
		return configErrorf("AddFrame", "executive already started")
	}
	for _, id := range frame {
		if id < 0 || id >= e.numTasks {
			return configErrorf("AddFrame", "task id %d is out of range [0, %d)", id, e.numTasks)
		}
		if e.tasks[id] == nil {
			return configErrorf("AddFrame", "frame references unset task id %d", id)
		}
	}
	_, err := e.schedule.addFrame(frame, func(id int) int { return e.tasks[id].wcet })
	return err
}

// Start spawns the dispatcher at P_MAX. It is irreversible: Start may only
// be called once, and no further configuration calls are permitted
// afterward.
func (e *Executive) Start() error {
	if e.started {
		return configErrorf("Start", "executive already started")
	}
	if e.schedule.numFrames() == 0 {
		return configErrorf("Start", "no frame added before Start")
	}
	e.started = true
	go e.runDispatcher()
	return nil
}

// Wait blocks the caller until the dispatcher terminates. Under this core,
// it does not: the dispatcher loop runs forever, so this call is an
// infinite join.
func (e *Executive) Wait() {
	<-e.doneCh
}

// APTaskRequest latches an aperiodic release request for the next frame.
// It never blocks and never touches aperiodic task state directly.
func (e *Executive) APTaskRequest() {
	e.latch.request()
}

// Trace returns the FrameTrace installed via WithFrameTrace, or nil if
// tracing was not enabled.
func (e *Executive) Trace() *FrameTrace {
	return e.trace
}

func (e *Executive) runDispatcher() {
	runtime.LockOSThread()
	dispatcherPriority := e.newSetter()
	dispatcherPriority.SetPriority(rtpriority.Max)

	var nextTime time.Time
	frame := 0
	numFrames := e.schedule.numFrames()

	for {
		frameTasks := e.schedule.frames[frame]
		frameSlack := e.schedule.slack[frame]

		// Step A: carry-over audit is informational only — any task
		// still Running here was already logged as a deadline miss by
		// the previous frame's Step G.

		// Step B: timebase.
		var frameStart time.Time
		if nextTime.IsZero() {
			frameStart = e.clock.Now()
		} else {
			frameStart = nextTime
		}
		frameLen := time.Duration(e.frameLength) * e.unitTime
		nextTime = frameStart.Add(frameLen)
		deadline := frameStart.Add(frameLen)

		e.audit.OnFrameBoundary(frame, frameStart)
		e.trace.pushFrame()

		// Step C: aperiodic arbitration.
		apAdmitted := false
		if e.aperiodic != nil {
			requested := e.latch.sampleAndClear()
			snap := e.aperiodic.snapshot()
			if requested {
				switch {
				case snap.state == stateIdle && snap.skipCount == 0:
					e.aperiodic.release(frameStart, deadline)
					snap.state = statePending
				case snap.state == stateIdle:
					// skip_count > 0 but Idle: a prior overrun or
					// deadline-miss audit is suppressing exactly this one
					// admission. Clear it now rather than reporting a
					// spurious overrun, so the next request succeeds
					// instead of locking the aperiodic out forever.
					e.aperiodic.clearSkip()
				default:
					e.aperiodic.setSkipToOne()
					e.audit.OnAperiodicOverrun()
				}
			}
			if snap.state == statePending {
				if frameSlack > 0 {
					e.aperiodic.setPriority(rtpriority.Max.Sub(1))
					apAdmitted = true
				} else {
					e.aperiodic.setPriority(rtpriority.Min)
				}
			}
		}

		// Step D: periodic release.
		k := 1
		if apAdmitted {
			k = 2
		}
		lower := rtpriority.Min + 1
		upper := rtpriority.Max.Sub(k)
		for i, id := range frameTasks {
			t := e.tasks[id]
			if t.decrementSkip() {
				continue
			}
			p := rtpriority.Max.Sub(i + k)
			if p < lower {
				p = lower
			}
			if p > upper {
				p = upper
			}
			t.setPriority(p)
			t.release(frameStart, deadline)
		}

		// Step E: slack boundary, only if the aperiodic is running
		// this frame on stolen slack.
		if apAdmitted {
			slackBoundary := frameStart.Add(time.Duration(frameSlack) * e.unitTime)
			e.trace.pushSlack()
			e.clock.SleepUntil(slackBoundary)
			e.trace.popSlack()
			if e.aperiodic.snapshot().state == stateRunning {
				e.aperiodic.setPriority(rtpriority.Min)
			}
		}

		// Step F: frame end.
		e.clock.SleepUntil(nextTime)

		// Step G: deadline audit.
		for _, t := range e.tasks {
			if t != nil {
				t.auditDeadline()
			}
		}
		if e.aperiodic != nil {
			e.aperiodic.auditDeadline()
		}

		e.trace.popFrame()

		// Step H.
		frame = (frame + 1) % numFrames
	}
}
