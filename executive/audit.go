// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executive

import (
	"time"

	"v.io/x/rtexec/uniqueid"
	"v.io/x/rtexec/vlog"
)

// AuditSink receives the dispatcher's non-fatal diagnostics: deadline
// misses, aperiodic overruns, and trapped body faults (error handling kinds
// 2-4). None of these are returned to the caller as structured errors; they
// are reported here instead, matching the requirement that they reach
// "stderr-like diagnostics" without unwinding any call into the Executive.
type AuditSink interface {
	// OnFrameBoundary is called once per frame, right after the timebase
	// for the frame has been computed.
	OnFrameBoundary(frame int, frameStart time.Time)

	// OnDeadlineMiss is called from the Step G audit for a task that was
	// not Idle at frame end. skipCount is the value after the penalty
	// increment.
	OnDeadlineMiss(taskID int, aperiodic bool, skipCount int)

	// OnAperiodicOverrun is called when an aperiodic request arrives
	// while the previous one is still Pending or Running.
	OnAperiodicOverrun()

	// OnBodyFault is called when a task body panics; r is the recovered
	// value.
	OnBodyFault(taskID int, aperiodic bool, r interface{})
}

// vlogSink is the default AuditSink, logging through vlog the way the rest
// of this module reports diagnostics.
type vlogSink struct{}

// NewVlogAuditSink returns the default AuditSink.
func NewVlogAuditSink() AuditSink { return vlogSink{} }

func (vlogSink) OnFrameBoundary(frame int, frameStart time.Time) {
	vlog.VI(2).Infof("frame %d starting at %v", frame, frameStart)
}

func (vlogSink) OnDeadlineMiss(taskID int, aperiodic bool, skipCount int) {
	vlog.Errorf("deadline miss: task=%d aperiodic=%v skip_count=%d", taskID, aperiodic, skipCount)
}

func (vlogSink) OnAperiodicOverrun() {
	vlog.Errorf("aperiodic overrun: request dropped, skip_count set to 1")
}

func (vlogSink) OnBodyFault(taskID int, aperiodic bool, r interface{}) {
	vlog.Errorf("task body fault: task=%d aperiodic=%v recovered=%v", taskID, aperiodic, r)
}

// correlatedSink tags every line with a per-Executive id, so that logs from
// several Executives sharing one process can be told apart.
type correlatedSink struct {
	id    uniqueid.ID
	under AuditSink
}

// NewCorrelatedSink wraps under with a freshly minted uniqueid.ID prefix on
// every audit line.
func NewCorrelatedSink(under AuditSink) (AuditSink, error) {
	id, err := uniqueid.Random()
	if err != nil {
		return nil, err
	}
	return &correlatedSink{id: id, under: under}, nil
}

func (c *correlatedSink) OnFrameBoundary(frame int, frameStart time.Time) {
	vlog.VI(2).Infof("[%x] frame %d starting at %v", c.id, frame, frameStart)
	c.under.OnFrameBoundary(frame, frameStart)
}

func (c *correlatedSink) OnDeadlineMiss(taskID int, aperiodic bool, skipCount int) {
	vlog.Errorf("[%x] deadline miss: task=%d aperiodic=%v skip_count=%d", c.id, taskID, aperiodic, skipCount)
	c.under.OnDeadlineMiss(taskID, aperiodic, skipCount)
}

func (c *correlatedSink) OnAperiodicOverrun() {
	vlog.Errorf("[%x] aperiodic overrun", c.id)
	c.under.OnAperiodicOverrun()
}

func (c *correlatedSink) OnBodyFault(taskID int, aperiodic bool, r interface{}) {
	vlog.Errorf("[%x] task body fault: task=%d aperiodic=%v recovered=%v", c.id, taskID, aperiodic, r)
	c.under.OnBodyFault(taskID, aperiodic, r)
}
