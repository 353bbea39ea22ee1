// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build linux
// +build linux

package rtpriority

import "golang.org/x/sys/unix"

// LinuxSetter adjusts the nice value of a single locked OS thread via
// setpriority(2), using PRIO_PROCESS with the thread's tid — Linux treats
// each thread as an addressable "process" for this call, so this changes
// only the calling worker's own kernel-scheduling entity, not the whole
// process. The caller must have called runtime.LockOSThread from the same
// goroutine that will go on to run the task body, and must construct the
// LinuxSetter from that same goroutine so the captured tid is correct.
type LinuxSetter struct {
	tid int
}

// NewLinuxSetter captures the calling goroutine's OS thread id. It must be
// called after runtime.LockOSThread, from the goroutine whose priority will
// be adjusted.
func NewLinuxSetter() (*LinuxSetter, error) {
	return &LinuxSetter{tid: unix.Gettid()}, nil
}

// niceMin and niceMax are the conventional Linux nice range; real-time
// scheduling classes need CAP_SYS_NICE, which the executive does not assume
// is available, so priorities are mapped onto ordinary nice values instead.
const (
	niceMin = -20
	niceMax = 19
)

// SetPriority implements Setter by mapping [Min, Max] linearly onto
// [niceMax, niceMin] (higher Priority -> lower, i.e. more favourable, nice
// value) and calling setpriority(2) against the captured tid.
func (l *LinuxSetter) SetPriority(p Priority) error {
	p = p.Clamp()
	span := int32(Max - Min)
	if span == 0 {
		span = 1
	}
	frac := int32(p) - int32(Min)
	nice := niceMax - (frac*(niceMax-niceMin))/span
	return unix.Setpriority(unix.PRIO_PROCESS, l.tid, nice)
}
