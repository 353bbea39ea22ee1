// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executive

import "fmt"

// ConfigError reports a mistake made while constructing an Executive: a task
// id out of range, a frame referencing an unset task, a duplicate aperiodic
// registration, or a Start() called before any frame was added. These are
// caller bugs discovered at call time, not runtime events, so they are
// returned as errors rather than routed through an AuditSink.
type ConfigError struct {
	Op     string // the call that failed, e.g. "AddFrame"
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("executive: %s: %s", e.Op, e.Reason)
}

func configErrorf(op, format string, args ...interface{}) *ConfigError {
	return &ConfigError{Op: op, Reason: fmt.Sprintf(format, args...)}
}
