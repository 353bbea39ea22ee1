// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !linux
// +build !linux

package rtpriority

import "errors"

// LinuxSetter is unavailable on this platform; NewLinuxSetter always
// returns an error so that callers fall back to Simulated.
type LinuxSetter struct{}

// NewLinuxSetter reports an error on non-Linux platforms.
func NewLinuxSetter() (*LinuxSetter, error) {
	return nil, errors.New("rtpriority: real OS priority control is only implemented on linux")
}

// SetPriority implements Setter; it always fails.
func (l *LinuxSetter) SetPriority(p Priority) error {
	return errors.New("rtpriority: real OS priority control is only implemented on linux")
}
