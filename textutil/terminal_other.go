// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !(linux || darwin || freebsd || netbsd || openbsd)
// +build !linux,!darwin,!freebsd,!netbsd,!openbsd

package textutil

import "errors"

// TerminalSize returns the height and width of the terminal associated with
// stdout, or an error if stdout isn't a terminal.
func TerminalSize() (row, col int, err error) {
	return 0, 0, errors.New("textutil: TerminalSize not implemented on this platform")
}
