// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// The following enables go generate to generate the doc.go file.
//go:generate go run v.io/x/rtexec/cmdline/testdata/gendoc.go . -h

// Command rtexecdemo runs a small, configurable cyclic-executive schedule
// and prints its frame-by-frame activity, as a worked example of the
// executive package.
package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"v.io/x/rtexec/buildinfo"
	"v.io/x/rtexec/cmdline"
	"v.io/x/rtexec/executive"
	"v.io/x/rtexec/host"
	"v.io/x/rtexec/vlog"
)

func main() {
	cmdline.Main(cmdRtexecdemo)
}

var cmdRtexecdemo = &cmdline.Command{
	Runner: cmdline.RunnerFunc(runDemo),
	Name:   "rtexecdemo",
	Short:  "runs a cyclic-executive schedule and prints its frame activity",
	Long: `
Command rtexecdemo builds an executive.Executive from a small set of flags,
runs it for a fixed number of frames, and prints one line per frame boundary,
deadline miss, and aperiodic event. It exists to exercise the executive
package end to end, the way a real embedded host would drive it; the task
bodies here just sleep for their declared wcet rather than doing real work.

Example: two periodics sharing a five-unit frame, 10ms per unit, for 8 frames:
  $ rtexecdemo -wcets=2,1 -frame=0,1 -frame-length=5 -frames-to-run=8
`,
}

var (
	flagWCETs       string
	flagFrame       string
	flagFrameLength int
	flagUnitMS      int
	flagFramesToRun int
	flagAperiodic   int
	flagAPEvery     int
)

func init() {
	cmdRtexecdemo.Flags.StringVar(&flagWCETs, "wcets", "2,3", "comma-separated wcet, in time units, for each periodic task")
	cmdRtexecdemo.Flags.StringVar(&flagFrame, "frame", "0,1", "comma-separated task indices making up the (single) frame")
	cmdRtexecdemo.Flags.IntVar(&flagFrameLength, "frame-length", 10, "frame length, in time units")
	cmdRtexecdemo.Flags.IntVar(&flagUnitMS, "unit-ms", 10, "duration of one time unit, in milliseconds")
	cmdRtexecdemo.Flags.IntVar(&flagFramesToRun, "frames-to-run", 5, "number of frame boundaries to observe before exiting")
	cmdRtexecdemo.Flags.IntVar(&flagAperiodic, "aperiodic-wcet", 0, "wcet, in time units, of an aperiodic task; 0 disables it")
	cmdRtexecdemo.Flags.IntVar(&flagAPEvery, "aperiodic-every", 3, "request the aperiodic task every this many frames")
}

func parseIntList(s string) ([]int, error) {
	var out []int
	for _, f := range strings.Split(s, ",") {
		f = strings.TrimSpace(f)
		if f == "" {
			continue
		}
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("%q is not an integer: %v", f, err)
		}
		out = append(out, n)
	}
	return out, nil
}

// printingSink prints one line per dispatcher event to env.Stdout and counts
// frame boundaries, so the Runner knows when to stop.
type printingSink struct {
	env    *cmdline.Env
	done   chan struct{}
	target int
	count  int
}

func newPrintingSink(env *cmdline.Env, target int) *printingSink {
	return &printingSink{env: env, done: make(chan struct{}), target: target}
}

func (s *printingSink) OnFrameBoundary(frame int, frameStart time.Time) {
	s.count++
	fmt.Fprintf(s.env.Stdout, "frame %d start=%s\n", frame, frameStart.Format(time.RFC3339Nano))
	if s.count >= s.target {
		close(s.done)
	}
}

func (s *printingSink) OnDeadlineMiss(taskID int, aperiodic bool, skipCount int) {
	fmt.Fprintf(s.env.Stdout, "  deadline miss: task=%d aperiodic=%v skip_count=%d\n", taskID, aperiodic, skipCount)
}

func (s *printingSink) OnAperiodicOverrun() {
	fmt.Fprintln(s.env.Stdout, "  aperiodic overrun: request dropped")
}

func (s *printingSink) OnBodyFault(taskID int, aperiodic bool, r interface{}) {
	fmt.Fprintf(s.env.Stdout, "  body fault: task=%d aperiodic=%v recovered=%v\n", taskID, aperiodic, r)
}

func runDemo(env *cmdline.Env, args []string) error {
	if err := vlog.ConfigureLibraryLoggerFromFlags(); err != nil {
		return err
	}
	defer vlog.FlushLog()

	wcets, err := parseIntList(flagWCETs)
	if err != nil {
		return env.UsageErrorf("-wcets: %v", err)
	}
	frame, err := parseIntList(flagFrame)
	if err != nil {
		return env.UsageErrorf("-frame: %v", err)
	}

	fmt.Fprintf(env.Stdout, "%s\n", buildinfo.Info().String())
	if arch, err := host.Arch(); err == nil {
		fmt.Fprintf(env.Stdout, "host arch: %s\n", arch)
	} else {
		vlog.VI(1).Infof("host.Arch: %v", err)
	}

	sink := newPrintingSink(env, flagFramesToRun)
	e, err := executive.New(len(wcets), flagFrameLength, flagUnitMS, executive.WithAuditSink{Sink: sink})
	if err != nil {
		return err
	}
	for id, wcet := range wcets {
		id, wcet := id, wcet
		sleepFor := time.Duration(wcet) * time.Duration(flagUnitMS) * time.Millisecond
		if err := e.SetPeriodicTask(id, func() {
			vlog.VI(1).Infof("task %d running for %s", id, sleepFor)
			time.Sleep(sleepFor)
		}, wcet); err != nil {
			return err
		}
	}
	if flagAperiodic > 0 {
		sleepFor := time.Duration(flagAperiodic) * time.Duration(flagUnitMS) * time.Millisecond
		if err := e.SetAperiodicTask(func() {
			vlog.VI(1).Infof("aperiodic running for %s", sleepFor)
			time.Sleep(sleepFor)
		}, flagAperiodic); err != nil {
			return err
		}
	}
	if err := e.AddFrame(frame); err != nil {
		return err
	}
	if err := e.Start(); err != nil {
		return err
	}

	if flagAperiodic > 0 && flagAPEvery > 0 {
		go func() {
			ticker := time.NewTicker(time.Duration(flagFrameLength*flagAPEvery) * time.Duration(flagUnitMS) * time.Millisecond)
			defer ticker.Stop()
			for range ticker.C {
				e.APTaskRequest()
			}
		}()
	}

	<-sink.done
	return nil
}
