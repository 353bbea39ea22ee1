// Copyright 2015 The Vanadium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package executive

import "v.io/x/rtexec/set"

// Schedule is the immutable-after-start cyclic sequence of frames the
// dispatcher drives. Each frame is an ordered list of periodic task ids;
// slack is computed once, when the frame is added, and never recomputed —
// wcet and the frame contents are immutable after configuration, so a
// runtime recomputation (as one source variant of the system this is
// modelled on performs, every frame) only adds cost without changing the
// answer.
type Schedule struct {
	numTasks    int
	frameLength int
	validIDs    map[int]struct{}
	frames      [][]int
	slack       []int
}

func newSchedule(numTasks, frameLength int) *Schedule {
	ids := make([]int, numTasks)
	for i := range ids {
		ids[i] = i
	}
	return &Schedule{
		numTasks:    numTasks,
		frameLength: frameLength,
		validIDs:    set.Int.FromSlice(ids),
	}
}

// addFrame validates frame against the registered task-id range and appends
// it, computing slack via wcetOf. It returns the new frame's index.
func (s *Schedule) addFrame(frame []int, wcetOf func(id int) int) (int, error) {
	for _, id := range frame {
		if _, ok := s.validIDs[id]; !ok {
			return 0, configErrorf("AddFrame", "task id %d is out of range [0, %d)", id, s.numTasks)
		}
	}
	sum := 0
	for _, id := range frame {
		sum += wcetOf(id)
	}
	s.frames = append(s.frames, append([]int(nil), frame...))
	s.slack = append(s.slack, s.frameLength-sum)
	return len(s.frames) - 1, nil
}

// numFrames returns K, the number of frames in the cycle.
func (s *Schedule) numFrames() int {
	return len(s.frames)
}
