// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runoff

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/swmmgo/inp"
)

func newTestSubcatchment() *Subcatchment {
	data := &inp.SubcatchmentData{
		Name:  "S1",
		Area:  1.0, // acre
		Width: 100,
		Slope: 0.01,
		Subareas: [3]inp.SubareaData{
			{N: 0.015, DStoreIn: 0.05, FArea: 0.3, FOutlet: 1.0},
			{N: 0.015, DStoreIn: 0.1, FArea: 0.2, FOutlet: 1.0},
			{N: 0.2, DStoreIn: 0.2, FArea: 0.5, FOutlet: 1.0},
		},
	}
	for i := range data.Subareas {
		data.Subareas[i].PostProcess()
	}
	return NewSubcatchment(data, nil)
}

// Test_subcatchment_runoff_nonnegative checks that a subcatchment driven
// by constant rainfall with no losses reports non-negative runoff and
// accumulates a RainVol consistent with the applied rate.
func Test_subcatchment_runoff_nonnegative(tst *testing.T) {

	chk.PrintTitle("subcatchment_runoff_nonnegative")

	s := newTestSubcatchment()
	const rain = 1e-5 // ft/sec
	const tStep = 300.0

	for i := 0; i < 20; i++ {
		s.Execute(tStep, rain, 0, 0, 60)
		if s.NewRunoff < 0 {
			tst.Errorf("step %d: runoff must never be negative, got %v", i, s.NewRunoff)
		}
	}

	expectedRain := rain * s.totalAreaSqFt * tStep * 20
	chk.Scalar(tst, "rain volume", 1e-6, s.RainVol, expectedRain)
}

// Test_subcatchment_runon_consumed_next_step checks the §4.3 step-1
// ordering: runon added after Execute is not visible to that same
// Execute call, only to the following one.
func Test_subcatchment_runon_consumed_next_step(tst *testing.T) {

	chk.PrintTitle("subcatchment_runon_consumed_next_step")

	s := newTestSubcatchment()
	s.Execute(300, 0, 0, 0, 60)
	r0 := s.NewRunoff

	s.AddRunon(1e-4)
	s.Execute(300, 0, 0, 0, 60)
	r1 := s.NewRunoff

	if !(r1 > r0 || math.Abs(r1-r0) > 1e-12) {
		tst.Errorf("runon added before a step must influence that step's runoff: r0=%v r1=%v", r0, r1)
	}

	// the accumulator itself must have been drained by the step that consumed it
	if s.Runon != 0 {
		tst.Errorf("Runon must be reset to zero once consumed, got %v", s.Runon)
	}
}
