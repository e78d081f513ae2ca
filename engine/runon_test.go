// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import (
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/swmmgo/inp"
)

// Test_sub_to_sub_runon checks the two-subcatchments-in-series wiring:
// after a propagation pass, the downstream subcatchment's runon
// accumulator holds the upstream one's current runoff spread over the
// downstream's non-LID area.
func Test_sub_to_sub_runon(tst *testing.T) {

	chk.PrintTitle("sub_to_sub_runon")

	prj := buildTestProject()
	a := &inp.SubcatchmentData{
		Name: "A", Area: 1.0, Outlet: "B", OutletIsSub: true,
		Subareas: [3]inp.SubareaData{{FArea: 1.0, FOutlet: 1.0}},
	}
	b := &inp.SubcatchmentData{
		Name: "B", Area: 1.0,
		Subareas: [3]inp.SubareaData{{FArea: 1.0, FOutlet: 1.0}},
	}
	a.PostProcess()
	b.PostProcess()
	prj.Subcatchments = []*inp.SubcatchmentData{a, b}
	prj.SubByName = map[string]*inp.SubcatchmentData{"A": a, "B": b}

	sim := New(prj)
	subA := sim.SubByName["A"]
	subB := sim.SubByName["B"]

	subA.NewRunoff = 2.0 // cfs
	sim.propagateSubToSub()

	want := subA.NewRunoff / (b.NonLidArea() * acreToSqFt)
	chk.Scalar(tst, "downstream runon", 1e-12, subB.Runon, want)
}

// Test_outfall_reroute checks the §4.7 outfall re-routing conversion: an
// outfall with an accumulated routed volume delivers it to its target
// subcatchment as a rate over the previous step's duration and over the
// target's non-LID area, then resets the accumulator. An outfall with no
// route target must produce no runon anywhere.
func Test_outfall_reroute(tst *testing.T) {

	chk.PrintTitle("outfall_reroute")

	prj := buildTestProject()
	prj.Nodes[1].RouteTo = "S1"
	prj.Nodes[1].PostProcess()

	sim := New(prj)
	target := sim.SubByName["S1"]

	of := sim.Net.Get("OF1")
	of.VRouted = 100.0 // ft^3
	sim.prevRunoffStep = 10.0

	sim.rerouteOutfalls()

	want := (100.0 / 10.0) / (target.Data.NonLidArea() * acreToSqFt)
	chk.Scalar(tst, "rerouted runon", 1e-12, target.Runon, want)
	if of.VRouted != 0 {
		tst.Errorf("outfall VRouted must reset after re-routing, got %v", of.VRouted)
	}
}
