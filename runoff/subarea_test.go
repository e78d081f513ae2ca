// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runoff

import (
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/swmmgo/inp"
)

// Test_subarea_alpha_uses_full_area pins the Open-Question decision that a
// sub-area's geometry (and so its non-linear-reservoir coefficient alpha)
// is derived from the subcatchment's total Area, not its LID-excluded
// NonLidArea(), per Init's documented convention.
func Test_subarea_alpha_uses_full_area(tst *testing.T) {

	chk.PrintTitle("subarea_alpha_uses_full_area")

	sub := &inp.SubcatchmentData{Area: 2.0, LidArea: 1.0, Width: 100.0, Slope: 0.01}
	data := &inp.SubareaData{N: 0.015, FArea: 1.0}

	sa := &Subarea{Data: data}
	sa.Init(sub)

	full := &inp.SubcatchmentData{Area: 2.0, Width: 100.0, Slope: 0.01}
	saFull := &Subarea{Data: data}
	saFull.Init(full)

	chk.Scalar(tst, "alpha matches full-area init, not NonLidArea", 1e-12, sa.alpha, saFull.alpha)
	chk.Scalar(tst, "areaSqFt uses Area, not NonLidArea", 1e-9, sa.areaSqFt, sub.Area*acreToSqFt*data.FArea)
}

// Test_subarea_n_zero_drains_to_dstore checks the §4.3/§8 boundary: with
// N == 0 (no sub-area routing resistance), a step whose inflow leaves depth
// above dStore drains all of the surplus within the step -- depth returns to
// dStore rather than growing unbounded -- while the reported runoff still
// carries the discharged volume (no mass double-count).
func Test_subarea_n_zero_drains_to_dstore(tst *testing.T) {

	chk.PrintTitle("subarea_n_zero_drains_to_dstore")

	const dStore = 0.01 // ft
	const tStep = 300.0 // sec
	const inflow = 1e-4 // ft/sec, well above what dStore can absorb in one step

	data := &inp.SubareaData{N: 0, DStoreIn: dStore / inchToFt}
	sa := &Subarea{Data: data, dStore: dStore}

	sa.step(inflow, 0, 0, tStep)

	chk.Scalar(tst, "depth returns to dStore", 1e-9, sa.Depth, dStore)
	if sa.NewRunoff <= 0 {
		tst.Errorf("expected positive runoff for N==0 surplus, got %v", sa.NewRunoff)
	}

	wantRunoff := inflow - dStore/tStep
	chk.Scalar(tst, "runoff carries the discharged volume", 1e-6, sa.NewRunoff, wantRunoff)
}
