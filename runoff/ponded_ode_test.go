// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runoff

import (
	"testing"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/swmmgo/ana"
	"github.com/cpmech/swmmgo/inp"
)

// Test_ponded_equilibrium checks that repeatedly integrating the
// ponded-depth ODE under sustained constant net inflow converges to the
// closed-form equilibrium depth where inflow equals overland outflow.
func Test_ponded_equilibrium(tst *testing.T) {

	chk.PrintTitle("ponded_equilibrium")

	const alpha = 0.002
	const dStore = 0.01 // ft
	const inflow = 5e-6 // ft/sec
	const tStep = 300.0 // sec

	depth := 0.0
	for i := 0; i < 2000; i++ {
		var err error
		depth, _, err = integratePonded(depth, inflow, dStore, alpha, 0.02, tStep)
		if err != nil {
			tst.Fatalf("unexpected integration error at iteration %d: %v", i, err)
		}
	}

	want := ana.EquilibriumDepth(inflow, dStore, alpha)
	chk.Scalar(tst, "equilibrium depth", 1e-4, depth, want)

	data := inp.SubareaData{N: 0.02}
	sa := &Subarea{Data: &data, alpha: alpha, dStore: dStore}
	got := sa.runoffRate(depth, tStep)
	chk.Scalar(tst, "equilibrium runoff", 1e-6, got, ana.EquilibriumRunoff(inflow))
}
