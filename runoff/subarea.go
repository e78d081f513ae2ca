// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package runoff implements the per-subcatchment surface water balance:
// sub-area cross-routing, the ponded-depth ODE, and the step controller
// that drives every subcatchment forward in time.
package runoff

import (
	"math"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/swmmgo/inp"
)

const acreToSqFt = 43560.0
const inchToFt = 1.0 / 12.0

// Subarea wraps one of a subcatchment's three sub-areas (IMPERV0, IMPERV1,
// PERV) with its mutable per-step state; the catalog data in Data never
// changes after PostProcess.
type Subarea struct {
	Data *inp.SubareaData
	Kind inp.SubareaKind

	// geometry, computed once by Init from the owning subcatchment
	areaSqFt float64 // ft^2, this sub-area's share of the subcatchment's total area
	alpha    float64 // non-linear-reservoir coefficient (§4.3 step 4)
	dStore   float64 // depression storage capacity, ft (converted from inches)

	// dynamic state
	Depth     float64 // ponded depth, ft
	NewRunoff float64 // ft/sec over areaSqFt, this step's overland outflow
	tx        float64 // duration of the step during which depth > dStore (§4.4)
	lastEvap  float64 // ft/sec, this step's actual surface evaporation
	lastInfil float64 // ft/sec, this step's actual infiltration
}

// Init computes the sub-area's fixed geometry from the owning subcatchment.
// Per the documented convention (the sum-of-fArea invariant is validated
// against the subcatchment's full area, not its LID-excluded area), the
// sub-area's area is Area*FArea rather than NonLidArea()*FArea.
func (o *Subarea) Init(sub *inp.SubcatchmentData) {
	o.dStore = o.Data.DStoreIn * inchToFt
	o.areaSqFt = sub.Area * acreToSqFt * o.Data.FArea
	if o.areaSqFt <= 0 || o.Data.N <= 0 {
		o.alpha = 0
		return
	}
	width := sub.Width
	if width <= 0 {
		width = math.Sqrt(o.areaSqFt)
	}
	slope := sub.Slope
	if slope < 1e-6 {
		slope = 1e-6
	}
	o.alpha = 1.49 / o.Data.N * math.Sqrt(slope) * width / o.areaSqFt
}

// runoffRate returns the overland-flow rate (ft/sec) for the given depth,
// per §4.3 step 4: α·(depth−dStore)^(5/3) if depth > dStore, else zero.
// When N == 0 (no routing resistance) any excess above dStore drains
// within a single step.
func (o *Subarea) runoffRate(depth, tStep float64) float64 {
	excess := depth - o.dStore
	if excess <= 0 {
		return 0
	}
	if o.Data.N == 0 {
		return excess / tStep
	}
	return o.alpha * math.Pow(excess, 5.0/3.0)
}

// step advances this sub-area by tStep given a constant inflow rate (ft/sec,
// already net of precipitation/runon) and evaporation/infiltration losses,
// following §4.3 step 4 and §4.4.
func (o *Subarea) step(inflow, evap, infil, tStep float64) error {
	surfEvap := math.Min(o.Depth/tStep, evap)
	surfMoisture := o.Depth/tStep + inflow

	o.lastEvap = surfEvap
	o.lastInfil = infil
	losses := surfEvap + infil
	if losses >= surfMoisture {
		o.Depth = 0
		o.NewRunoff = 0
		o.tx = 0
		return nil
	}

	net := inflow - losses
	var err error
	o.Depth, o.tx, err = integratePonded(o.Depth, net, o.dStore, o.alpha, o.Data.N, tStep)
	if err != nil {
		return err
	}
	if o.Depth < 0 {
		o.Depth = 0
	}
	if o.Data.N == 0 {
		// integratePonded already clamped depth back to dStore for the
		// N==0 case; the discharged volume is net*tx (the wet portion of
		// the step), averaged over the full step.
		o.NewRunoff = net * o.tx / tStep
	} else {
		o.NewRunoff = o.runoffRate(o.Depth, tStep)
	}
	if o.NewRunoff < 0 {
		o.NewRunoff = 0
	}
	return nil
}

// SetDepth restores the sub-area's ponded depth, e.g. from a hotstart file
func (o *Subarea) SetDepth(depth float64) {
	if math.IsNaN(depth) {
		chk.Panic("subarea hotstart depth is NaN")
	}
	o.Depth = depth
}
