// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runoff

import (
	"math"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/swmmgo/gwater"
	"github.com/cpmech/swmmgo/infil"
	"github.com/cpmech/swmmgo/inp"
	"github.com/cpmech/swmmgo/lidunit"
	"github.com/cpmech/swmmgo/snowpack"
)

// Subcatchment wraps a subcatchment's catalog data with its three
// sub-areas and per-step dynamic state (spec §3 "Dynamic" fields).
type Subcatchment struct {
	Data *inp.SubcatchmentData
	Gage *inp.RainGage

	Subareas [inp.NumSubareas]*Subarea

	Infil  infil.Model    // attached to the pervious sub-area only, may be nil
	Gwater gwater.Model   // may be nil
	Snow   snowpack.Model // may be nil
	LID    lidunit.Model  // may be nil

	totalAreaSqFt float64

	// dynamic state
	OldRunoff      float64 // cfs, true value, used for routing
	NewRunoff      float64 // cfs, true value, used for routing
	ReportedRunoff float64 // cfs, zeroed below MinRunoff for output smoothing only
	OldSnowDepth   float64 // ft, water equivalent
	NewSnowDepth   float64 // ft, water equivalent
	Runon          float64 // ft/sec, accumulated inflow-rate over non-LID area; consumed and reset each step
	EvapLoss       float64 // ft/sec, averaged over total area
	InfilLoss      float64 // ft/sec, averaged over total area
	GwFlow         float64 // cfs, baseflow returned by the groundwater model this step; joins the runoff at the outlet node

	// mass-balance accumulators, ft^3
	RainVol  float64
	EvapVol  float64
	InfilVol float64
	OutVol   float64
}

// NewSubcatchment builds a Subcatchment wrapper and initializes its
// sub-areas' fixed geometry
func NewSubcatchment(data *inp.SubcatchmentData, gage *inp.RainGage) *Subcatchment {
	o := &Subcatchment{Data: data, Gage: gage}
	o.totalAreaSqFt = data.Area * acreToSqFt
	for k := range o.Subareas {
		sa := &Subarea{Data: &data.Subareas[k], Kind: inp.SubareaKind(k)}
		sa.Init(data)
		o.Subareas[k] = sa
	}
	return o
}

// AddRunon accumulates an inflow rate (ft/sec, normalized over this
// subcatchment's non-LID area) acquired from an upstream subcatchment,
// LID drain, or outfall re-routing (§4.3 step 1, §4.7)
func (o *Subcatchment) AddRunon(rate float64) {
	o.Runon += rate
}

// cascade computes the inter-sub-area cross-routing flows from the prior
// step's outflows (§4.3 step 2): impervious sub-areas configured to
// cascade to pervious contribute fArea*(1-fOutlet) of their outflow,
// spread over the pervious area, and symmetrically for pervious->imperv1.
func (o *Subcatchment) cascade() (toPerv, toImp1 float64) {
	var flowToPerv, flowToImp1 float64
	for k := inp.SubareaKind(0); k < inp.Perv; k++ {
		sa := o.Subareas[k]
		if sa.Data.Dest == inp.RoutePervious {
			flowToPerv += sa.NewRunoff * sa.areaSqFt * (1 - sa.Data.FOutlet)
		}
	}
	perv := o.Subareas[inp.Perv]
	if perv.Data.Dest == inp.RouteImperv {
		flowToImp1 = perv.NewRunoff * perv.areaSqFt * (1 - perv.Data.FOutlet)
	}
	if pervArea := perv.areaSqFt; pervArea > 0 {
		toPerv = flowToPerv / pervArea
	}
	if imp1Area := o.Subareas[inp.Imperv1].areaSqFt; imp1Area > 0 {
		toImp1 = flowToImp1 / imp1Area
	}
	return
}

// Execute advances the subcatchment by one step, following §4.3 steps 2-9.
// rain and snow are gage rates (ft/sec); evap and airTemp drive the
// evaporation loss and, when a snowpack collaborator is attached, melt.
// A non-nil error means the ponded-depth integration failed and this
// step's state is unusable.
func (o *Subcatchment) Execute(tStep, rain, snow, evap, airTemp float64) error {
	if o.Data.Area <= 0 {
		return nil
	}

	toPerv, toImp1 := o.cascade()

	melt := 0.0
	o.OldSnowDepth = o.NewSnowDepth
	if o.Snow != nil {
		melt = o.Snow.Update(snow, airTemp, tStep)
		if st := o.Snow.GetState(); len(st) > 0 {
			o.NewSnowDepth = st[0].V // pack water equivalent, ft
		}
	}
	precip := rain + snow
	if o.Snow != nil {
		precip = rain + melt
	}

	runonRate := o.Runon
	o.Runon = 0

	var evapAccum, infilAccum, outflowSqFtSec float64
	for k, sa := range o.Subareas {
		inflow := precip + runonRate
		switch inp.SubareaKind(k) {
		case inp.Perv:
			inflow += toPerv
		case inp.Imperv1:
			inflow += toImp1
		}

		infilRate := 0.0
		if sa.Kind == inp.Perv && o.Infil != nil {
			infilRate = o.Infil.GetInfil(inflow, sa.Depth, tStep)
		}

		if err := sa.step(inflow, evap, infilRate, tStep); err != nil {
			return chk.Err("subcatchment %q: %v", o.Data.Name, err)
		}

		evapAccum += sa.lastEvap * sa.areaSqFt
		infilAccum += sa.lastInfil * sa.areaSqFt
		outflowSqFtSec += sa.NewRunoff * sa.areaSqFt * sa.Data.FOutlet
	}

	totalInfil := infilAccum
	o.GwFlow = 0
	if o.Gwater != nil {
		baseflow := o.Gwater.Update(totalInfil/math.Max(o.totalAreaSqFt, 1e-12), tStep)
		o.GwFlow = baseflow * o.totalAreaSqFt
	}

	lidOut := 0.0
	lidIn := 0.0
	if o.LID != nil && o.Data.LidArea > 0 {
		lidAreaSqFt := o.Data.LidArea * acreToSqFt
		lidIn = (precip + runonRate) * lidAreaSqFt
		lidOut = o.LID.Update(lidIn/math.Max(lidAreaSqFt, 1e-12), tStep) * lidAreaSqFt
	}

	if o.totalAreaSqFt > 0 {
		o.EvapLoss = evapAccum / o.totalAreaSqFt
		o.InfilLoss = infilAccum / o.totalAreaSqFt
	}

	outCfs := outflowSqFtSec - lidIn + lidOut
	o.OldRunoff, o.NewRunoff = o.NewRunoff, outCfs
	minRunoff := MinRunoff * o.Data.Area * acreToSqFt
	if outCfs < minRunoff {
		o.ReportedRunoff = 0
	} else {
		o.ReportedRunoff = outCfs
	}

	dt := tStep
	o.RainVol += precip * o.totalAreaSqFt * dt
	o.EvapVol += evapAccum * dt
	o.InfilVol += infilAccum * dt
	o.OutVol += o.NewRunoff * dt
	return nil
}

// MinRunoff is the reporting threshold below which runoff is shown as
// zero for output smoothing (spec's MIN_RUNOFF), ft/sec; routing always
// sees the true value. Set once by the controller from project options.
var MinRunoff = 0.0
