// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package snowpack

import (
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// DegreeDay implements a temperature-index snowmelt model:
//
//	melt = max(0, cmelt*(airTemp - tbase))
//
// capped by the water-equivalent currently held in the pack.
type DegreeDay struct {

	// parameters
	cmelt float64 // melt coefficient, ft/sec per degree
	tbase float64 // base melt temperature, same units as airTemp

	// state
	swe float64 // pack water equivalent, ft
}

func init() {
	allocators["degreeday"] = func() Model { return new(DegreeDay) }
}

// Init initializes model parameters
func (o *DegreeDay) Init(prms dbf.Params) (err error) {
	for _, p := range prms {
		switch strings.ToLower(p.N) {
		case "cmelt":
			o.cmelt = p.V
		case "tbase":
			o.tbase = p.V
		case "swe0":
			o.swe = p.V
		default:
			return chk.Err("degreeday: parameter named %q is incorrect", p.N)
		}
	}
	return
}

// GetPrms returns example parameters
func (o DegreeDay) GetPrms(example bool) dbf.Params {
	return []*dbf.P{
		{N: "cmelt", V: 1.0 / 43200.0},
		{N: "tbase", V: 32.0},
		{N: "swe0", V: 0.0},
	}
}

// Update accumulates snowfall into the pack, melts it by the
// temperature-index rule and returns the melt rate released over dt
func (o *DegreeDay) Update(snowfall, airTemp, dt float64) float64 {
	o.swe += snowfall * dt
	melt := 0.0
	if airTemp > o.tbase {
		melt = o.cmelt * (airTemp - o.tbase)
	}
	avail := o.swe / dt
	if melt > avail {
		melt = avail
	}
	o.swe -= melt * dt
	if o.swe < 0 {
		o.swe = 0
	}
	return melt
}

// GetState returns the pack water-equivalent state for hotstart persistence
func (o DegreeDay) GetState() dbf.Params {
	return []*dbf.P{{N: "swe", V: o.swe}}
}

// SetState restores the pack water-equivalent state
func (o *DegreeDay) SetState(s dbf.Params) {
	for _, p := range s {
		if p.N == "swe" {
			o.swe = p.V
		}
	}
}
