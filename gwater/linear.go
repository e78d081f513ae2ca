// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package gwater

import (
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// Linear implements a single linear-reservoir aquifer:
//
//	dS/dt = percolation - S/tc
//	baseflow = S/tc
//
// integrated by a simple explicit update, which is adequate given the
// long (day-to-week) time constants typical of this process relative to
// the runoff engine's wet-weather step (§4.5).
type Linear struct {

	// parameters
	tc float64 // reservoir time constant, sec

	// state
	s float64 // stored depth, ft
}

func init() {
	allocators["linear"] = func() Model { return new(Linear) }
}

// Init initializes model parameters
func (o *Linear) Init(prms dbf.Params) (err error) {
	for _, p := range prms {
		switch strings.ToLower(p.N) {
		case "tc":
			o.tc = p.V
		case "s0":
			o.s = p.V
		default:
			return chk.Err("linear: parameter named %q is incorrect", p.N)
		}
	}
	if o.tc <= 0 {
		return chk.Err("linear: tc must be positive, got %v", o.tc)
	}
	return
}

// GetPrms returns example parameters
func (o Linear) GetPrms(example bool) dbf.Params {
	return []*dbf.P{
		{N: "tc", V: 10 * 86400.0},
		{N: "s0", V: 0.0},
	}
}

// Update advances the reservoir by one explicit Euler step and returns
// the resulting baseflow rate
func (o *Linear) Update(percolation, dt float64) float64 {
	baseflow := o.s / o.tc
	o.s += (percolation - baseflow) * dt
	if o.s < 0 {
		o.s = 0
	}
	return baseflow
}

// GetState returns the stored-depth state for hotstart persistence
func (o Linear) GetState() dbf.Params {
	return []*dbf.P{{N: "s", V: o.s}}
}

// SetState restores the stored-depth state
func (o *Linear) SetState(s dbf.Params) {
	for _, p := range s {
		if p.N == "s" {
			o.s = p.V
		}
	}
}
