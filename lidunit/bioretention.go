// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lidunit

import (
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// Bioretention implements a surface-storage LID cell with a fixed
// underdrain coefficient: water ponds on the surface up to a storage
// depth, drains at a rate proportional to its depth, and overflows once the
// surface storage is full.
type Bioretention struct {

	// parameters
	dStore float64 // surface storage depth, ft
	kDrain float64 // underdrain coefficient, 1/sec

	// state
	depth float64 // current ponded depth, ft
}

func init() {
	allocators["bioretention"] = func() Model { return new(Bioretention) }
}

// Init initializes model parameters
func (o *Bioretention) Init(prms dbf.Params) (err error) {
	for _, p := range prms {
		switch strings.ToLower(p.N) {
		case "dstore":
			o.dStore = p.V
		case "kdrain":
			o.kDrain = p.V
		case "depth0":
			o.depth = p.V
		default:
			return chk.Err("bioretention: parameter named %q is incorrect", p.N)
		}
	}
	return
}

// GetPrms returns example parameters
func (o Bioretention) GetPrms(example bool) dbf.Params {
	return []*dbf.P{
		{N: "dstore", V: 0.5},
		{N: "kdrain", V: 1.0 / 86400.0},
		{N: "depth0", V: 0.0},
	}
}

// Update advances the cell by one explicit step and returns the surface
// outflow rate: drainage plus any overflow above dStore
func (o *Bioretention) Update(inflow, dt float64) (outflow float64) {
	drain := o.kDrain * o.depth
	o.depth += (inflow - drain) * dt
	if o.depth < 0 {
		o.depth = 0
	}
	if o.depth > o.dStore {
		overflow := (o.depth - o.dStore) / dt
		o.depth = o.dStore
		outflow = drain + overflow
		return
	}
	outflow = drain
	return
}

// GetState returns the ponded-depth state for hotstart persistence
func (o Bioretention) GetState() dbf.Params {
	return []*dbf.P{{N: "depth", V: o.depth}}
}

// SetState restores the ponded-depth state
func (o *Bioretention) SetState(s dbf.Params) {
	for _, p := range s {
		if p.N == "depth" {
			o.depth = p.V
		}
	}
}
