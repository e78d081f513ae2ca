// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package infil

import (
	"math"
	"strings"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// Horton implements Horton's exponential-decay infiltration model:
//
//	f(t) = fc + (f0 - fc)*exp(-k*t)
//
// where t is the elapsed time since infiltration capacity started being
// exceeded. During dry periods with no ponded water the capacity
// regenerates at rate kdry, modeled by reducing the elapsed-time state.
type Horton struct {

	// parameters
	f0   float64 // initial infiltration capacity, ft/sec
	fc   float64 // minimum (final) infiltration capacity, ft/sec
	k    float64 // decay coefficient, 1/sec
	kdry float64 // regeneration coefficient during drying, 1/sec

	// state
	t float64 // elapsed wetting time, sec
}

func init() {
	allocators["horton"] = func() Model { return new(Horton) }
}

// Init initializes model parameters
func (o *Horton) Init(prms dbf.Params) (err error) {
	for _, p := range prms {
		switch strings.ToLower(p.N) {
		case "f0":
			o.f0 = p.V
		case "fc":
			o.fc = p.V
		case "k":
			o.k = p.V
		case "kdry":
			o.kdry = p.V
		default:
			return chk.Err("horton: parameter named %q is incorrect", p.N)
		}
	}
	if o.f0 < o.fc {
		return chk.Err("horton: f0 (%v) must be >= fc (%v)", o.f0, o.fc)
	}
	return
}

// GetPrms returns example parameters
func (o Horton) GetPrms(example bool) dbf.Params {
	return []*dbf.P{
		{N: "f0", V: 5.0 / 43200.0},
		{N: "fc", V: 0.5 / 43200.0},
		{N: "k", V: 4.14e-4},
		{N: "kdry", V: 1.0 / 86400.0},
	}
}

// GetInfil returns the actual infiltration rate, ft/sec, given the
// available water supply rate (rainfall plus ponded depth spread over dt)
func (o *Horton) GetInfil(rainfall, ponded, dt float64) float64 {
	available := rainfall + ponded/math.Max(dt, 1e-12)
	capacity := o.fc + (o.f0-o.fc)*math.Exp(-o.k*o.t)
	actual := capacity
	if available < capacity {
		actual = available
	}
	if available >= capacity {
		o.t += dt
	} else {
		o.t -= o.kdry * dt * o.t
		if o.t < 0 {
			o.t = 0
		}
	}
	return actual
}

// GetState returns the elapsed-time state for hotstart persistence
func (o Horton) GetState() dbf.Params {
	return []*dbf.P{{N: "t", V: o.t}}
}

// SetState restores the elapsed-time state
func (o *Horton) SetState(s dbf.Params) {
	for _, p := range s {
		if p.N == "t" {
			o.t = p.V
		}
	}
}
