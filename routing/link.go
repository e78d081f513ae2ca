// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package routing

import (
	"math"

	"github.com/cpmech/swmmgo/inp"
)

// Link wraps a network link's catalog data with its mutable per-step
// routing state (spec §3 "Node state" companion for links)
type Link struct {
	Data  *inp.LinkData
	Name  string
	Node1 *Node
	Node2 *Node

	// dynamic state
	OldFlow  float64
	NewFlow  float64
	OldDepth float64
	NewDepth float64
	Area     float64 // ft^2, current flow cross-section area
	OldVolume float64 // ft^3, Area*Length at the start of this step
	NewVolume float64 // ft^3, Area*Length at the end of this step
	EvapLoss float64 // cfs
	SeepLoss float64 // cfs

	// regulator control state (orifice/weir/outlet)
	Setting       float64
	TargetSetting float64
}

// NewLink builds a Link wrapper from catalog data and resolved node pointers
func NewLink(data *inp.LinkData, n1, n2 *Node) *Link {
	return &Link{Data: data, Name: data.Name, Node1: n1, Node2: n2, Setting: 1.0, TargetSetting: 1.0}
}

// SetTargetSetting records the control position a link should move toward;
// part of the §6 link collaborator contract, invoked by hotstart restore
// and by any future real-time control path
func (o *Link) SetTargetSetting(v float64) {
	o.TargetSetting = v
}

// SetSetting moves the link's control position to its target (§6
// collaborator contract). tstep is the transition time; no gradual
// actuation is modeled, so the target is adopted immediately regardless.
// Hotstart restore calls SetTargetSetting then SetSetting(0.0), the same
// path live control actions use, leaving Setting == TargetSetting.
func (o *Link) SetSetting(tstep float64) {
	o.Setting = o.TargetSetting
}

// initFlow sets the link's initial flow and cross-section area from the
// node initial depths, a conservative choice that seeds the area at
// full-flow proportional to the average of the two node depths.
func (o *Link) initFlow() {
	if o.Data.KindVal != inp.Conduit {
		return
	}
	d := 0.5 * (o.Node1.OldDepth + o.Node2.OldDepth)
	if o.Data.XSect.FullArea > 0 && o.Data.XSect.Diameter > 0 {
		frac := d / o.Data.XSect.Diameter
		if frac > 1 {
			frac = 1
		}
		if frac < 0 {
			frac = 0
		}
		o.Area = o.Data.XSect.FullArea * frac
	}
	o.OldVolume = o.Area * o.Data.Length
	o.NewVolume = o.OldVolume
}

// ratedFlow evaluates the regulator's outflow rating at the given upstream
// depth. Returns -1 when the link carries no rating, meaning the caller
// should fall back to pass-through.
func (o *Link) ratedFlow(depth float64) float64 {
	if !o.Data.KindVal.IsRegulator() || o.Data.RateCoeff <= 0 {
		return -1
	}
	if depth <= 0 {
		return 0
	}
	return o.Data.RateCoeff * math.Pow(depth, o.Data.RateExp) * o.Setting
}

// getLinkInflow returns the inflow drawn from the upstream node this step:
// the node's inflow not yet drawn by earlier links in traversal order
// (so a two-outlet node never hands the same water out twice), clamped by
// the node's maxOutflow (collaborator contract, §6). A rated regulator
// leaving a storage node draws its rating at the node's just-iterated
// depth instead of the raw inflow.
func (o *Link) getLinkInflow(tStep float64) float64 {
	q := o.Node1.Inflow - o.Node1.Outflow
	if o.Node1.Data.KindVal == inp.Storage {
		if r := o.ratedFlow(o.Node1.NewDepth); r >= 0 {
			q = r
		}
	}
	if max := o.Node1.maxOutflow(tStep); q > max {
		q = max
	}
	if q < 0 {
		q = 0
	}
	return q
}

// steadyFlow routes qin through a conduit link as a steady-flow solve
// (§4.6.2): subtract per-step losses, cap at qFull, and otherwise invert
// the cross-section rating q = β·S(A) by bisection on the flow area.
func (o *Link) steadyFlow(qin, tStep float64) float64 {
	if o.Data.KindVal != inp.Conduit {
		return qin
	}
	q := qin - o.EvapLoss - o.SeepLoss
	if q < 0 {
		q = 0
	}
	if o.Data.QFull > 0 && q >= o.Data.QFull {
		o.Area = o.Data.XSect.FullArea
		return o.Data.QFull
	}
	o.Area = o.invertRating(q)
	return q
}

// invertRating solves for the cross-section area giving flow q under
// Manning's equation for a circular pipe, by bisection (grounded on the
// getAofS collaborator contract, §6).
func (o *Link) invertRating(q float64) float64 {
	full := o.Data.XSect.FullArea
	if full <= 0 || q <= 0 {
		return 0
	}
	beta := o.Data.QFull / math.Pow(full, 5.0/3.0)
	if beta <= 0 {
		return full
	}
	lo, hi := 0.0, full
	for i := 0; i < 40; i++ {
		mid := 0.5 * (lo + hi)
		qtest := beta * math.Pow(mid, 5.0/3.0)
		if qtest < q {
			lo = mid
		} else {
			hi = mid
		}
	}
	return 0.5 * (lo + hi)
}

// setNewLinkState finalizes this link's depth for the step (§4.6 step 3),
// possibly elevating the upstream node's depth to match a surcharged
// conduit.
func (o *Link) setNewLinkState() {
	o.OldFlow = o.NewFlow
	if o.Data.KindVal == inp.Conduit && o.Data.XSect.Diameter > 0 {
		frac := o.Area / o.Data.XSect.FullArea
		if frac > 1 {
			frac = 1
		}
		o.NewDepth = frac * o.Data.XSect.Diameter
		if o.NewDepth > o.Node1.NewDepth {
			o.Node1.NewDepth = o.NewDepth
		}
	}
	o.OldDepth = o.NewDepth
	o.NewVolume = o.Area * o.Data.Length
}

// AvgVolume returns the §4.2 system-storage link contribution, a
// trapezoidal blend of this step's old and new volume
func (o *Link) AvgVolume(f float64) float64 {
	return (1-f)*o.OldVolume + f*o.NewVolume
}
