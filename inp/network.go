// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"math"
	"sort"

	"github.com/cpmech/gosl/chk"
)

// NodeKind identifies the type of a conveyance-network node (spec §3)
type NodeKind int

// node kinds
const (
	Junction NodeKind = iota
	Outfall
	Divider
	Storage
)

// StorageCurve maps depth -> surface area for a storage node, linearly
// interpolated between user-given points (depth, area), sorted by depth.
// This is the concrete default implementation of the §6 node-geometry
// collaborator contract (getVolume/getDepth) for storage nodes.
type StorageCurve struct {
	Depth []float64 `json:"depth"` // ft, ascending
	Area  []float64 `json:"area"`  // ft^2
}

// AreaAt returns the interpolated surface area at the given depth
func (o *StorageCurve) AreaAt(depth float64) float64 {
	n := len(o.Depth)
	if n == 0 {
		return 0
	}
	if depth <= o.Depth[0] {
		return o.Area[0]
	}
	if depth >= o.Depth[n-1] {
		return o.Area[n-1]
	}
	i := sort.SearchFloat64s(o.Depth, depth)
	if i == 0 {
		return o.Area[0]
	}
	d0, d1 := o.Depth[i-1], o.Depth[i]
	a0, a1 := o.Area[i-1], o.Area[i]
	frac := (depth - d0) / (d1 - d0)
	return a0 + frac*(a1-a0)
}

// VolumeOfDepth integrates the curve from 0 to depth via the trapezoidal
// rule over the user-given breakpoints (§6 getVolume(node, depth))
func (o *StorageCurve) VolumeOfDepth(depth float64) float64 {
	n := len(o.Depth)
	if n == 0 || depth <= 0 {
		return 0
	}
	vol := 0.0
	prevD, prevA := 0.0, o.AreaAt(0)
	for i := 0; i < n; i++ {
		d := o.Depth[i]
		if d > depth {
			d = depth
		}
		a := o.AreaAt(d)
		vol += 0.5 * (prevA + a) * (d - prevD)
		prevD, prevA = d, a
		if o.Depth[i] >= depth {
			break
		}
	}
	if prevD < depth {
		a := o.AreaAt(depth)
		vol += 0.5 * (prevA + a) * (depth - prevD)
	}
	return vol
}

// DepthOfVolume inverts VolumeOfDepth by bisection (§6 getDepth(node, volume))
func (o *StorageCurve) DepthOfVolume(volume float64) float64 {
	if volume <= 0 {
		return 0
	}
	lo, hi := 0.0, o.maxDepth()
	for i := 0; i < 60; i++ {
		mid := 0.5 * (lo + hi)
		if o.VolumeOfDepth(mid) < volume {
			lo = mid
		} else {
			hi = mid
		}
	}
	return 0.5 * (lo + hi)
}

func (o *StorageCurve) maxDepth() float64 {
	n := len(o.Depth)
	if n == 0 {
		return 0
	}
	// extend search range well beyond the table in case of overflow above fullDepth
	return o.Depth[n-1] * 4.0
}

// NodeData holds the (JSON-read, immutable) catalog data of one node (spec §3)
type NodeData struct {
	Name        string        `json:"name"`
	Kind        string        `json:"kind"`       // "junction" | "outfall" | "divider" | "storage"
	Invert      float64       `json:"invert"`     // invert elevation, ft
	FullDepth   float64       `json:"fulldepth"`  // ft; 0 => open/unbounded
	FullVol     float64       `json:"fullvolume"` // ft^3, non-storage only: geometric capacity above which the node overflows; 0 => conceptual node holding no water
	PondedArea  float64       `json:"pondedarea"` // ft^2; 0 => ponding not allowed
	InitDepth   float64       `json:"initdepth"`  // ft
	RouteTo     string        `json:"routeto"`    // outfall only: name of subcatchment to receive re-routed runon; "" => none
	Curve       *StorageCurve `json:"curve"`      // storage only
	MaxOutletsN int           `json:"maxoutlets"` // divider only: at most 2 outgoing links allowed per spec invariants

	// derived
	KindVal    NodeKind
	FullVolume float64 // from Curve at FullDepth for storage nodes, from FullVol otherwise
}

// PostProcess resolves string enum and derived geometry
func (o *NodeData) PostProcess() {
	o.FullVolume = o.FullVol
	switch o.Kind {
	case "junction", "":
		o.KindVal = Junction
	case "outfall":
		o.KindVal = Outfall
	case "divider":
		o.KindVal = Divider
	case "storage":
		o.KindVal = Storage
		if o.Curve != nil {
			o.FullVolume = o.Curve.VolumeOfDepth(o.FullDepth)
		}
	default:
		chk.Panic("node %q: kind must be one of junction|outfall|divider|storage, got %q", o.Name, o.Kind)
	}
}

// LinkKind identifies the type of a conveyance-network link (spec §3)
type LinkKind int

// link kinds
const (
	Conduit LinkKind = iota
	Pump
	Orifice
	Weir
	Outlet
)

// IsRegulator returns true for orifice/weir/outlet links, which spec's
// network-validity invariant restricts to originate only at storage nodes
func (k LinkKind) IsRegulator() bool {
	return k == Orifice || k == Weir || k == Outlet
}

// XSection holds a simple circular-or-rectangular conduit cross-section,
// the concrete default implementation of the §6 cross-section collaborator
// contract (getAofY, getYofA, getAofS)
type XSection struct {
	Shape    string  `json:"shape"`    // "circular" | "rectangular"
	Diameter float64 `json:"diameter"` // ft, circular
	Height   float64 `json:"height"`   // ft, rectangular
	Width    float64 `json:"width"`    // ft, rectangular

	// derived
	FullArea float64 // ft^2
}

// PostProcess computes derived full area
func (o *XSection) PostProcess() {
	switch o.Shape {
	case "circular", "":
		r := o.Diameter / 2.0
		o.FullArea = 3.14159265358979 * r * r
	case "rectangular":
		o.FullArea = o.Width * o.Height
	default:
		chk.Panic("cross-section shape must be circular|rectangular, got %q", o.Shape)
	}
}

// hydraulicRadius returns the full-flow hydraulic radius (area/wetted
// perimeter) used to rate a conduit's full-flow capacity
func (o *XSection) hydraulicRadius() float64 {
	switch o.Shape {
	case "circular", "":
		return o.Diameter / 4.0
	case "rectangular":
		perimeter := 2*o.Width + 2*o.Height
		if perimeter <= 0 {
			return 0
		}
		return o.FullArea / perimeter
	}
	return 0
}

// LinkData holds the (JSON-read, immutable) catalog data of one link (spec §3)
type LinkData struct {
	Name      string   `json:"name"`
	Kind      string   `json:"kind"` // "conduit" | "pump" | "orifice" | "weir" | "outlet"
	Node1     string   `json:"node1"` // upstream node name
	Node2     string   `json:"node2"` // downstream node name
	Length    float64  `json:"length"`    // ft, conduit only
	Slope     float64  `json:"slope"`     // ft/ft, conduit only; must be >= 0 for non-dummy conduits
	Roughness float64  `json:"roughness"` // Manning's n, conduit only
	Offset1   float64  `json:"offset1"`   // upstream invert offset, ft
	Offset2   float64  `json:"offset2"`   // downstream invert offset, ft
	RateCoeff float64  `json:"ratecoeff"` // regulator only: outflow rating q = ratecoeff*depth^rateexp*setting, cfs; 0 => pass-through
	RateExp   float64  `json:"rateexp"`   // regulator only: rating exponent; defaults to 1 when a coefficient is given
	XSect     XSection `json:"xsect"`

	// derived
	KindVal   LinkKind
	Direction int     // +1 or -1
	QFull     float64 // cfs, full-flow capacity
}

// PostProcess resolves string enum and derived geometry
func (o *LinkData) PostProcess() {
	switch o.Kind {
	case "conduit", "":
		o.KindVal = Conduit
	case "pump":
		o.KindVal = Pump
	case "orifice":
		o.KindVal = Orifice
	case "weir":
		o.KindVal = Weir
	case "outlet":
		o.KindVal = Outlet
	default:
		chk.Panic("link %q: kind must be one of conduit|pump|orifice|weir|outlet, got %q", o.Name, o.Kind)
	}
	o.XSect.PostProcess()
	if o.Direction == 0 {
		o.Direction = 1
	}
	if o.RateCoeff > 0 && o.RateExp == 0 {
		o.RateExp = 1
	}
	if o.KindVal == Conduit && o.Roughness > 0 && o.Slope > 0 {
		r := o.XSect.hydraulicRadius()
		if r > 0 {
			o.QFull = 1.49 / o.Roughness * o.XSect.FullArea * math.Pow(r, 2.0/3.0) * math.Sqrt(o.Slope)
		}
	}
}
