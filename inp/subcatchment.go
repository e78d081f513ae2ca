// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// ModelRef names a pluggable collaborator model (infiltration, groundwater,
// snowpack, LID) and its parameters, resolved by each collaborator
// package's own factory (§6 collaborator contracts)
type ModelRef struct {
	Name string   `json:"name"` // factory key, e.g. "horton", "linear", "degreeday", "bioretention"
	Prms dbf.Params `json:"prms"`
}

// SubareaKind identifies one of the three sub-areas of a subcatchment (spec §3)
type SubareaKind int

// sub-area kinds, in catalog order
const (
	Imperv0 SubareaKind = iota // impervious, no depression storage
	Imperv1                    // impervious, with depression storage
	Perv                       // pervious
	NumSubareas
)

// RouteDest identifies where a sub-area's outflow is routed to (spec §3)
type RouteDest int

// routing destinations
const (
	RouteOutlet   RouteDest = iota // leaves the subcatchment directly
	RoutePervious                  // cascades onto the PERV sub-area
	RouteImperv                    // cascades onto the IMPERV1 sub-area
)

// SubareaData holds the (JSON-read, immutable) parameters of one sub-area
type SubareaData struct {
	N        float64   `json:"n"`        // Manning's roughness coefficient
	DStoreIn float64   `json:"dstore"`   // depression storage capacity, inches
	FArea    float64   `json:"farea"`    // fraction of the subcatchment's total area occupied by this sub-area
	RouteTo  string    `json:"routeto"`  // "outlet" | "pervious" | "impervious"
	FOutlet  float64   `json:"foutlet"`  // fraction of outflow that leaves the subcatchment (vs cascades)

	// derived
	Dest RouteDest // resolved RouteTo
}

// PostProcess resolves string enums and validates ranges
func (o *SubareaData) PostProcess() {
	switch o.RouteTo {
	case "", "outlet":
		o.Dest = RouteOutlet
		o.FOutlet = 1.0
	case "pervious":
		o.Dest = RoutePervious
	case "impervious":
		o.Dest = RouteImperv
	default:
		chk.Panic("sub-area routeTo must be one of outlet|pervious|impervious, got %q", o.RouteTo)
	}
}

// SubcatchmentData holds the (JSON-read, immutable) geometry and static
// configuration of one subcatchment (spec §3)
type SubcatchmentData struct {
	Name        string         `json:"name"`
	Gage        string         `json:"gage"`        // name of rain gage
	Outlet      string         `json:"outlet"`      // name of node or subcatchment this subcatchment drains to
	OutletIsSub bool           `json:"outletissub"` // true if Outlet names a subcatchment (upstream-of chain), false if a node
	Area        float64        `json:"area"`        // total area, acres
	ImpervFrac  float64        `json:"impervfrac"`  // fraction impervious, clamped to [0,1]
	Width       float64        `json:"width"`       // characteristic flow width, ft
	Slope       float64        `json:"slope"`       // slope, ft/ft
	CurbLen     float64        `json:"curblen"`     // curb length, ft
	LidArea     float64        `json:"lidarea"`     // LID-occupied area, acres (<= Area)
	Subareas    [3]SubareaData `json:"subareas"`    // indexed by SubareaKind

	// optional collaborator attachments (§3 "Optional attached objects")
	Infil  *ModelRef `json:"infil"`  // pervious-area infiltration model; nil => no infiltration
	Gwater *ModelRef `json:"gwater"` // groundwater aquifer model; nil => no groundwater coupling
	Snow   *ModelRef `json:"snow"`   // snowpack model; nil => no snow
	LID    *ModelRef `json:"lid"`    // LID control model; nil => no LID, ignored if LidArea == 0
}

// PostProcess validates invariants (spec §3) and resolves derived fields
func (o *SubcatchmentData) PostProcess() {
	if o.ImpervFrac > 1.0 {
		o.ImpervFrac = 1.0
	}
	if o.ImpervFrac < 0.0 {
		o.ImpervFrac = 0.0
	}
	if o.LidArea > o.Area {
		chk.Panic("subcatchment %q: LID area (%v) exceeds subcatchment area (%v)", o.Name, o.LidArea, o.Area)
	}
	sum := 0.0
	for i := range o.Subareas {
		o.Subareas[i].PostProcess()
		sum += o.Subareas[i].FArea
	}
	const tol = 1e-6
	if o.Area > 0 && (sum < 1.0-tol || sum > 1.0+tol) {
		chk.Panic("subcatchment %q: sum of sub-area fArea must equal 1.0, got %v", o.Name, sum)
	}
}

// NonLidArea returns the area (acres) not occupied by LID controls
func (o *SubcatchmentData) NonLidArea() float64 {
	return o.Area - o.LidArea
}
