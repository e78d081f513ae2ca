// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package engine wires the runoff engine, the flow-routing engine, and
// their hotstart/results/runoff-interface persistence into the single
// per-step control flow described by spec §2: the controller selects a
// runoff step, outfall runon is re-routed, the runoff engine executes every
// subcatchment, the routing engine advances the conveyance network by one
// or more (generally smaller) routing steps, and subcatchment-to-
// subcatchment runon is then propagated for the next step. Grounded on fem.FEM.Run's stage
// time-loop shape (_examples' teacher), generalized from a single FE
// pseudo-time march to this engine's coupled runoff/routing steps.
package engine

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"

	"github.com/cpmech/swmmgo/gwater"
	"github.com/cpmech/swmmgo/infil"
	"github.com/cpmech/swmmgo/inp"
	"github.com/cpmech/swmmgo/lidunit"
	"github.com/cpmech/swmmgo/results"
	"github.com/cpmech/swmmgo/routing"
	"github.com/cpmech/swmmgo/runoff"
	"github.com/cpmech/swmmgo/runoffio"
	"github.com/cpmech/swmmgo/snowpack"
)

const acreToSqFt = 43560.0

// outfallRoute pairs an outfall node configured to re-route its outflow
// (§4.7) with the subcatchment that receives it
type outfallRoute struct {
	Node   *routing.Node
	Target *runoff.Subcatchment
}

// Simulation owns every per-run object: the catalogs, the two engines, and
// the open persistence files. It is the "explicit owned context" design
// note (spec §9) asks for in place of hidden process-wide statics.
type Simulation struct {
	Project    *inp.Project
	Subs       []*runoff.Subcatchment
	SubByName  map[string]*runoff.Subcatchment
	Net        *routing.Network
	Controller *runoff.Controller

	Results   *results.Store
	RunoffOut *runoffio.Writer
	RunoffIn  *runoffio.Reader

	subChain      map[*runoff.Subcatchment]*runoff.Subcatchment // Outlet->subcatchment chains (§4.3 step 1)
	subToNode     map[*runoff.Subcatchment]*routing.Node        // Outlet->node lateral inflow
	outfallRoutes []outfallRoute

	prevRunoffStep float64    // previous period's tStep, for §4.7's flow conversion
	opts           RunOptions // the options passed to Run, retained for close()
	reportTimes    []float64  // every date written to the results store, for the §3.3 Summary handoff
}

// New builds a Simulation from a validated project: subcatchments with
// their attached collaborator models, the routing network, and the
// runon/outfall wiring derived from the catalogs' Outlet/RouteTo fields.
func New(prj *inp.Project) *Simulation {
	o := &Simulation{Project: prj}

	o.SubByName = make(map[string]*runoff.Subcatchment, len(prj.Subcatchments))
	for _, data := range prj.Subcatchments {
		gage := prj.GageByName[data.Gage]
		s := runoff.NewSubcatchment(data, gage)
		attachModels(s, data)
		o.Subs = append(o.Subs, s)
		o.SubByName[data.Name] = s
	}

	o.Net = routing.NewNetwork(prj)

	o.subChain = make(map[*runoff.Subcatchment]*runoff.Subcatchment)
	o.subToNode = make(map[*runoff.Subcatchment]*routing.Node)
	for _, s := range o.Subs {
		if s.Data.Outlet == "" {
			continue
		}
		if s.Data.OutletIsSub {
			if target, ok := o.SubByName[s.Data.Outlet]; ok {
				o.subChain[s] = target
			}
			continue
		}
		if node, ok := o.Net.NodeByName[s.Data.Outlet]; ok {
			o.subToNode[s] = node
		}
	}

	for _, n := range o.Net.Nodes {
		if n.Data.KindVal != inp.Outfall || n.Data.RouteTo == "" {
			continue
		}
		target, ok := o.SubByName[n.Data.RouteTo]
		if !ok || target.Data.Area <= 0 {
			continue
		}
		o.outfallRoutes = append(o.outfallRoutes, outfallRoute{Node: n, Target: target})
	}

	var evap runoff.EvapSource = runoff.ConstEvap(0)
	if prj.EvapFcn != nil {
		evap = funcEvap{prj.EvapFcn}
	}
	o.Controller = runoff.NewController(o.Subs, &prj.Routing, evap, &prj.Errors)
	return o
}

// funcEvap adapts a project-named time function into the step controller's
// EvapSource collaborator contract
type funcEvap struct {
	fcn fun.Func
}

// GetEvap evaluates the evaporation-rate function at time t
func (e funcEvap) GetEvap(t float64) float64 { return e.fcn.F(t, nil) }

// GetNextChange reports no discrete breakpoint (continuous function)
func (e funcEvap) GetNextChange(t float64) float64 { return t }

// attachModels resolves and initializes the optional per-subcatchment
// collaborator models (§3 "Optional attached objects") from their factory
// names, following the allocator/New pattern of mreten/mconduct.
func attachModels(s *runoff.Subcatchment, data *inp.SubcatchmentData) {
	if data.Infil != nil {
		m, err := infil.New(data.Infil.Name)
		if err != nil {
			chk.Panic("subcatchment %q: %v", data.Name, err)
		}
		if err := m.Init(data.Infil.Prms); err != nil {
			chk.Panic("subcatchment %q: infiltration model: %v", data.Name, err)
		}
		s.Infil = m
	}
	if data.Gwater != nil {
		m, err := gwater.New(data.Gwater.Name)
		if err != nil {
			chk.Panic("subcatchment %q: %v", data.Name, err)
		}
		if err := m.Init(data.Gwater.Prms); err != nil {
			chk.Panic("subcatchment %q: groundwater model: %v", data.Name, err)
		}
		s.Gwater = m
	}
	if data.Snow != nil {
		m, err := snowpack.New(data.Snow.Name)
		if err != nil {
			chk.Panic("subcatchment %q: %v", data.Name, err)
		}
		if err := m.Init(data.Snow.Prms); err != nil {
			chk.Panic("subcatchment %q: snowpack model: %v", data.Name, err)
		}
		s.Snow = m
	}
	if data.LID != nil && data.LidArea > 0 {
		m, err := lidunit.New(data.LID.Name)
		if err != nil {
			chk.Panic("subcatchment %q: %v", data.Name, err)
		}
		if err := m.Init(data.LID.Prms); err != nil {
			chk.Panic("subcatchment %q: LID model: %v", data.Name, err)
		}
		s.LID = m
	}
}
