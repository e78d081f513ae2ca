// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import (
	"github.com/cpmech/gosl/io"

	"github.com/cpmech/swmmgo/hotstart"
	"github.com/cpmech/swmmgo/results"
	"github.com/cpmech/swmmgo/runoffio"
)

// RunOptions collects everything about a run that isn't part of the
// project's own catalogs: output paths and optional collaborator files,
// mirroring the open-time options fem.FEM.Run reads from its stage data.
type RunOptions struct {
	ResultsPath   string // required: results.Store output file
	TotalDuration float64 // sec

	HotstartIn  string // optional: restore dynamic state before t=0
	HotstartOut string // optional: snapshot dynamic state at run end

	RunoffOut string // optional: record a runoff interface file while executing
	RunoffIn  string // optional: replay a runoff interface file instead of executing runoff
}

// Run drives the coupled runoff/routing time loop described by spec §2
// from t=0 to TotalDuration, reporting system state every ReportStep.
func (o *Simulation) Run(opts RunOptions) {
	o.open(opts)
	defer o.close()
	if o.Project.Errors.HasError() {
		return
	}

	t := 0.0
	nextReport := o.Project.Routing.ReportStep
	for t < opts.TotalDuration {
		var tStep float64
		if o.RunoffIn != nil {
			var err error
			tStep, err = o.RunoffIn.ReadStep(o.Subs)
			if err != nil {
				break
			}
		} else {
			tStep = o.Controller.NextStep(t, opts.TotalDuration)
			if tStep <= 0 {
				break
			}
			o.rerouteOutfalls()
			o.Controller.Step(t, tStep)
			if o.RunoffOut != nil {
				o.RunoffOut.WriteStep(tStep, o.Subs)
			}
		}

		o.pushLateralToNodes()
		o.advanceRouting(tStep)
		if o.Project.Errors.HasError() {
			return
		}
		o.propagateSubToSub()

		t += tStep
		o.prevRunoffStep = tStep

		for nextReport <= t+1e-9 && o.Project.Routing.ReportStep > 0 {
			o.writeReportPeriod(nextReport)
			o.reportTimes = append(o.reportTimes, nextReport)
			nextReport += o.Project.Routing.ReportStep
		}
	}
}

// open acquires every file this run touches: the results store (always),
// and the optional hotstart-in, runoff-out/in collaborators, following the
// fem.FEM.Run open sequence (read restart state, open result streams,
// enter the time loop).
func (o *Simulation) open(opts RunOptions) {
	o.opts = opts
	if opts.HotstartIn != "" {
		hotstart.NewCodec(o.Project, o.Subs, o.Net).Read(opts.HotstartIn)
		if o.Project.Errors.HasError() {
			return
		}
	}

	o.Results = results.Create(opts.ResultsPath, o.Project, opts.TotalDuration, o.Project.Routing.ReportStep)
	if o.Project.Errors.HasError() {
		return
	}

	if opts.RunoffOut != "" {
		w, err := runoffio.Create(opts.RunoffOut, o.Project)
		if err != nil {
			return
		}
		o.RunoffOut = w
	}
	if opts.RunoffIn != "" {
		r, err := runoffio.Open(opts.RunoffIn, o.Project)
		if err != nil {
			return
		}
		o.RunoffIn = r
	}
}

// close flushes and releases every open file — performed even after an
// error so partial results remain inspectable, matching the epilogue's
// always-written terminal error code (spec §4.2). Only when no error is
// set does it then snapshot a hotstart file (if requested) and save the
// Summary.
func (o *Simulation) close() {
	if o.Results != nil {
		o.Results.Close()
	}
	if o.RunoffOut != nil {
		o.RunoffOut.Close()
	}
	if o.RunoffIn != nil {
		o.RunoffIn.Close()
	}
	if o.Project.Errors.HasError() {
		io.Pfred("ERROR: %v: %v\n", o.Project.Errors.Code, o.Project.Errors.Message)
		return
	}
	if o.opts.HotstartOut != "" {
		hotstart.NewCodec(o.Project, o.Subs, o.Net).Write(o.opts.HotstartOut)
	}
	if o.Project.DirOut != "" && o.Project.Key != "" {
		sum := Summary{OutTimes: o.reportTimes, NSteps: len(o.reportTimes)}
		if err := sum.Save(o.Project.DirOut, o.Project.Key, o.Project.EncType); err != nil {
			io.Pfyel("warning: cannot save summary: %v\n", err)
		}
	}
}

// rerouteOutfalls drains every §4.7 re-routing outfall's accumulated
// volume into its target subcatchment's runon, converted using the
// *previous* runoff step's duration (the outfall's accumulator covers the
// interval since the last drain, which ended one runoff step ago).
func (o *Simulation) rerouteOutfalls() {
	if o.prevRunoffStep <= 0 {
		return
	}
	for _, rte := range o.outfallRoutes {
		vol := rte.Node.VRouted
		rte.Node.VRouted = 0
		if vol <= 0 {
			continue
		}
		areaSqFt := rte.Target.Data.NonLidArea() * acreToSqFt
		if areaSqFt <= 0 {
			continue
		}
		rate := vol / o.prevRunoffStep
		rte.Target.AddRunon(rate / areaSqFt)
	}
}

// propagateSubToSub delivers this period's NewRunoff from every
// subcatchment whose Outlet names another subcatchment into that
// subcatchment's Runon accumulator. Because Subcatchment.Execute reads and
// resets Runon at its own top, this value is only consumed by the
// receiving subcatchment's *next* Execute call — the "previous step's
// runoff" semantics of spec §4.3 step 1.
func (o *Simulation) propagateSubToSub() {
	for s, target := range o.subChain {
		areaSqFt := target.Data.NonLidArea() * acreToSqFt
		if areaSqFt <= 0 {
			continue
		}
		target.AddRunon(s.NewRunoff / areaSqFt)
	}
}

// pushLateralToNodes delivers every subcatchment's current runoff, plus
// any groundwater baseflow, to the node it drains to directly; the value
// persists across the routing sub-steps advanceRouting takes within this
// runoff period, since routing.Node re-adds Lateral to Inflow every
// routing.Network.Step call without clearing it.
func (o *Simulation) pushLateralToNodes() {
	for s, node := range o.subToNode {
		node.SetLateral(s.NewRunoff + s.GwFlow)
	}
}

// advanceRouting steps the routing network forward by tStep, in
// RouteStep-sized increments (spec §2: routing generally takes several
// smaller steps per runoff step).
func (o *Simulation) advanceRouting(tStep float64) {
	route := o.Project.Routing.RouteStep
	if route <= 0 || route > tStep {
		route = tStep
	}
	remaining := tStep
	for remaining > 1e-9 {
		dt := route
		if dt > remaining {
			dt = remaining
		}
		o.Net.StepParallel(dt)
		if o.Project.Errors.HasError() {
			return
		}
		remaining -= dt
	}
}
