// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runoff

import (
	"github.com/cpmech/swmmgo/inp"
)

// EvapSource supplies the evaporation rate and its next change time;
// collaborator for the step-size selection of §4.5.
type EvapSource interface {
	GetEvap(t float64) float64
	GetNextChange(t float64) float64
}

// ConstEvap is a trivial EvapSource with a constant rate and no scheduled
// change, used when a project defines no evaporation time series.
type ConstEvap float64

// GetEvap returns the constant rate
func (e ConstEvap) GetEvap(t float64) float64 { return float64(e) }

// GetNextChange reports no upcoming change
func (e ConstEvap) GetNextChange(t float64) float64 { return t }

// Controller drives every subcatchment forward in time, choosing the step
// size per §4.5 and executing §4.3 for every active subcatchment.
type Controller struct {
	Subs    []*Subcatchment
	Routing *inp.RoutingData
	Evap    EvapSource
	Errors  *inp.ErrorSink // the project's sticky sink; checked after every subcatchment

	AirTemp float64 // constant air temperature used by the snow collaborator; NewController sets it to 60
}

// NewController builds a step controller over the given subcatchments
func NewController(subs []*Subcatchment, routing *inp.RoutingData, evap EvapSource, errs *inp.ErrorSink) *Controller {
	if evap == nil {
		evap = ConstEvap(0)
	}
	OdeTol = routing.OdeTol
	MinRunoff = routing.MinRunoff
	return &Controller{Subs: subs, Routing: routing, Evap: evap, Errors: errs, AirTemp: 60.0}
}

// anyActive reports whether any gage is raining, any snowpack holds
// water, any subcatchment has active runoff, or any LID is wet — the
// condition that selects WetStep over DryStep (§4.5)
func (o *Controller) anyActive(t float64) bool {
	for _, s := range o.Subs {
		if s.Gage != nil && s.Gage.IsRaining(t) {
			return true
		}
		if s.NewSnowDepth > 0 {
			return true
		}
		if s.NewRunoff > 0 {
			return true
		}
		if s.LID != nil {
			if st := s.LID.GetState(); len(st) > 0 && st[0].V > 0 {
				return true
			}
		}
		for _, sa := range s.Subareas {
			if sa.Depth > 0 {
				return true
			}
		}
	}
	return false
}

// NextStep selects the step size per §4.5
func (o *Controller) NextStep(t, totalDuration float64) float64 {
	maxStep := o.Routing.DryStep
	if nc := o.Evap.GetNextChange(t); nc > t && nc-t < maxStep {
		maxStep = nc - t
	}
	for _, s := range o.Subs {
		if s.Gage == nil {
			continue
		}
		if nr := s.Gage.GetNextRainDate(t); nr > t && nr-t < maxStep {
			maxStep = nr - t
		}
	}

	step := o.Routing.DryStep
	if o.anyActive(t) {
		step = o.Routing.WetStep
	}
	if step > maxStep {
		step = maxStep
	}
	if t+step > totalDuration {
		step = totalDuration - t
	}
	if step < 0 {
		step = 0
	}
	return step
}

// Step advances every non-zero-area subcatchment by tStep, per §4.3,
// short-circuiting as soon as the sticky error code is set
func (o *Controller) Step(t, tStep float64) {
	evap := o.Evap.GetEvap(t)
	for _, s := range o.Subs {
		if o.Errors != nil && o.Errors.HasError() {
			return
		}
		if s.Data.Area <= 0 {
			continue
		}
		var rain, snow float64
		if s.Gage != nil {
			rain, snow = s.Gage.GetPrecip(t)
		}
		if err := s.Execute(tStep, rain, snow, evap, o.AirTemp); err != nil {
			if o.Errors != nil {
				o.Errors.SetError(inp.ErrOdeSolver, "%v", err)
			}
			return
		}
	}
}
