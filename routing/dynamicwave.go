// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package routing

// DynamicWaveSolver is the collaborator contract for full unsteady
// momentum routing (§4.6.3, §6). The core never implements its internals
// (crown-elevation precomputation, variable-step selection, momentum
// iteration); it only delegates when routingModel == DynamicWave.
type DynamicWaveSolver interface {
	Init(net *Network) error
	Close()
	GetRoutingStep(fixedStep float64) float64
	Execute(dt float64) (stepCount int, err error)
}

// NopDynamicWave is a no-op placeholder satisfying DynamicWaveSolver so
// that a project configured for dynamic-wave routing can be opened and
// exercised end-to-end without a full momentum solver attached; it passes
// inflow straight through every link, equivalent to a single kinematic
// pass, and exists only as the pluggable slot's default, not as a
// substitute for real dynamic-wave physics (spec.md's explicit
// out-of-scope collaborator).
type NopDynamicWave struct{}

// Init does nothing
func (NopDynamicWave) Init(net *Network) error { return nil }

// Close does nothing
func (NopDynamicWave) Close() {}

// GetRoutingStep returns the fixed step unchanged
func (NopDynamicWave) GetRoutingStep(fixedStep float64) float64 { return fixedStep }

// Execute reports a single computational step and performs no routing of
// its own; Network.Step already passed qin through unchanged for this case.
func (NopDynamicWave) Execute(dt float64) (int, error) { return 1, nil }
