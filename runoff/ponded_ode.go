// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package runoff

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
	"github.com/cpmech/gosl/ode"
)

// OdeTol governs the adaptive integrator's tolerance (§4.4, spec ODETOL);
// set once by the controller from the project's routing options.
var OdeTol = 1e-4

// integratePonded advances the ponded depth D0 by tStep under a
// step-constant net inflow rate i (ft/sec), following §4.4. The integrator
// runs only over the fraction of the step during which depth exceeds
// dStore; the initial dry portion (if any) is advanced linearly. tx is
// the duration, in seconds, spent above dStore.
func integratePonded(D0, i, dStore, alpha, n, tStep float64) (Dnew, tx float64, err error) {
	if D0 <= dStore && i <= 0 {
		Dnew = D0 + i*tStep
		if Dnew < 0 {
			Dnew = 0
		}
		return Dnew, 0, nil
	}

	y0 := D0
	tDry := 0.0
	if D0 < dStore {
		tDry = (dStore - D0) / i
		if tDry >= tStep {
			Dnew = D0 + i*tStep
			return Dnew, 0, nil
		}
		y0 = dStore
	}

	tWet := tStep - tDry
	if tWet <= 0 {
		return y0, 0, nil
	}

	if n == 0 {
		// no sub-area routing resistance: alpha is forced to zero, so
		// integrating dD/dt = i here would grow depth without bound while
		// runoffRate's N==0 branch reports that same growing excess as
		// discharged runoff -- double-counting the water as both stored
		// and discharged. All surplus above dStore drains within the
		// step instead, so depth returns to dStore.
		return dStore, tWet, nil
	}

	Dnew, err = solveReservoir(y0, i, dStore, alpha, tWet)
	if err != nil {
		return D0, 0, err
	}
	if Dnew < 0 {
		Dnew = 0
	}
	return Dnew, tWet, nil
}

// solveReservoir integrates dD/dt = i - alpha*max(D-dStore,0)^(5/3) over
// [0, tWet] starting at y0, grounded on the Radau5 + Jacobian-triplet
// shape of mdl/retention/model.go's Update function.
func solveReservoir(y0, i, dStore, alpha, tWet float64) (float64, error) {
	fcn := func(f []float64, dx, x float64, y []float64) error {
		excess := y[0] - dStore
		if excess < 0 {
			excess = 0
		}
		f[0] = i - alpha*math.Pow(excess, 5.0/3.0)
		return nil
	}
	jac := func(dfdy *la.Triplet, dx, x float64, y []float64) error {
		if dfdy.Max() == 0 {
			dfdy.Init(1, 1, 1)
		}
		excess := y[0] - dStore
		deriv := 0.0
		if excess > 0 {
			deriv = -alpha * (5.0 / 3.0) * math.Pow(excess, 2.0/3.0)
		}
		dfdy.Start()
		dfdy.Put(0, 0, deriv)
		return nil
	}

	var odesol ode.Solver
	odesol.Init("Radau5", 1, fcn, jac, nil, nil)
	odesol.SetTol(OdeTol, OdeTol)
	odesol.Distr = false

	y := []float64{y0}
	if err := odesol.Solve(y, 0, tWet, tWet, false); err != nil {
		return y0, chk.Err("ponded-depth integration failed: %v", err)
	}
	return y[0], nil
}
