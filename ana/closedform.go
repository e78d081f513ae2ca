// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package ana holds closed-form reference values used by _test.go files
// elsewhere to check the runoff and routing engines against known
// analytic limits; it is not itself a test package. Grounded on
// `ana/selfweight_confined.go`'s role in the teacher: a closed-form
// reference consumed by tests in other packages, not invoked at run time.
package ana

import "math"

// EquilibriumDepth returns the steady-state ponded depth of a single
// non-linear-reservoir sub-area (spec §4.3 step 4 / §4.4) under a
// constant net inflow rate i (ft/sec): the depth at which
// alpha*(depth-dStore)^(5/3) == i, obtained by inverting that relation.
// Used to check that the sub-area ODE integrator converges to the right
// fixed point under sustained constant rainfall with no cascade inflow.
func EquilibriumDepth(i, dStore, alpha float64) float64 {
	if i <= 0 || alpha <= 0 {
		return dStore
	}
	return dStore + math.Pow(i/alpha, 3.0/5.0)
}

// EquilibriumRunoff returns the steady-state overland outflow rate of a
// sub-area once its ponded depth has reached EquilibriumDepth: by
// definition of the fixed point, this equals the net inflow rate i.
func EquilibriumRunoff(i float64) float64 {
	return i
}

// MassBalanceResidual returns the closed-form water-balance residual of a
// subcatchment's accumulated volumes (spec §8's full-run mass-balance
// testable property): rainfall in minus (evaporation + infiltration +
// outflow) out minus the net change in sub-area storage, which should be
// zero to within integration error.
func MassBalanceResidual(rainVol, evapVol, infilVol, outVol, storageChange float64) float64 {
	return rainVol - evapVol - infilVol - outVol - storageChange
}
