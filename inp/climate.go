// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import "github.com/cpmech/gosl/fun"

// RainGage holds rainfall-gage catalog data (spec §3, §6 gage collaborator contract)
type RainGage struct {
	Name string `json:"name"` // gage name

	// rainfall time series, keyed by Go-native time functions (gosl/fun),
	// following the teacher's convention of naming functions and looking
	// them up from a shared function database (inp.FuncsData)
	RainFunc string `json:"rainfunc"` // name of function returning rainfall intensity, ft/sec
	SnowFunc string `json:"snowfunc"` // name of function returning snowfall intensity, ft/sec (water equivalent); "" if none

	// derived
	Rain fun.Func // resolved rainfall function
	Snow fun.Func // resolved snowfall function; nil if none
}

// GetPrecip returns (rain, snow) rates, ft/sec, at time t (§6 gage contract)
func (o *RainGage) GetPrecip(t float64) (rain, snow float64) {
	if o.Rain != nil {
		rain = o.Rain.F(t, nil)
	}
	if o.Snow != nil {
		snow = o.Snow.F(t, nil)
	}
	return
}

// GetNextRainDate returns the next time at which the rainfall rate changes,
// after t (§6 gage contract). A gage backed by a continuous function has no
// discrete breakpoints, so this conservatively returns t (no look-ahead);
// gages backed by a piecewise time series (fun.PtsArray-like functions)
// should override via a breakpoint-aware function implementation.
func (o *RainGage) GetNextRainDate(t float64) float64 {
	return t
}

// IsRaining returns whether this gage reports non-zero rainfall at time t
func (o *RainGage) IsRaining(t float64) bool {
	rain, _ := o.GetPrecip(t)
	return rain > 0
}
