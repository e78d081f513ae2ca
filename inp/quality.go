// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

// Pollutant holds pollutant catalog data (spec §3)
type Pollutant struct {
	Name      string  `json:"name"`      // pollutant name
	Units     string  `json:"units"`     // concentration units code, used in results prologue (§6)
	DWFconc   float64 `json:"dwfconc"`   // dry-weather-flow concentration
	CoPollut  string  `json:"copollut"`  // name of companion pollutant, "" if none
	CoFract   float64 `json:"cofract"`   // fraction of companion pollutant concentration
}

// LandUse holds land-use catalog data (spec §3, buildup/washoff bookkeeping)
type LandUse struct {
	Name      string  `json:"name"`      // land use name
	SweepIntv float64 `json:"sweepintv"` // street-sweeping interval, days; 0 => no sweeping
	SweepAvail float64 `json:"sweepavail"` // fraction of buildup available for removal by sweeping
	SweepEffic float64 `json:"sweepeffic"` // street-sweeping removal efficiency
}
