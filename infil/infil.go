// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package infil implements pervious-area infiltration models, pluggable
// into the runoff engine's sub-area water balance (§4.3)
package infil

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// Model defines an infiltration model for the pervious sub-area
type Model interface {
	Init(prms dbf.Params) error      // initialises parameters
	GetPrms(example bool) dbf.Params // gets (an example) of parameters
	GetInfil(rainfall, ponded, dt float64) float64 // infiltration rate, ft/sec
	GetState() dbf.Params            // returns current internal state (for hotstart)
	SetState(s dbf.Params)           // restores internal state (for hotstart)
}

// New allocates an infiltration model by name
func New(name string) (model Model, err error) {
	allocator, ok := allocators[name]
	if !ok {
		return nil, chk.Err("model %q is not available in infil database", name)
	}
	return allocator(), nil
}

// allocators holds all available models
var allocators = map[string]func() Model{}
