// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package gwater implements shallow groundwater aquifer models that
// receive percolation from the pervious sub-area and return baseflow to
// the conveyance network
package gwater

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// Model defines a groundwater aquifer model
type Model interface {
	Init(prms dbf.Params) error      // initialises parameters
	GetPrms(example bool) dbf.Params // gets (an example) of parameters
	Update(percolation, dt float64) float64 // advances the aquifer state, returns baseflow rate, ft/sec
	GetState() dbf.Params
	SetState(s dbf.Params)
}

// New allocates a groundwater model by name
func New(name string) (model Model, err error) {
	allocator, ok := allocators[name]
	if !ok {
		return nil, chk.Err("model %q is not available in gwater database", name)
	}
	return allocator(), nil
}

// allocators holds all available models
var allocators = map[string]func() Model{}
