// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package snowpack implements snow accumulation and melt models that
// convert the gage's snow rate into delayed melt water supplied to the
// subcatchment's sub-areas
package snowpack

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// Model defines a snowpack accumulation/melt model
type Model interface {
	Init(prms dbf.Params) error      // initialises parameters
	GetPrms(example bool) dbf.Params // gets (an example) of parameters
	Update(snowfall, airTemp, dt float64) float64 // advances the pack, returns melt rate, ft/sec
	GetState() dbf.Params
	SetState(s dbf.Params)
}

// New allocates a snowpack model by name
func New(name string) (model Model, err error) {
	allocator, ok := allocators[name]
	if !ok {
		return nil, chk.Err("model %q is not available in snowpack database", name)
	}
	return allocator(), nil
}

// allocators holds all available models
var allocators = map[string]func() Model{}
