// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package lidunit implements low-impact-development control models placed
// on a subcatchment's LID-occupied area, diverting a share of the runon
// from direct runoff into storage/exfiltration
package lidunit

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// Model defines an LID control model
type Model interface {
	Init(prms dbf.Params) error      // initialises parameters
	GetPrms(example bool) dbf.Params // gets (an example) of parameters
	Update(inflow, dt float64) (outflow float64) // advances the unit, returns surface outflow rate, ft/sec
	GetState() dbf.Params
	SetState(s dbf.Params)
}

// New allocates an LID model by name
func New(name string) (model Model, err error) {
	allocator, ok := allocators[name]
	if !ok {
		return nil, chk.Err("model %q is not available in lidunit database", name)
	}
	return allocator(), nil
}

// allocators holds all available models
var allocators = map[string]func() Model{}
