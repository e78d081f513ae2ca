// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"
)

// FuncData holds one named function definition, used as the rainfall,
// evaporation and control-setting time series referenced by name from
// gages, subcatchments and links
type FuncData struct {
	Name string     `json:"name"` // e.g. "gage1-rain"
	Type string     `json:"type"` // e.g. "cte", "rmp", "pts" (gosl/fun built-ins)
	Prms dbf.Params `json:"prms"` // parameters
}

// FuncsData holds the named-function database
type FuncsData []*FuncData

// Get returns the resolved function by name
func (o FuncsData) Get(name string) (fcn dbf.T, err error) {
	if name == "" || name == "zero" || name == "none" {
		fcn = &dbf.Zero
		return
	}
	for _, f := range o {
		if f.Name == name {
			fcn, err = dbf.New(f.Type, f.Prms)
			if err != nil {
				err = chk.Err("cannot get function named %q:\n%v", name, err)
			}
			return
		}
	}
	err = chk.Err("cannot find function named %q", name)
	return
}
