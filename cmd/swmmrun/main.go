// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"flag"
	"time"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"

	"github.com/cpmech/swmmgo/engine"
	"github.com/cpmech/swmmgo/inp"
)

func main() {

	// flags
	resultsPath := flag.String("out", "", "results file path (default: <dirout>/<key>.out)")
	hotstartIn := flag.String("hotstart-in", "", "hotstart file to read before t=0")
	hotstartOut := flag.String("hotstart-out", "", "hotstart file to write at run end")
	runoffIn := flag.String("runoff-in", "", "runoff interface file to replay instead of executing runoff")
	runoffOut := flag.String("runoff-out", "", "runoff interface file to record while executing runoff")
	alias := flag.String("alias", "", "suffix appended to the project key, e.g. for multiple runs of one project")
	importDir := flag.String("import-dir", "", "directory of a previously completed run to seed initial state from")
	importKey := flag.String("import-key", "", "project key of the previously completed run named by -import-dir")

	started := time.Now()

	// catch errors
	defer func() {
		if err := recover(); err != nil {
			chk.Verbose = true
			io.PfRed("> Failed\n")
			io.PfRed("ERROR: %v\n", err)
		}
	}()

	// message
	io.PfWhite("\nswmmgo -- stormwater runoff and conveyance-routing engine\n\n")
	io.Pf("Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.\n")
	io.Pf("Use of this source code is governed by a BSD-style\n")
	io.Pf("license that can be found in the LICENSE file.\n\n")

	// project filename
	flag.Parse()
	var fnamepath string
	if len(flag.Args()) > 0 {
		fnamepath = flag.Arg(0)
	} else {
		chk.Panic("Please, provide a project filename. Ex.: sample.json\n")
	}
	if io.FnExt(fnamepath) == "" {
		fnamepath += ".json"
	}

	// read and validate project
	prj := inp.ReadProject(fnamepath, *alias, true)
	if prj.Errors.HasError() {
		chk.Panic("project %q failed validation: %v: %v\n", fnamepath, prj.Errors.Code, prj.Errors.Message)
	}

	out := *resultsPath
	if out == "" {
		out = prj.DirOut + "/" + prj.Key + ".out"
	}

	// build and run the simulation
	sim := engine.New(prj)
	if *importDir != "" {
		if err := sim.ImportFrom(*importDir, *importKey); err != nil {
			chk.Panic("import from %q/%q failed: %v\n", *importDir, *importKey, err)
		}
	}
	sim.Run(engine.RunOptions{
		ResultsPath:   out,
		TotalDuration: prj.Routing.TotalDur,
		HotstartIn:    *hotstartIn,
		HotstartOut:   *hotstartOut,
		RunoffIn:      *runoffIn,
		RunoffOut:     *runoffOut,
	})

	if prj.Errors.HasError() {
		chk.Panic("run failed: %v: %v\n", prj.Errors.Code, prj.Errors.Message)
	}
	io.PfGreen("> Success\n")
	io.Pf("elapsed time = %v\n", time.Now().Sub(started))
	io.Pf("results written to %v\n", out)
}
