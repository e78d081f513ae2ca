// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import (
	"os"
	"testing"

	"github.com/cpmech/gosl/chk"
)

// Test_summary_import_roundtrip runs a simulation to completion, which
// saves a Summary (§3.3) alongside the results file, then builds a fresh
// Simulation over the same project shape and imports the first run's
// final state (§3.4) into it, checking every node/link gets the prior
// run's last reported depth/flow rather than its initial value.
func Test_summary_import_roundtrip(tst *testing.T) {

	chk.PrintTitle("summary_import_roundtrip")

	dir := os.TempDir() + "/swmmgo_import_test"
	os.MkdirAll(dir, 0777)
	defer os.RemoveAll(dir)

	prj := buildTestProject()
	prj.DirOut = dir
	prj.Key = "run1"
	prj.EncType = "gob"

	sim := New(prj)
	const rate = 2.0
	const tStep = 300.0
	const nSteps = 3
	runoffPath := dir + "/run1.rff"
	recordRunoffDirect(tst, runoffPath, prj, sim.Subs, rate, tStep, nSteps)

	sim.Run(RunOptions{
		ResultsPath:   dir + "/run1.out",
		TotalDuration: tStep * nSteps,
		RunoffIn:      runoffPath,
	})
	if prj.Errors.HasError() {
		tst.Fatalf("unexpected run error: %v: %v", prj.Errors.Code, prj.Errors.Message)
	}

	wantNode := sim.Net.Get("J1").NewDepth
	wantLinkFlow := 0.0
	for _, l := range sim.Net.Links {
		if l.Name == "C1" {
			wantLinkFlow = l.NewFlow
		}
	}

	prj2 := buildTestProject()
	prj2.DirOut = dir
	prj2.Key = "run2"
	prj2.EncType = "gob"
	sim2 := New(prj2)

	if err := sim2.ImportFrom(dir, "run1"); err != nil {
		tst.Fatalf("ImportFrom failed: %v", err)
	}

	// the results store carries f32, so the imported values agree with the
	// first run's f64 state only to single precision
	gotNode := sim2.Net.Get("J1")
	chk.Scalar(tst, "imported node new depth", 1e-5, gotNode.NewDepth, wantNode)
	chk.Scalar(tst, "imported node old depth", 1e-5, gotNode.OldDepth, wantNode)
	for _, l := range sim2.Net.Links {
		if l.Name == "C1" {
			chk.Scalar(tst, "imported link flow", 1e-5, l.NewFlow, wantLinkFlow)
		}
	}
}
