// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hotstart

import (
	"os"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun/dbf"

	"github.com/cpmech/swmmgo/infil"
	"github.com/cpmech/swmmgo/inp"
	"github.com/cpmech/swmmgo/routing"
	"github.com/cpmech/swmmgo/runoff"
)

func buildTestCodec() (*inp.Project, []*runoff.Subcatchment, *routing.Network) {
	prj := &inp.Project{}

	sdata := &inp.SubcatchmentData{Name: "S1", Area: 1.0, Subareas: [3]inp.SubareaData{{FArea: 1.0, FOutlet: 1.0}}}
	sdata.Subareas[0].PostProcess()
	sub := runoff.NewSubcatchment(sdata, nil)

	j1 := &inp.NodeData{Name: "J1", Kind: "junction"}
	of := &inp.NodeData{Name: "OF1", Kind: "outfall"}
	j1.PostProcess()
	of.PostProcess()
	l1 := &inp.LinkData{Name: "C1", Kind: "conduit", Node1: "J1", Node2: "OF1"}
	l1.PostProcess()
	prj.Nodes = []*inp.NodeData{j1, of}
	prj.Links = []*inp.LinkData{l1}
	net := routing.NewNetwork(prj)

	return prj, []*runoff.Subcatchment{sub}, net
}

// Test_hotstart_roundtrip checks that a write followed by a read restores
// the dynamic state fields the §4.1 version-4 layout is defined to carry,
// for a project with no pollutants/land uses and no infiltration/
// groundwater/snow collaborators attached (keeping the round trip clear of
// the collaborators' named-parameter state vectors).
func Test_hotstart_roundtrip(tst *testing.T) {

	chk.PrintTitle("hotstart_roundtrip")

	prj, subs, net := buildTestCodec()

	subs[0].Subareas[0].Depth = 0.015
	subs[0].NewRunoff = 1.25e-5

	j1 := net.Get("J1")
	j1.NewDepth = 2.5
	l1 := net.Links[0]
	l1.NewFlow = 3.2
	l1.NewDepth = 0.8
	l1.SetTargetSetting(0.75)
	l1.SetSetting(0)

	path := os.TempDir() + "/swmmgo_hotstart_test.hsf"
	defer os.Remove(path)

	NewCodec(prj, subs, net).Write(path)
	if prj.Errors.HasError() {
		tst.Fatalf("unexpected write error: %v", prj.Errors.Message)
	}

	prj2, subs2, net2 := buildTestCodec()
	NewCodec(prj2, subs2, net2).Read(path)
	if prj2.Errors.HasError() {
		tst.Fatalf("unexpected read error: %v", prj2.Errors.Message)
	}

	chk.Scalar(tst, "subarea depth", 1e-9, subs2[0].Subareas[0].Depth, 0.015)
	chk.Scalar(tst, "subcatchment new runoff", 1e-9, subs2[0].NewRunoff, 1.25e-5)

	j1b := net2.Get("J1")
	chk.Scalar(tst, "node new depth", 1e-6, j1b.NewDepth, 2.5)

	l1b := net2.Links[0]
	chk.Scalar(tst, "link new flow", 1e-5, l1b.NewFlow, 3.2)
	chk.Scalar(tst, "link new depth", 1e-5, l1b.NewDepth, 0.8)
	chk.Scalar(tst, "link setting restored", 1e-5, l1b.Setting, 0.75)
	chk.Scalar(tst, "link target tracks setting", 1e-5, l1b.TargetSetting, 0.75)
}

// Test_hotstart_roundtrip_infil checks that the §4.1 6xf64 infiltration
// state slot actually carries a named-parameter collaborator's state
// across a write/read cycle instead of silently round-tripping zeros
// (the bug the named-vs-positional vecToPrms/prmsToVec bridge produced).
func Test_hotstart_roundtrip_infil(tst *testing.T) {

	chk.PrintTitle("hotstart_roundtrip_infil")

	prj, subs, net := buildTestCodec()

	model, err := infil.New("horton")
	if err != nil {
		tst.Fatalf("unexpected infil.New error: %v", err)
	}
	if err := model.Init(dbf.Params{{N: "f0", V: 5.0 / 43200.0}, {N: "fc", V: 0.5 / 43200.0}, {N: "k", V: 4.14e-4}, {N: "kdry", V: 1.0 / 86400.0}}); err != nil {
		tst.Fatalf("unexpected Init error: %v", err)
	}
	model.GetInfil(1.0/3600.0, 0, 1800) // supply above f0 advances the elapsed-wetting-time state away from zero
	subs[0].Infil = model

	wantT := model.GetState()[0].V
	if wantT == 0 {
		tst.Fatalf("test setup: expected a non-zero infiltration state to exercise the round trip")
	}

	path := os.TempDir() + "/swmmgo_hotstart_infil_test.hsf"
	defer os.Remove(path)

	NewCodec(prj, subs, net).Write(path)
	if prj.Errors.HasError() {
		tst.Fatalf("unexpected write error: %v", prj.Errors.Message)
	}

	prj2, subs2, net2 := buildTestCodec()
	model2, _ := infil.New("horton")
	model2.Init(dbf.Params{{N: "f0", V: 5.0 / 43200.0}, {N: "fc", V: 0.5 / 43200.0}, {N: "k", V: 4.14e-4}, {N: "kdry", V: 1.0 / 86400.0}})
	subs2[0].Infil = model2

	NewCodec(prj2, subs2, net2).Read(path)
	if prj2.Errors.HasError() {
		tst.Fatalf("unexpected read error: %v", prj2.Errors.Message)
	}

	chk.Scalar(tst, "infiltration elapsed-time state", 1e-9, model2.GetState()[0].V, wantT)
}

// Test_hotstart_rejects_catalog_mismatch checks that reading a hotstart
// file built against a different catalog size sets the sticky error code
// instead of silently misreading bytes into the wrong fields.
func Test_hotstart_rejects_catalog_mismatch(tst *testing.T) {

	chk.PrintTitle("hotstart_rejects_catalog_mismatch")

	prj, subs, net := buildTestCodec()
	path := os.TempDir() + "/swmmgo_hotstart_mismatch_test.hsf"
	defer os.Remove(path)
	NewCodec(prj, subs, net).Write(path)

	prj2, subs2, net2 := buildTestCodec()
	extra := &inp.SubcatchmentData{Name: "S2", Area: 1.0, Subareas: [3]inp.SubareaData{{FArea: 1.0, FOutlet: 1.0}}}
	extra.Subareas[0].PostProcess()
	subs2 = append(subs2, runoff.NewSubcatchment(extra, nil))

	NewCodec(prj2, subs2, net2).Read(path)
	if prj2.Errors.Code != inp.ErrHotstartFileFormat {
		tst.Errorf("expected ErrHotstartFileFormat for a catalog-size mismatch, got %v", prj2.Errors.Code)
	}
}
