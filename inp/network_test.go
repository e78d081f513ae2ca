// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_storage_curve_roundtrip(tst *testing.T) {

	chk.PrintTitle("storage_curve_roundtrip")

	curve := &StorageCurve{
		Depth: []float64{0, 2, 4, 6},
		Area:  []float64{100, 150, 200, 200},
	}

	for _, d := range []float64{0.5, 1.0, 2.0, 3.5, 5.0} {
		v := curve.VolumeOfDepth(d)
		back := curve.DepthOfVolume(v)
		chk.Scalar(tst, "depth roundtrip", 1e-4, back, d)
	}
}

func Test_validate_network_requires_outfall(tst *testing.T) {

	chk.PrintTitle("validate_network_requires_outfall")

	prj := &Project{
		Nodes: []*NodeData{
			{Name: "J1", Kind: "junction"},
		},
		Links: []*LinkData{},
	}
	prj.GageByName = make(map[string]*RainGage)
	prj.SubByName = make(map[string]*SubcatchmentData)
	prj.NodeByName = make(map[string]*NodeData)
	prj.NodeIndex = make(map[string]int)
	prj.LinkByName = make(map[string]*LinkData)
	for _, n := range prj.Nodes {
		n.PostProcess()
		prj.NodeByName[n.Name] = n
	}
	prj.validateNetwork()
	if prj.Errors.Code != ErrNoOutlets {
		tst.Errorf("expected ErrNoOutlets, got %v", prj.Errors.Code)
	}
}

func Test_validate_network_regulator_origin(tst *testing.T) {

	chk.PrintTitle("validate_network_regulator_origin")

	j1 := &NodeData{Name: "J1", Kind: "junction"}
	of := &NodeData{Name: "O1", Kind: "outfall"}
	j1.PostProcess()
	of.PostProcess()

	prj := &Project{
		Nodes: []*NodeData{j1, of},
		Links: []*LinkData{
			{Name: "L1", Kind: "orifice", Node1: "J1", Node2: "O1"},
		},
	}
	prj.GageByName = make(map[string]*RainGage)
	prj.SubByName = make(map[string]*SubcatchmentData)
	prj.NodeByName = map[string]*NodeData{"J1": j1, "O1": of}
	prj.NodeIndex = make(map[string]int)
	prj.LinkByName = make(map[string]*LinkData)
	for _, l := range prj.Links {
		l.PostProcess()
		prj.LinkByName[l.Name] = l
	}
	prj.validateNetwork()
	if prj.Errors.Code != ErrRegulator {
		tst.Errorf("expected ErrRegulator for an orifice originating at a junction, got %v", prj.Errors.Code)
	}
}
