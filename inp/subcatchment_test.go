// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inp

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_subarea_routeto(tst *testing.T) {

	chk.PrintTitle("subarea_routeto")

	sa := SubareaData{RouteTo: "pervious"}
	sa.PostProcess()
	if sa.Dest != RoutePervious {
		tst.Errorf("expected RoutePervious, got %v", sa.Dest)
	}

	sa2 := SubareaData{}
	sa2.PostProcess()
	if sa2.Dest != RouteOutlet || sa2.FOutlet != 1.0 {
		tst.Errorf("default sub-area routing must be outlet with fOutlet=1, got dest=%v foutlet=%v", sa2.Dest, sa2.FOutlet)
	}
}

func Test_subcatchment_farea_sum(tst *testing.T) {

	chk.PrintTitle("subcatchment_farea_sum")

	good := &SubcatchmentData{
		Name: "S1",
		Area: 5.0,
		Subareas: [3]SubareaData{
			{FArea: 0.2},
			{FArea: 0.3},
			{FArea: 0.5},
		},
	}
	good.PostProcess() // must not panic

	defer func() {
		if r := recover(); r == nil {
			tst.Errorf("expected panic for a sub-area fArea sum != 1")
		}
	}()
	bad := &SubcatchmentData{
		Name: "S2",
		Area: 5.0,
		Subareas: [3]SubareaData{
			{FArea: 0.2},
			{FArea: 0.2},
			{FArea: 0.5},
		},
	}
	bad.PostProcess()
}

func Test_subcatchment_lidarea_exceeds(tst *testing.T) {

	chk.PrintTitle("subcatchment_lidarea_exceeds")

	defer func() {
		if r := recover(); r == nil {
			tst.Errorf("expected panic for LID area exceeding subcatchment area")
		}
	}()
	s := &SubcatchmentData{
		Name:    "S3",
		Area:    1.0,
		LidArea: 2.0,
		Subareas: [3]SubareaData{
			{FArea: 0.2}, {FArea: 0.3}, {FArea: 0.5},
		},
	}
	s.PostProcess()
}
