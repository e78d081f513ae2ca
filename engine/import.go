// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import (
	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/swmmgo/results"
)

// ImportFrom seeds this simulation's dynamic state from a previously
// completed run's final reporting period, rather than (or in addition to)
// a hotstart file: it reads dir/key's Summary to locate the last period,
// opens its results store, and copies subcatchment and routing state into
// the current project's catalogs. Grounded on SPEC_FULL.md §3.4's
// `Domain.SetIniVals`/`stg.IniImport` analogue: a convenience layered on
// the results store, strictly additive to the persisted hotstart format.
//
// Import is necessarily partial compared to a hotstart restore: the
// results store only carries the §6 reporting variables, not every
// internal dynamic field (e.g. sub-area ponded depth, collaborator
// model state). Use a hotstart file when exact continuation matters;
// use ImportFrom when only a plausible initial condition is needed.
func (o *Simulation) ImportFrom(dir, key string) error {
	sum, err := ReadSummary(dir, key, o.Project.EncType)
	if err != nil {
		return err
	}
	if sum.NSteps == 0 {
		return chk.Err("imported run %q has no reported periods", key)
	}
	period := sum.NSteps - 1

	store, err := results.Open(dir + "/" + key + ".out")
	if err != nil {
		return err
	}
	defer store.CloseReader()

	for i, s := range o.Subs {
		row := store.ReadSubcatchResults(period, i)
		if len(row) <= results.SubSnowDepth {
			continue
		}
		s.NewSnowDepth = float64(row[results.SubSnowDepth])
		s.OldSnowDepth = s.NewSnowDepth
		if len(row) > results.SubRunoff {
			s.NewRunoff = float64(row[results.SubRunoff])
			s.OldRunoff = s.NewRunoff
			s.ReportedRunoff = s.NewRunoff
		}
	}

	for i, n := range o.Net.Nodes {
		row := store.ReadNodeResults(period, i)
		if len(row) <= results.NodeVolume {
			continue
		}
		n.NewDepth = float64(row[results.NodeDepth])
		n.OldDepth = n.NewDepth
		n.NewVolume = float64(row[results.NodeVolume])
		n.OldVolume = n.NewVolume
	}

	for i, l := range o.Net.Links {
		row := store.ReadLinkResults(period, i)
		if len(row) <= results.LinkDepth {
			continue
		}
		l.NewFlow = float64(row[results.LinkFlow])
		l.OldFlow = l.NewFlow
		l.NewDepth = float64(row[results.LinkDepth])
		l.OldDepth = l.NewDepth
	}

	return nil
}
