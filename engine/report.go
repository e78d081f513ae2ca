// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import (
	"github.com/cpmech/swmmgo/inp"
	"github.com/cpmech/swmmgo/results"
)

// reportVolumeBlend is the f in the link-volume blend (1-f)*old + f*new;
// reporting happens on step boundaries, where the blend degenerates to
// the end-of-step volume
const reportVolumeBlend = 1.0

// writeReportPeriod appends one results period block: every subcatchment,
// node and link's current reported state, plus the §4.2 system-wide
// aggregation across all three. Called once every ReportStep, independent
// of the runoff/routing step sizes that led up to it.
func (o *Simulation) writeReportPeriod(date float64) {
	if o.Results == nil {
		return
	}

	subRows := make([][]float64, len(o.Subs))
	var sysRain, sysSnow, sysEvap, sysInfil, sysRunoff, sysGwFlow float64
	totalArea := 0.0
	for i, s := range o.Subs {
		row := make([]float64, results.NumSubVars)
		row[results.SubSnowDepth] = s.NewSnowDepth
		row[results.SubEvap] = s.EvapLoss
		row[results.SubInfil] = s.InfilLoss
		row[results.SubRunoff] = s.ReportedRunoff
		if s.Gwater != nil {
			row[results.SubGwFlow] = s.GwFlow
			if st := s.Gwater.GetState(); len(st) >= 1 {
				row[results.SubGwElev] = st[0].V
			}
		}
		subRows[i] = row

		area := s.Data.Area * acreToSqFt
		totalArea += area
		sysEvap += s.EvapLoss * area
		sysInfil += s.InfilLoss * area
		sysRunoff += s.ReportedRunoff
		sysGwFlow += s.GwFlow
		sysSnow += s.NewSnowDepth * area
		if s.Gage != nil {
			rain, _ := s.Gage.GetPrecip(date)
			row[results.SubRainfall] = rain
			sysRain += rain * area
		}
	}

	nodeRows := make([][]float64, len(o.Net.Nodes))
	var sysFlooding, sysStorage, sysOutflow float64
	for i, n := range o.Net.Nodes {
		row := make([]float64, results.NumNodeVars)
		row[results.NodeDepth] = n.NewDepth
		row[results.NodeHead] = n.NewDepth + n.Data.Invert
		row[results.NodeVolume] = n.NewVolume
		row[results.NodeLatFlow] = n.Lateral
		row[results.NodeInflow] = n.LastInflow
		row[results.NodeOverflow] = n.Overflow
		nodeRows[i] = row

		sysFlooding += n.Overflow
		sysStorage += n.NewVolume
		if n.Data.KindVal == inp.Outfall {
			sysOutflow += n.LastInflow
		}
	}

	linkRows := make([][]float64, len(o.Net.Links))
	for i, l := range o.Net.Links {
		row := make([]float64, results.NumLinkVars)
		row[results.LinkFlow] = l.NewFlow
		row[results.LinkDepth] = l.NewDepth
		if l.Area > 0 {
			row[results.LinkVelocity] = l.NewFlow / l.Area
		}
		row[results.LinkVolume] = l.AvgVolume(reportVolumeBlend)
		if l.Data.QFull > 0 {
			row[results.LinkCapacity] = l.NewFlow / l.Data.QFull
		}
		linkRows[i] = row
		sysStorage += row[results.LinkVolume]
	}

	var sys [results.MaxSysResults]float64
	sys[results.SysTemperature] = o.Controller.AirTemp
	if totalArea > 0 {
		sys[results.SysRainfall] = sysRain / totalArea
		sys[results.SysSnowDepth] = sysSnow / totalArea
		sys[results.SysInfil] = sysInfil / totalArea
		sys[results.SysEvap] = sysEvap / totalArea
	}
	sys[results.SysRunoff] = sysRunoff
	sys[results.SysGwFlow] = sysGwFlow
	sys[results.SysFlooding] = sysFlooding
	sys[results.SysOutflow] = sysOutflow
	sys[results.SysStorage] = sysStorage

	o.Results.WritePeriod(date, subRows, nodeRows, linkRows, sys)
}
