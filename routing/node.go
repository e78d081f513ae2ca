// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package routing implements the flow-routing engine: topologically
// ordered conveyance-network traversal, the steady-flow link solver, and
// storage-node Picard iteration with under-relaxation (spec §4.6).
package routing

import (
	"github.com/cpmech/swmmgo/inp"
)

// Node wraps a network node's catalog data with its mutable per-step
// routing state (spec §3 "Node state")
type Node struct {
	Data *inp.NodeData
	Name string

	Out []*Link // outgoing links, in catalog order
	In  []*Link // incoming links, in catalog order

	// dynamic state
	OldDepth     float64
	NewDepth     float64
	OldVolume    float64
	NewVolume    float64
	Inflow       float64 // aggregated lateral + upstream inflow this step, cfs
	Outflow      float64 // aggregated outflow this step, cfs
	OldNetInflow float64 // inflow-outflow from the previous step, for trapezoidal integration
	Overflow     float64 // cfs, flow lost above fullVolume/fullDepth
	SeepLoss     float64 // cfs
	EvapLoss     float64 // cfs
	Updated      bool    // set once this node's state has been advanced this step
	LastInflow   float64 // cfs, the step's total inflow as it stood before the accumulator reset; reporting reads this

	Lateral float64 // cfs, subcatchment runoff or dry-weather inflow delivered directly to this node this step
	VRouted float64 // ft^3, outfall only: volume accumulated since the last §4.7 re-routing consumption
}

// SetLateral assigns this step's lateral inflow (cfs), e.g. subcatchment
// runoff draining directly to this node rather than to another subcatchment
func (o *Node) SetLateral(q float64) {
	o.Lateral = q
}

// NewNode builds a Node wrapper from catalog data
func NewNode(data *inp.NodeData) *Node {
	return &Node{Data: data, Name: data.Name, OldDepth: data.InitDepth, NewDepth: data.InitDepth}
}

// initVolume derives the initial volume from the initial depth and node
// geometry, per §4.6's open-time initialization: if ponding is active and
// depth exceeds fullDepth, volume extends linearly via pondedArea.
func (o *Node) initVolume(allowPond bool) {
	depth := o.Data.InitDepth
	if o.Data.KindVal == inp.Storage && o.Data.Curve != nil {
		o.OldVolume = o.Data.Curve.VolumeOfDepth(depth)
	} else if depth > o.Data.FullDepth && o.Data.FullDepth > 0 {
		if allowPond && o.Data.PondedArea > 0 {
			o.OldVolume = o.Data.FullVolume + (depth-o.Data.FullDepth)*o.Data.PondedArea
		} else {
			o.OldVolume = o.Data.FullVolume
		}
	}
	o.NewVolume = o.OldVolume
}

// maxOutflow caps the flow a downstream link may draw from this node this
// step, per the getMaxOutflow collaborator contract (§6): everything
// currently stored plus this step's inflow.
func (o *Node) maxOutflow(tStep float64) float64 {
	return o.OldVolume/tStep + o.Inflow
}

// depthFromVolume resolves depth from volume via the node's storage curve
// for storage nodes, or linearly via pondedArea above fullDepth otherwise.
// A node with no geometric capacity holds no water of its own: its depth
// stays at zero here and is elevated by setNewLinkState to track the
// connected conduit's flow depth.
func (o *Node) depthFromVolume(volume float64, allowPond bool) float64 {
	if o.Data.KindVal == inp.Storage && o.Data.Curve != nil {
		return o.Data.Curve.DepthOfVolume(volume)
	}
	if o.Data.FullVolume <= 0 {
		return 0
	}
	if volume <= o.Data.FullVolume {
		return o.Data.FullDepth * volume / o.Data.FullVolume
	}
	if allowPond && o.Data.PondedArea > 0 {
		return o.Data.FullDepth + (volume-o.Data.FullVolume)/o.Data.PondedArea
	}
	return o.Data.FullDepth
}

// setNewNodeState finalizes this node's state for the step (§4.6 step 3):
// drains above-full non-storage nodes and resets the accumulators used by
// the next step.
func (o *Node) setNewNodeState(tStep float64) {
	if o.Data.KindVal != inp.Storage && o.NewVolume > o.Data.FullVolume && o.Data.FullVolume > 0 {
		overflow := (o.NewVolume - o.Data.FullVolume) / tStep
		if overflow > 1e-9 {
			o.Overflow = overflow
		}
		o.NewVolume = o.Data.FullVolume
	}
	if o.Data.KindVal == inp.Outfall {
		o.VRouted += o.Inflow * tStep
	}
	o.OldNetInflow = o.Inflow - o.Outflow
	o.LastInflow = o.Inflow
	o.OldDepth = o.NewDepth
	o.OldVolume = o.NewVolume
	o.Inflow, o.Outflow = 0, 0
	o.Updated = false
}
