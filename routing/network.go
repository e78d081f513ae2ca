// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package routing

import (
	"math"

	"github.com/cpmech/gosl/chk"

	"github.com/cpmech/swmmgo/inp"
)

// Network holds the routing engine's node/link graph and drives it
// forward in topologically sorted order (spec §4.6)
type Network struct {
	Project *inp.Project
	Nodes   []*Node
	Links   []*Link

	NodeByName map[string]*Node
	order      []*Link // topologically sorted link traversal order

	DW DynamicWaveSolver // nil unless routingModel == DynamicWave
}

// NewNetwork builds the routing graph from a validated project, per the
// §4.6 open-time initialization steps
func NewNetwork(prj *inp.Project) *Network {
	o := &Network{Project: prj}
	o.NodeByName = make(map[string]*Node)
	for _, nd := range prj.Nodes {
		n := NewNode(nd)
		o.Nodes = append(o.Nodes, n)
		o.NodeByName[n.Name] = n
	}
	for _, ld := range prj.Links {
		n1 := o.NodeByName[ld.Node1]
		n2 := o.NodeByName[ld.Node2]
		if n1 == nil || n2 == nil {
			prj.Errors.SetError(inp.ErrOutfall, "link %q references an unknown node", ld.Name)
			return o
		}
		l := NewLink(ld, n1, n2)
		o.Links = append(o.Links, l)
		n1.Out = append(n1.Out, l)
		n2.In = append(n2.In, l)
	}
	for _, n := range o.Nodes {
		n.initVolume(prj.Data.AllowPond)
	}
	for _, l := range o.Links {
		l.initFlow()
	}
	for _, n := range o.Nodes {
		for _, l := range n.Out {
			n.Outflow += l.OldFlow
		}
		for _, l := range n.In {
			n.Inflow += l.OldFlow
		}
	}
	o.order = o.topoSort()
	if prj.Routing.ModelVal == inp.DynamicWave {
		o.DW = NopDynamicWave{}
	}
	if prj.Routing.ModelVal == inp.Kinematic {
		if _, ok := linkSolvers["kinematic"]; !ok {
			prj.Errors.Warn("no kinematic-wave link solver is registered; conduits will be routed with the steady solver")
		}
	}
	return o
}

// topoSort orders links so that every link is visited only after all
// links feeding its upstream node have been visited — a straightforward
// Kahn's-algorithm pass, valid because §3's network-validity invariants
// guarantee the steady/kinematic graph is a tree (no cycles).
func (o *Network) topoSort() []*Link {
	indeg := make(map[*Node]int, len(o.Nodes))
	for _, n := range o.Nodes {
		indeg[n] = len(n.In)
	}
	var ready []*Node
	for _, n := range o.Nodes {
		if indeg[n] == 0 {
			ready = append(ready, n)
		}
	}
	var order []*Link
	visited := make(map[*Link]bool)
	for len(ready) > 0 {
		n := ready[0]
		ready = ready[1:]
		for _, l := range n.Out {
			if visited[l] {
				continue
			}
			order = append(order, l)
			visited[l] = true
			indeg[l.Node2]--
			if indeg[l.Node2] == 0 {
				ready = append(ready, l.Node2)
			}
		}
	}
	return order
}

// Step advances the routing network by one step, per §4.6
func (o *Network) Step(tStep float64) {
	for _, n := range o.Nodes {
		n.Inflow += n.Lateral
		n.Overflow = 0
	}
	// no real-time-control rule engine is in scope (spec §1 Non-goals); a
	// link's opening simply tracks its most recently commanded target,
	// which is how a hotstart-restored setting (§4.1) re-enters live use
	for _, l := range o.Links {
		l.Setting = l.TargetSetting
		l.OldVolume = l.NewVolume
	}
	for _, l := range o.order {
		if l.Node1.Data.KindVal == inp.Storage && !l.Node1.Updated {
			o.storageIteration(l.Node1, tStep)
		}
		qin := l.getLinkInflow(tStep)

		var qout float64
		switch {
		case o.Project.Routing.ModelVal == inp.DynamicWave && o.DW != nil:
			qout = qin // dynamic-wave collaborator owns the full momentum solve; core only tallies flow here
		case l.Data.KindVal == inp.Conduit:
			qout = o.routeConduit(l, qin, tStep)
		default:
			qout = qin
		}
		l.NewFlow = qout
		l.Node1.Outflow += qin
		l.Node2.Inflow += qout

		if o.Project.Errors.HasError() {
			return
		}
	}

	for _, n := range o.Nodes {
		if !n.Updated {
			if n.Data.KindVal == inp.Storage {
				o.storageIteration(n, tStep)
			} else {
				n.NewVolume = n.OldVolume + (n.Inflow-n.Outflow)*tStep
				if n.Data.FullVolume <= 0 {
					n.NewVolume = 0 // no geometric capacity: the node holds no water of its own
				}
				n.NewDepth = n.depthFromVolume(n.NewVolume, o.Project.Data.AllowPond)
			}
		}
		n.setNewNodeState(tStep)
	}
	for _, l := range o.order {
		l.setNewLinkState()
	}
}

// storageIteration solves the trapezoidal volume balance for a storage
// node by Picard iteration with under-relaxation (§4.6.1):
//
//	V_new = V_old + ½·(oldNetInflow + (inflow − outflow − losses))·dt
//	              − ½·outflow_storage(V_new)·dt
//
// where outflow_storage is the rated outflow of the node's regulator
// links at the candidate depth. Returns the number of iterations taken;
// non-convergence at MaxIter proceeds with the last iterate (spec §7's
// numerical-error policy).
func (o *Network) storageIteration(n *Node, tStep float64) int {
	omega := o.Project.Routing.Omega
	maxIter := o.Project.Routing.MaxIter
	stopTol := o.Project.Routing.StopTol
	allowPond := o.Project.Data.AllowPond

	netInflow := n.Inflow - n.Outflow - n.SeepLoss - n.EvapLoss
	base := n.OldVolume + 0.5*(n.OldNetInflow+netInflow)*tStep
	dPrev := n.OldDepth
	vNew := base
	overflowOutflow := 0.0
	iter := 0

	for ; iter < maxIter; iter++ {
		vNew = base - 0.5*n.ratedOutflow(dPrev)*tStep
		if vNew < 0 {
			vNew = 0
		}
		overflowOutflow = 0
		if vNew > n.Data.FullVolume && n.Data.FullVolume > 0 {
			top := n.OldVolume
			if n.Data.FullVolume > top {
				top = n.Data.FullVolume
			}
			overflow := (vNew - top) / tStep
			if overflow > 1e-9 {
				n.Overflow = overflow
				overflowOutflow = overflow
			}
			if !allowPond || n.Data.PondedArea <= 0 {
				vNew = n.Data.FullVolume
			}
		}
		dNew := n.depthFromVolume(vNew, allowPond)
		dRelaxed := dPrev + omega*(dNew-dPrev)
		converged := math.Abs(dRelaxed-dPrev) <= stopTol
		dPrev = dRelaxed
		vNew = volumeFromDepth(n, dRelaxed, allowPond)
		if converged {
			iter++
			break
		}
	}

	n.Outflow += overflowOutflow
	n.NewVolume = vNew
	n.NewDepth = dPrev
	n.Updated = true
	return iter
}

// ratedOutflow sums the rated outflow of this node's regulator links at
// the given depth; links with no rating pass inflow through and do not
// contribute here.
func (n *Node) ratedOutflow(depth float64) float64 {
	q := 0.0
	for _, l := range n.Out {
		if r := l.ratedFlow(depth); r > 0 {
			q += r
		}
	}
	return q
}

// volumeFromDepth inverts depthFromVolume, used to re-seed the Picard
// iterate from a relaxed depth estimate
func volumeFromDepth(n *Node, depth float64, allowPond bool) float64 {
	if n.Data.KindVal == inp.Storage && n.Data.Curve != nil {
		return n.Data.Curve.VolumeOfDepth(depth)
	}
	if n.Data.FullDepth <= 0 {
		return 0
	}
	if depth <= n.Data.FullDepth {
		return n.Data.FullVolume * depth / n.Data.FullDepth
	}
	if allowPond && n.Data.PondedArea > 0 {
		return n.Data.FullVolume + (depth-n.Data.FullDepth)*n.Data.PondedArea
	}
	return n.Data.FullVolume
}

// StepParallel advances the network exactly as Step does for the
// steady/kinematic links and storage nodes. When dynamic-wave routing is
// active, it first runs the collaborator sub-step concurrently over the
// network's weakly connected components (spec §5 optional mode) and then
// calls Step.
func (o *Network) StepParallel(tStep float64) {
	if o.Project.Routing.ModelVal != inp.DynamicWave || o.DW == nil {
		o.Step(tStep)
		return
	}
	parts := partitionByComponent(o.Nodes)
	errs := parallelDW(parts, tStep, func(part []*Node, dt float64) error {
		_, err := o.DW.Execute(dt)
		return err
	})
	for _, err := range errs {
		if err != nil {
			o.Project.Errors.SetError(inp.ErrOdeSolver, "dynamic-wave sub-step failed: %v", err)
			return
		}
	}
	o.Step(tStep)
}

// Get returns the named node and panics if it is not found — callers
// (outfall re-routing, results reporting) index by catalog name.
func (o *Network) Get(name string) *Node {
	n, ok := o.NodeByName[name]
	if !ok {
		chk.Panic("routing: unknown node %q", name)
	}
	return n
}
