// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package routing

import "github.com/cpmech/swmmgo/inp"

// LinkSolver routes an inflow (cfs) through a conduit over one routing
// step and returns the outflow, updating the link's flow cross-section
// area as a side effect. Solvers register by name so that adding a new
// routing treatment does not require editing the traversal loop.
type LinkSolver func(l *Link, qin, tStep float64) float64

var linkSolvers = map[string]LinkSolver{}

// RegisterLinkSolver makes a conduit solver available under the given name
func RegisterLinkSolver(name string, fn LinkSolver) {
	linkSolvers[name] = fn
}

func init() {
	RegisterLinkSolver("steady", func(l *Link, qin, tStep float64) float64 {
		return l.steadyFlow(qin, tStep)
	})
}

// routeConduit dispatches a conduit to the solver matching the project's
// routing model. The kinematic-wave normal-flow solver is a collaborator
// (spec §4.6): until one is registered under "kinematic", kinematic
// projects fall back to the steady solver, which shares the same
// cross-section rating inversion.
func (o *Network) routeConduit(l *Link, qin, tStep float64) float64 {
	name := "steady"
	if o.Project.Routing.ModelVal == inp.Kinematic {
		if _, ok := linkSolvers["kinematic"]; ok {
			name = "kinematic"
		}
	}
	return linkSolvers[name](l, qin, tStep)
}
