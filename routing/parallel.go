// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package routing

import "sync"

// parallelDW executes the dynamic-wave sub-step concurrently over
// independent node partitions (spec §5's optional parallel mode). It is
// the local worker-pool replacement for the teacher's distributed
// mpi.Rank/mpi.Size execution: a simulation run lives in one process, so
// goroutines over a partition of the graph serve the same "independent
// units of work" role the teacher gave to MPI ranks, without requiring a
// message-passing runtime. The steady/kinematic path never calls this —
// it remains strictly sequential because node outflow depends on
// already-updated upstream storage.
func parallelDW(partitions [][]*Node, dt float64, exec func(part []*Node, dt float64) error) []error {
	errs := make([]error, len(partitions))
	var wg sync.WaitGroup
	for i, part := range partitions {
		wg.Add(1)
		go func(i int, part []*Node) {
			defer wg.Done()
			errs[i] = exec(part, dt)
		}(i, part)
	}
	wg.Wait()
	return errs
}

// partitionByComponent splits the network's nodes into weakly connected
// components, the independence boundary the dynamic-wave sub-step may
// safely parallelize over.
func partitionByComponent(nodes []*Node) [][]*Node {
	visited := make(map[*Node]bool, len(nodes))
	var parts [][]*Node
	for _, start := range nodes {
		if visited[start] {
			continue
		}
		var comp []*Node
		stack := []*Node{start}
		visited[start] = true
		for len(stack) > 0 {
			n := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			comp = append(comp, n)
			for _, l := range n.Out {
				if !visited[l.Node2] {
					visited[l.Node2] = true
					stack = append(stack, l.Node2)
				}
			}
			for _, l := range n.In {
				if !visited[l.Node1] {
					visited[l.Node1] = true
					stack = append(stack, l.Node1)
				}
			}
		}
		parts = append(parts, comp)
	}
	return parts
}
