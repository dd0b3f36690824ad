package graph

import "sort"

// TopoOrder returns a topological order over the nodes reachable upstream
// from target (target included, last). Among simultaneously-ready nodes the
// lowest id goes first, so the schedule is deterministic for a given graph.
//
// Connect already rejects cycles, but TopoOrder re-detects them as defense
// in depth: a cycle among the reachable nodes yields a *CycleError and no
// order.
func (g *Graph) TopoOrder(target NodeID) ([]NodeID, error) {
	if _, ok := g.nodes[target]; !ok {
		return nil, &NotFoundError{ID: target}
	}

	// Reachable set: walk edges backwards from the target.
	set := map[NodeID]bool{}
	queue := []NodeID{target}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if set[cur] {
			continue
		}
		set[cur] = true
		for _, e := range g.edges {
			if e.To == cur {
				queue = append(queue, e.From)
			}
		}
	}

	// Kahn's algorithm on the induced subgraph.
	indegree := map[NodeID]int{}
	for id := range set {
		indegree[id] = 0
	}
	for _, e := range g.edges {
		if set[e.From] && set[e.To] {
			indegree[e.To]++
		}
	}

	var ready []NodeID
	for id, deg := range indegree {
		if deg == 0 {
			ready = append(ready, id)
		}
	}
	sort.Slice(ready, func(i, j int) bool { return ready[i] < ready[j] })

	order := make([]NodeID, 0, len(set))
	for len(ready) > 0 {
		// Ready list is kept sorted ascending; take the head.
		cur := ready[0]
		ready = ready[1:]
		order = append(order, cur)

		var woken []NodeID
		for _, e := range g.edges {
			if e.From != cur || !set[e.To] {
				continue
			}
			indegree[e.To]--
			if indegree[e.To] == 0 {
				woken = append(woken, e.To)
			}
		}
		if len(woken) > 0 {
			ready = append(ready, woken...)
			sort.Slice(ready, func(i, j int) bool { return ready[i] < ready[j] })
		}
	}

	if len(order) != len(set) {
		return nil, &CycleError{From: target, To: target}
	}
	return order, nil
}
