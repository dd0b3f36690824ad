package graph

import (
	"fmt"
	"sort"

	"github.com/gogpu/compose"
)

// Edge is a directed relation from a source node's output slot to a
// destination node's input slot. At most one edge may feed a given
// (destination, input slot) pair.
type Edge struct {
	From     NodeID `json:"from"`
	FromSlot int    `json:"fromSlot"`
	To       NodeID `json:"to"`
	ToSlot   int    `json:"toSlot"`
}

// Graph is a set of nodes plus a set of edges, kept acyclic by construction.
// Adjacency is derived from the edge list keyed by stable node ids; there are
// no node-to-node pointers, so removing a node cannot leave dangling cycles.
type Graph struct {
	nextID    NodeID
	nodes     map[NodeID]*Node
	edges     []Edge
	onRelease func(*compose.Texture)
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nextID: 1,
		nodes:  make(map[NodeID]*Node),
	}
}

// OnRelease installs the function used to hand cached textures back when a
// node is removed. The evaluation engine points this at its texture pool.
func (g *Graph) OnRelease(fn func(*compose.Texture)) {
	g.onRelease = fn
}

// AddNode creates a node of the given kind with initial parameters and
// returns its id. New nodes start dirty with no cached output.
func (g *Graph) AddNode(kind Kind, params Params) NodeID {
	id := g.nextID
	g.nextID++

	p := make(Params, len(params))
	for k, v := range params {
		p[k] = v
	}
	g.nodes[id] = &Node{id: id, kind: kind, params: p, dirty: true}
	return id
}

// Node returns the node with the given id.
func (g *Graph) Node(id NodeID) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns all node ids in ascending order.
func (g *Graph) Nodes() []NodeID {
	ids := make([]NodeID, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Edges returns a copy of the edge set.
func (g *Graph) Edges() []Edge {
	out := make([]Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// EdgeInto returns the edge feeding the given (destination, input slot)
// pair, if any.
func (g *Graph) EdgeInto(dst NodeID, slot int) (Edge, bool) {
	for _, e := range g.edges {
		if e.To == dst && e.ToSlot == slot {
			return e, true
		}
	}
	return Edge{}, false
}

// RemoveNode deletes a node, detaches all incident edges, and releases the
// node's cached texture.
func (g *Graph) RemoveNode(id NodeID) error {
	n, ok := g.nodes[id]
	if !ok {
		return &NotFoundError{ID: id}
	}

	kept := g.edges[:0]
	for _, e := range g.edges {
		if e.From == id || e.To == id {
			if e.To != id {
				g.markDirtyFrom(e.To)
			}
			continue
		}
		kept = append(kept, e)
	}
	g.edges = kept

	if n.cache != nil && g.onRelease != nil {
		g.onRelease(n.cache)
	}
	n.cache = nil
	delete(g.nodes, id)
	return nil
}

// Connect adds an edge from src's output slot to dst's input slot.
//
// Connect fails with *CycleError if the edge would close a cycle (verified
// by a reachability check from dst to src before insertion) and with
// *SlotOccupiedError if the destination slot already has an incoming edge.
// On failure the graph is unchanged. On success the destination node and
// its transitive downstream closure are marked dirty.
func (g *Graph) Connect(src NodeID, srcSlot int, dst NodeID, dstSlot int) (Edge, error) {
	if _, ok := g.nodes[src]; !ok {
		return Edge{}, &NotFoundError{ID: src}
	}
	dn, ok := g.nodes[dst]
	if !ok {
		return Edge{}, &NotFoundError{ID: dst}
	}
	if srcSlot != 0 {
		return Edge{}, fmt.Errorf("graph: node %d has no output slot %d", src, srcSlot)
	}
	if dstSlot < 0 || dstSlot >= dn.kind.InputSlots() {
		return Edge{}, fmt.Errorf("graph: node %d (%s) has no input slot %d", dst, dn.kind, dstSlot)
	}
	if _, occupied := g.EdgeInto(dst, dstSlot); occupied {
		return Edge{}, &SlotOccupiedError{Node: dst, Slot: dstSlot}
	}
	if src == dst || g.reachable(dst, src) {
		return Edge{}, &CycleError{From: src, To: dst}
	}

	e := Edge{From: src, FromSlot: srcSlot, To: dst, ToSlot: dstSlot}
	g.edges = append(g.edges, e)
	g.markDirtyFrom(dst)
	return e, nil
}

// Disconnect removes an existing edge and marks the destination subtree
// dirty. Removing an edge that is not in the graph is an error.
func (g *Graph) Disconnect(e Edge) error {
	for i, have := range g.edges {
		if have == e {
			g.edges = append(g.edges[:i], g.edges[i+1:]...)
			g.markDirtyFrom(e.To)
			return nil
		}
	}
	return fmt.Errorf("graph: edge %d/%d -> %d/%d not found", e.From, e.FromSlot, e.To, e.ToSlot)
}

// SetParameter sets a node parameter and marks the node plus its transitive
// downstream closure dirty. It never evaluates anything; evaluation is a
// separate explicit step.
func (g *Graph) SetParameter(id NodeID, key string, v Value) error {
	n, ok := g.nodes[id]
	if !ok {
		return &NotFoundError{ID: id}
	}
	n.params[key] = v
	g.markDirtyFrom(id)
	return nil
}

// CachedTexture returns a node's cached output texture without forcing
// re-evaluation, or nil if the node has never been evaluated.
func (g *Graph) CachedTexture(id NodeID) *compose.Texture {
	n, ok := g.nodes[id]
	if !ok {
		return nil
	}
	return n.cache
}

// markDirtyFrom marks id and every node downstream of it dirty.
func (g *Graph) markDirtyFrom(id NodeID) {
	seen := map[NodeID]bool{}
	queue := []NodeID{id}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if seen[cur] {
			continue
		}
		seen[cur] = true
		if n, ok := g.nodes[cur]; ok {
			n.dirty = true
		}
		for _, e := range g.edges {
			if e.From == cur {
				queue = append(queue, e.To)
			}
		}
	}
}

// reachable reports whether to can be reached from from by following edges
// forward.
func (g *Graph) reachable(from, to NodeID) bool {
	seen := map[NodeID]bool{}
	queue := []NodeID{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == to {
			return true
		}
		if seen[cur] {
			continue
		}
		seen[cur] = true
		for _, e := range g.edges {
			if e.From == cur {
				queue = append(queue, e.To)
			}
		}
	}
	return false
}
