// Package graph implements the node-graph model of the compositor: typed
// nodes, directed edges between output and input slots, dirty tracking, and
// the dependency ordering the evaluation engine consumes.
//
// The graph is the single source of truth for structure and parameters.
// Nodes and edges are created and destroyed by user edits; the evaluation
// engine only touches the per-node dirty flag and cached output texture.
//
// A Graph is not safe for concurrent use. Mutations come from a single
// editor thread; evaluation takes the graph while no mutation is in flight.
package graph

import (
	"github.com/gogpu/compose"
)

// NodeID uniquely identifies a node within its graph. IDs are allocated in
// ascending order and never reused, which makes them the deterministic
// tie-break for scheduling.
type NodeID uint64

// Kind discriminates node types.
type Kind int

const (
	// KindColorSource emits a solid color texture. No inputs.
	KindColorSource Kind = iota

	// KindShape rasterizes a ShapeDescriptor. No inputs.
	KindShape

	// KindBlend composites input 1 (above) over input 0 (below).
	KindBlend

	// KindOutput designates an evaluation sink. One input, copied into the
	// node's own cache so the result never aliases an upstream texture.
	KindOutput
)

// InputSlots returns the number of input slots a node of this kind carries.
// Every slot is required at evaluation time.
func (k Kind) InputSlots() int {
	switch k {
	case KindBlend:
		return 2
	case KindOutput:
		return 1
	default:
		return 0
	}
}

// String returns the kind name used in encoded graphs.
func (k Kind) String() string {
	switch k {
	case KindColorSource:
		return "color"
	case KindShape:
		return "shape"
	case KindBlend:
		return "blend"
	case KindOutput:
		return "output"
	default:
		return "unknown"
	}
}

// kindFromString is the inverse of Kind.String for decoding.
func kindFromString(s string) (Kind, bool) {
	switch s {
	case "color":
		return KindColorSource, true
	case "shape":
		return KindShape, true
	case "blend":
		return KindBlend, true
	case "output":
		return KindOutput, true
	default:
		return 0, false
	}
}

// Node is a unit of the compositing graph producing one output texture from
// zero or more input textures and parameters.
//
// Layout is presentation metadata consumed by the chrome renderer; it never
// influences evaluation.
type Node struct {
	id     NodeID
	kind   Kind
	params Params
	dirty  bool
	cache  *compose.Texture

	Layout compose.Rect
}

// ID returns the node identifier.
func (n *Node) ID() NodeID { return n.id }

// Kind returns the node kind.
func (n *Node) Kind() Kind { return n.kind }

// Param returns the named parameter value.
func (n *Node) Param(key string) (Value, bool) {
	v, ok := n.params[key]
	return v, ok
}

// Params returns a copy of the node's parameter map.
func (n *Node) Params() Params {
	out := make(Params, len(n.params))
	for k, v := range n.params {
		out[k] = v
	}
	return out
}

// Dirty reports whether the node's cached output is stale relative to its
// current parameters and inputs.
func (n *Node) Dirty() bool { return n.dirty }

// Cache returns the node's cached output texture, or nil if the node has
// never been successfully evaluated.
func (n *Node) Cache() *compose.Texture { return n.cache }

// SetCache stores a freshly evaluated output texture. Called by the
// evaluation engine only; the previous cache must be released by the caller.
func (n *Node) SetCache(t *compose.Texture) { n.cache = t }

// MarkClean clears the dirty flag after a successful evaluation.
func (n *Node) MarkClean() { n.dirty = false }
