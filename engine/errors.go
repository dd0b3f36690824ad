package engine

import (
	"fmt"

	"github.com/gogpu/compose/graph"
)

// MissingInputError reports a node scheduled for evaluation whose required
// input slot has no incoming edge, or whose upstream node produced no
// texture. Evaluation of the affected subtree aborts; caches computed
// earlier in the pass are kept.
type MissingInputError struct {
	Node graph.NodeID
	Slot int
}

func (e *MissingInputError) Error() string {
	return fmt.Sprintf("engine: node %d input slot %d has no value", e.Node, e.Slot)
}
