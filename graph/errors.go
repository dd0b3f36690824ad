package graph

import "fmt"

// CycleError reports an edge insertion that would close a cycle.
// The edge is rejected and the graph left unchanged.
type CycleError struct {
	From NodeID
	To   NodeID
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("graph: edge %d -> %d would create a cycle", e.From, e.To)
}

// SlotOccupiedError reports a connection attempt to an input slot that
// already has an incoming edge.
type SlotOccupiedError struct {
	Node NodeID
	Slot int
}

func (e *SlotOccupiedError) Error() string {
	return fmt.Sprintf("graph: input slot %d of node %d already has an incoming edge", e.Slot, e.Node)
}

// NotFoundError reports an operation on a node id that is not in the graph.
type NotFoundError struct {
	ID NodeID
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("graph: node %d not found", e.ID)
}
