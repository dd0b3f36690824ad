// Package kernel implements the per-node-kind compute kernels of the
// compositor: shape rasterization, alpha compositing, and color sourcing.
//
// Each kernel implements one uniform dispatch contract, letting the
// scheduler treat all node kinds identically. CPU implementations live here
// and are the reference semantics; when a GPU accelerator is registered
// (see compose.RegisterAccelerator) kernels dispatch to it first and fall
// back transparently on compose.ErrFallbackToCPU.
package kernel

import (
	"context"
	"fmt"

	"github.com/gogpu/compose"
	"github.com/gogpu/compose/graph"
)

// Kernel executes one node kind's computation.
//
// Dispatch consumes the node's parameters and the gathered input textures
// (read-only, in slot order) and writes every texel of out exactly once.
// Inputs are only valid for the duration of the call; implementations must
// not retain them.
type Kernel interface {
	Dispatch(ctx context.Context, n *graph.Node, inputs []*compose.Texture, out *compose.Texture) error
}

var registry = map[graph.Kind]Kernel{
	graph.KindColorSource: ColorSourceKernel{},
	graph.KindShape:       ShapeKernel{},
	graph.KindBlend:       CompositeKernel{},
	graph.KindOutput:      OutputKernel{},
}

// ForKind returns the kernel implementing the given node kind.
func ForKind(k graph.Kind) (Kernel, bool) {
	kn, ok := registry[k]
	return kn, ok
}

// ColorSourceKernel fills the output with the node's "color" parameter.
// A missing or mistyped parameter yields a fully transparent texture.
type ColorSourceKernel struct{}

// Dispatch implements Kernel.
func (ColorSourceKernel) Dispatch(_ context.Context, n *graph.Node, _ []*compose.Texture, out *compose.Texture) error {
	c := compose.Transparent
	if v, ok := n.Param("color"); ok {
		if col, ok := v.Color(); ok {
			c = col
		}
	}
	out.Clear(c)
	return nil
}

// OutputKernel copies its single input into the output texture, so the
// designated sink owns its result instead of aliasing an upstream cache.
type OutputKernel struct{}

// Dispatch implements Kernel.
func (OutputKernel) Dispatch(_ context.Context, n *graph.Node, inputs []*compose.Texture, out *compose.Texture) error {
	if len(inputs) != 1 || inputs[0] == nil {
		return fmt.Errorf("kernel: output node %d needs one input", n.ID())
	}
	src := inputs[0]
	if src.Width() != out.Width() || src.Height() != out.Height() {
		return fmt.Errorf("kernel: output node %d: input is %dx%d, target is %dx%d",
			n.ID(), src.Width(), src.Height(), out.Width(), out.Height())
	}
	out.CopyFrom(src)
	return nil
}
