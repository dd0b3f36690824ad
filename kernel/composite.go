package kernel

import (
	"context"
	"errors"
	"fmt"

	"github.com/gogpu/compose"
	"github.com/gogpu/compose/graph"
)

// CompositeKernel blends its second input over its first using standard
// "over" alpha compositing. Slot 0 is the backdrop (below), slot 1 the
// layer composited on top (above).
type CompositeKernel struct{}

// Dispatch implements Kernel.
func (CompositeKernel) Dispatch(_ context.Context, n *graph.Node, inputs []*compose.Texture, out *compose.Texture) error {
	if len(inputs) != 2 || inputs[0] == nil || inputs[1] == nil {
		return fmt.Errorf("kernel: blend node %d needs two inputs", n.ID())
	}
	below, above := inputs[0], inputs[1]

	if a := compose.Accelerator(); a != nil && a.CanAccelerate(compose.AccelComposite) {
		err := a.Composite(out, below, above)
		if err == nil {
			return nil
		}
		if !errors.Is(err, compose.ErrFallbackToCPU) {
			compose.Logger().Warn("gpu composite dispatch failed, falling back to cpu",
				"accelerator", a.Name(), "error", err)
		}
	}

	CompositeCPU(out, below, above)
	return nil
}

// CompositeCPU writes above-over-below into out texel by texel. Inputs
// smaller than out read as transparent outside their bounds; texels of out
// beyond an input's extent therefore take the other input's contribution.
func CompositeCPU(out, below, above *compose.Texture) {
	w, h := out.Width(), out.Height()
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			b := below.PixelAt(x, y)
			a := above.PixelAt(x, y)
			out.SetPixel(x, y, a.Over(b))
		}
	}
}
