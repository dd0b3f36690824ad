package kernel

import (
	"context"
	"errors"
	"math"

	"github.com/gogpu/compose"
	"github.com/gogpu/compose/graph"
)

// ShapeKernel rasterizes a shape descriptor into the output texture using a
// signed-distance test per texel. Coverage is binary: a texel whose center
// lies inside the shape gets the fill color, every other texel stays
// transparent.
type ShapeKernel struct{}

// Dispatch implements Kernel.
func (ShapeKernel) Dispatch(_ context.Context, n *graph.Node, _ []*compose.Texture, out *compose.Texture) error {
	var desc compose.ShapeDescriptor
	if v, ok := n.Param("shape"); ok {
		if d, ok := v.Shape(); ok {
			desc = d
		}
	}

	if a := compose.Accelerator(); a != nil && a.CanAccelerate(compose.AccelShapeFill) {
		err := a.FillShape(out, desc)
		if err == nil {
			return nil
		}
		if !errors.Is(err, compose.ErrFallbackToCPU) {
			compose.Logger().Warn("gpu shape dispatch failed, falling back to cpu",
				"accelerator", a.Name(), "error", err)
		}
	}

	FillShapeCPU(out, desc)
	return nil
}

// FillShapeCPU is the reference rasterizer. Shape parameters are pixel
// values; texel centers are normalized to UV space per axis and scaled back
// into pixel units for the geometric test, so results are identical for any
// target the shape fits in. An unknown shape kind rasterizes nothing.
func FillShapeCPU(out *compose.Texture, desc compose.ShapeDescriptor) {
	w, h := out.Width(), out.Height()
	if w <= 0 || h <= 0 {
		return
	}

	var inside func(px, py float64) bool
	switch desc.Kind {
	case compose.ShapeCircle:
		inside = circleTest(float64(w), float64(h), float64(desc.Params[0]))
	case compose.ShapeRectangle:
		inside = rectangleTest(float64(w), float64(h), float64(desc.Params[0]), float64(desc.Params[1]))
	case compose.ShapeTriangle:
		inside = triangleTest(float64(w), float64(h), float64(desc.Params[0]), float64(desc.Params[1]))
	default:
		compose.Logger().Warn("unsupported shape kind, rasterizing nothing",
			"kind", uint32(desc.Kind))
		out.Clear(compose.Transparent)
		return
	}

	for y := 0; y < h; y++ {
		py := float64(y) + 0.5
		for x := 0; x < w; x++ {
			if inside(float64(x)+0.5, py) {
				out.SetPixel(x, y, desc.Fill)
			} else {
				out.SetPixel(x, y, compose.Transparent)
			}
		}
	}
}

// circleTest fills texels whose center is within radius of the target
// center. The distance is Euclidean in pixel units, so the shape stays a
// circle on non-square targets.
func circleTest(w, h, radius float64) func(px, py float64) bool {
	cx, cy := w/2, h/2
	return func(px, py float64) bool {
		dx := px - cx
		dy := py - cy
		return math.Sqrt(dx*dx+dy*dy)-radius <= 0
	}
}

// rectangleTest is the standard axis-aligned box distance: positive part of
// the per-axis excess over the half extents, plus the negative interior term.
func rectangleTest(w, h, width, height float64) func(px, py float64) bool {
	cx, cy := w/2, h/2
	hx, hy := width/2, height/2
	return func(px, py float64) bool {
		qx := math.Abs(px-cx) - hx
		qy := math.Abs(py-cy) - hy
		sd := math.Hypot(math.Max(qx, 0), math.Max(qy, 0)) + math.Min(math.Max(qx, qy), 0)
		return sd <= 0
	}
}

// triangleTest covers an isoceles triangle, apex up, centered in the
// target: apex at (cx, cy-height/2), base corners at (cx∓base/2, cy+height/2).
// Containment is a barycentric sign test; a degenerate triangle (zero area)
// contains no texel centers.
func triangleTest(w, h, height, base float64) func(px, py float64) bool {
	cx, cy := w/2, h/2
	ax, ay := cx, cy-height/2
	bx, by := cx-base/2, cy+height/2
	tx, ty := cx+base/2, cy+height/2

	v0x, v0y := tx-ax, ty-ay
	v1x, v1y := bx-ax, by-ay
	d00 := v0x*v0x + v0y*v0y
	d01 := v0x*v1x + v0y*v1y
	d11 := v1x*v1x + v1y*v1y
	denom := d00*d11 - d01*d01

	return func(px, py float64) bool {
		if denom == 0 {
			return false
		}
		v2x, v2y := px-ax, py-ay
		d20 := v2x*v0x + v2y*v0y
		d21 := v2x*v1x + v2y*v1y
		u := (d11*d20 - d01*d21) / denom
		v := (d00*d21 - d01*d20) / denom
		return u >= 0 && v >= 0 && u+v <= 1
	}
}
