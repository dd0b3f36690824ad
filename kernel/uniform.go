package kernel

import "github.com/gogpu/compose"

// ShapeParams mirrors the ShapeData uniform struct consumed by the shape
// compute shader. WGSL std140-style alignment makes the vec3 land on a
// 16-byte boundary and the vec4 on the next one, hence the explicit padding.
// The struct is exactly 48 bytes; changing the layout breaks the shader.
type ShapeParams struct {
	ShapeType uint32
	_         [3]float32 // align Params to 16
	Params    [3]float32
	_         float32 // align Color to 16
	Color     [4]float32
}

// PackShape converts a shape descriptor into its GPU uniform form.
func PackShape(d compose.ShapeDescriptor) ShapeParams {
	return ShapeParams{
		ShapeType: uint32(d.Kind),
		Params:    d.Params,
		Color: [4]float32{
			float32(d.Fill.R),
			float32(d.Fill.G),
			float32(d.Fill.B),
			float32(d.Fill.A),
		},
	}
}
