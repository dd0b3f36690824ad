package compose

// ShapeKind identifies the analytic shape a ShapeDescriptor describes.
// The numeric values are part of the GPU uniform layout and must not change.
type ShapeKind uint32

const (
	// ShapeCircle uses Params[0] as the radius.
	ShapeCircle ShapeKind = iota

	// ShapeRectangle uses Params[0] as width and Params[1] as height.
	ShapeRectangle

	// ShapeTriangle uses Params[0] as height and Params[1] as base width.
	// The triangle is isoceles, apex up, centered in the target.
	ShapeTriangle
)

// String returns the shape kind name.
func (k ShapeKind) String() string {
	switch k {
	case ShapeCircle:
		return "circle"
	case ShapeRectangle:
		return "rectangle"
	case ShapeTriangle:
		return "triangle"
	default:
		return "unknown"
	}
}

// ShapeDescriptor is the parameter payload of a shape-generator node.
//
// Params are always pixel values relative to the target texture dimensions,
// never raw UV fractions; kernels normalize them per axis before the
// geometric test, so rasterization is resolution-independent.
type ShapeDescriptor struct {
	Kind   ShapeKind
	Params [3]float32
	Fill   RGBA
}

// Circle describes a filled circle of the given radius in pixels,
// centered in the target texture.
func Circle(radius float64, fill RGBA) ShapeDescriptor {
	return ShapeDescriptor{Kind: ShapeCircle, Params: [3]float32{float32(radius)}, Fill: fill}
}

// Rectangle describes a filled axis-aligned rectangle of the given pixel
// dimensions, centered in the target texture.
func Rectangle(width, height float64, fill RGBA) ShapeDescriptor {
	return ShapeDescriptor{Kind: ShapeRectangle, Params: [3]float32{float32(width), float32(height)}, Fill: fill}
}

// Triangle describes a filled isoceles triangle with the given height and
// base width in pixels, apex up, centered in the target texture.
func Triangle(height, base float64, fill RGBA) ShapeDescriptor {
	return ShapeDescriptor{Kind: ShapeTriangle, Params: [3]float32{float32(height), float32(base)}, Fill: fill}
}

// Validate reports whether the descriptor carries a known shape kind.
// Kernels do not reject unknown kinds at dispatch time; they rasterize
// nothing instead. Validate exists for callers that want to surface the
// problem at mutation time.
func (d ShapeDescriptor) Validate() error {
	switch d.Kind {
	case ShapeCircle, ShapeRectangle, ShapeTriangle:
		return nil
	default:
		return &UnsupportedShapeError{Kind: d.Kind}
	}
}
