package graph

import (
	"github.com/gogpu/compose"
)

// ValueKind discriminates parameter value types.
type ValueKind uint8

const (
	// ValueFloat is a scalar.
	ValueFloat ValueKind = iota

	// ValueVec2 is a 2D vector.
	ValueVec2

	// ValueVec3 is a 3D vector.
	ValueVec3

	// ValueColor is an RGBA color.
	ValueColor

	// ValueShape is a shape descriptor.
	ValueShape
)

// Value is a typed node parameter. The zero Value is a float 0.
//
// Accessors return (value, false) on a kind mismatch rather than panicking,
// mirroring how kernels must degrade gracefully on malformed parameters.
type Value struct {
	kind  ValueKind
	num   [3]float64
	col   compose.RGBA
	shape compose.ShapeDescriptor
}

// Params maps parameter names to typed values.
type Params map[string]Value

// Float wraps a scalar parameter.
func Float(v float64) Value {
	return Value{kind: ValueFloat, num: [3]float64{v}}
}

// Vec2 wraps a 2D vector parameter.
func Vec2(x, y float64) Value {
	return Value{kind: ValueVec2, num: [3]float64{x, y}}
}

// Vec3 wraps a 3D vector parameter.
func Vec3(x, y, z float64) Value {
	return Value{kind: ValueVec3, num: [3]float64{x, y, z}}
}

// Color wraps an RGBA color parameter.
func Color(c compose.RGBA) Value {
	return Value{kind: ValueColor, col: c}
}

// Shape wraps a shape descriptor parameter.
func Shape(d compose.ShapeDescriptor) Value {
	return Value{kind: ValueShape, shape: d}
}

// Kind returns the value's type discriminant.
func (v Value) Kind() ValueKind { return v.kind }

// Float returns the scalar payload.
func (v Value) Float() (float64, bool) {
	if v.kind != ValueFloat {
		return 0, false
	}
	return v.num[0], true
}

// Vec2 returns the 2D vector payload.
func (v Value) Vec2() ([2]float64, bool) {
	if v.kind != ValueVec2 {
		return [2]float64{}, false
	}
	return [2]float64{v.num[0], v.num[1]}, true
}

// Vec3 returns the 3D vector payload.
func (v Value) Vec3() ([3]float64, bool) {
	if v.kind != ValueVec3 {
		return [3]float64{}, false
	}
	return v.num, true
}

// Color returns the color payload.
func (v Value) Color() (compose.RGBA, bool) {
	if v.kind != ValueColor {
		return compose.RGBA{}, false
	}
	return v.col, true
}

// Shape returns the shape descriptor payload.
func (v Value) Shape() (compose.ShapeDescriptor, bool) {
	if v.kind != ValueShape {
		return compose.ShapeDescriptor{}, false
	}
	return v.shape, true
}
