package compose

import (
	"errors"
	"fmt"
)

// ErrFallbackToCPU indicates the registered accelerator cannot handle this
// dispatch. The caller should transparently fall back to the CPU kernel.
var ErrFallbackToCPU = errors.New("compose: falling back to CPU kernel")

// ErrResourceExhausted indicates the texture pool cannot satisfy an Acquire,
// either because the live-texture bound was hit or the underlying allocation
// failed. Evaluation aborts the affected subtree when it surfaces.
var ErrResourceExhausted = errors.New("compose: texture allocation failed")

// UnsupportedShapeError reports an unknown shape discriminant. Kernels never
// crash on one: the shape rasterizes to "no fill" and the error is available
// for callers validating descriptors up front.
type UnsupportedShapeError struct {
	Kind ShapeKind
}

func (e *UnsupportedShapeError) Error() string {
	return fmt.Sprintf("compose: unsupported shape kind %d", uint32(e.Kind))
}
