package compose

import (
	"errors"
	"sync"
)

// AcceleratedOp describes kernel types for GPU capability checking.
type AcceleratedOp uint32

const (
	// AccelShapeFill represents shape rasterization dispatches.
	AccelShapeFill AcceleratedOp = 1 << iota

	// AccelComposite represents "over" compositing dispatches.
	AccelComposite

	// AccelChromeBox represents node chrome box rendering.
	AccelChromeBox

	// AccelChromePort represents node chrome port rendering.
	AccelChromePort
)

// BoxUniform carries the node-chrome box parameters across the kernel
// dispatch boundary. The field layout mirrors the WGSL BoxParams struct;
// it must remain binary-stable across kernel versions.
type BoxUniform struct {
	X, Y, W, H  float32 // box rectangle in target pixels
	TitleHeight float32
	BorderWidth float32
	Padding     float32
	InnerBorder float32 // inner content border thickness, conventionally 0.5

	BorderColor RGBA
	TitleColor  RGBA
	Background  RGBA
}

// PortUniform carries the port-circle parameters across the kernel
// dispatch boundary.
type PortUniform struct {
	CenterX, CenterY float32
	Radius           float32
	Outline          float32 // outline band thickness

	FillColor    RGBA
	OutlineColor RGBA
}

// KernelAccelerator is an optional GPU kernel backend.
//
// When registered via RegisterAccelerator, kernels try GPU dispatch first
// for supported operations. If the accelerator returns ErrFallbackToCPU or
// any error, execution transparently falls back to the CPU kernel.
//
// Implementations are provided by GPU backend packages. Users opt in via
// blank import:
//
//	import _ "github.com/gogpu/compose/gpu" // enables GPU kernels
type KernelAccelerator interface {
	// Name returns the accelerator name (e.g., "wgpu-compute").
	Name() string

	// Init initializes GPU resources. Called once during registration.
	Init() error

	// Close releases GPU resources.
	Close()

	// CanAccelerate reports whether the accelerator supports the given
	// operation. This is a fast check used to skip GPU entirely for
	// unsupported operations.
	CanAccelerate(op AcceleratedOp) bool

	// FillShape rasterizes the shape into dst.
	// Returns ErrFallbackToCPU if the shape cannot be GPU-dispatched.
	FillShape(dst *Texture, shape ShapeDescriptor) error

	// Composite blends above over below into dst. All three textures have
	// identical dimensions; dst may alias below but never above.
	// Returns ErrFallbackToCPU if the blend cannot be GPU-dispatched.
	Composite(dst, below, above *Texture) error

	// DrawBox renders node chrome into dst. content holds the node's
	// evaluated texture and may be nil.
	DrawBox(dst *Texture, u BoxUniform, content *Texture) error

	// DrawPort renders a connection port circle into dst.
	DrawPort(dst *Texture, u PortUniform) error
}

var (
	accelMu sync.RWMutex
	accel   KernelAccelerator
)

// RegisterAccelerator registers a GPU kernel backend.
//
// Only one accelerator can be registered. Subsequent calls replace the
// previous one. The accelerator's Init() method is called during
// registration; if it fails, the accelerator is not registered and the
// error is returned.
//
// Typical usage via blank import in GPU backend packages:
//
//	func init() {
//	    compose.RegisterAccelerator(newComputeAccelerator())
//	}
func RegisterAccelerator(a KernelAccelerator) error {
	if a == nil {
		return errors.New("compose: accelerator must not be nil")
	}
	if err := a.Init(); err != nil {
		return err
	}
	propagateLogger(a, Logger())
	accelMu.Lock()
	old := accel
	accel = a
	accelMu.Unlock()
	if old != nil {
		old.Close()
	}
	return nil
}

// Accelerator returns the currently registered kernel accelerator,
// or nil if none.
func Accelerator() KernelAccelerator {
	accelMu.RLock()
	a := accel
	accelMu.RUnlock()
	return a
}
