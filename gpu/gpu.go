//go:build !nogpu

// Package gpu registers the wgpu compute accelerator for
// hardware-accelerated kernel dispatch.
//
// Import this package to run shape rasterization, compositing, and node
// chrome rendering as GPU compute passes. If GPU initialization fails
// (no Vulkan available), registration is kept but every dispatch falls
// back to the CPU kernels.
//
// Usage:
//
//	import _ "github.com/gogpu/compose/gpu" // enable GPU kernels
package gpu

import (
	"github.com/gogpu/compose"
	gpuimpl "github.com/gogpu/compose/internal/gpu"
)

func init() {
	accel := &gpuimpl.ComputeAccelerator{}
	if err := compose.RegisterAccelerator(accel); err != nil {
		compose.Logger().Warn("GPU accelerator not available", "err", err)
	}
}

// SetDeviceProvider configures the accelerator to use a shared GPU device
// from an external provider (e.g., gogpu). This avoids creating a separate
// GPU instance and enables efficient device sharing.
//
// The provider should be a gpucontext.DeviceProvider that also implements
// gpucontext.HalProvider for direct HAL access.
func SetDeviceProvider(provider any) error {
	a := compose.Accelerator()
	if a == nil {
		return nil
	}
	if dpa, ok := a.(interface{ SetDeviceProvider(any) error }); ok {
		return dpa.SetDeviceProvider(provider)
	}
	return nil
}
