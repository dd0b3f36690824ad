//go:build !nogpu

package gpu

import (
	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
)

// DeviceHandle provides GPU device access from a host application.
//
// Host frameworks (e.g., gogpu.App) implement DeviceHandle and pass it to
// SetDeviceProvider, letting the compositor share the host's GPU device
// instead of creating its own.
//
// DeviceHandle is an alias for gpucontext.DeviceProvider, providing a
// compositor-specific name for the interface while staying fully
// compatible with the gpucontext ecosystem.
type DeviceHandle = gpucontext.DeviceProvider

// nullDeviceHandle is a DeviceHandle with no device, used when the host
// has no GPU context to share.
type nullDeviceHandle struct{}

func (nullDeviceHandle) Device() gpucontext.Device   { return nil }
func (nullDeviceHandle) Queue() gpucontext.Queue     { return nil }
func (nullDeviceHandle) Adapter() gpucontext.Adapter { return nil }

func (nullDeviceHandle) SurfaceFormat() gputypes.TextureFormat {
	return gputypes.TextureFormatUndefined
}

func (nullDeviceHandle) AdapterInfo() gpucontext.AdapterInfo {
	return gpucontext.AdapterInfo{Type: gpucontext.AdapterTypeUnknown}
}

var _ DeviceHandle = nullDeviceHandle{}

// NullDeviceHandle returns a DeviceHandle that provides no device.
func NullDeviceHandle() DeviceHandle { return nullDeviceHandle{} }
