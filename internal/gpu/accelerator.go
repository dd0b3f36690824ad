//go:build !nogpu

// Package gpu implements the wgpu/hal compute backend for the compose
// kernels. Every dispatch uploads its inputs into storage buffers, runs one
// compute pass over the target texels, and reads the packed result back
// into the destination texture.
package gpu

import (
	"fmt"
	"log/slog"
	"sync"
	"time"
	"unsafe"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/compose"
	"github.com/gogpu/compose/kernel"

	// Import Vulkan backend so it registers via init().
	_ "github.com/gogpu/wgpu/hal/vulkan"
)

// dispatchTimeout bounds how long a dispatch waits for the GPU.
const dispatchTimeout = 5 * time.Second

// pollInterval is the sleep between completion checks while waiting for a
// submission.
const pollInterval = 100 * time.Microsecond

// pipeline bundles the HAL objects of one compute pipeline.
type pipeline struct {
	shader     hal.ShaderModule
	bindLayout hal.BindGroupLayout
	pipeLayout hal.PipelineLayout
	compute    hal.ComputePipeline
}

// ComputeAccelerator executes the compose kernels on a GPU through
// wgpu/hal compute shaders. It implements compose.KernelAccelerator.
//
// If GPU initialization fails the accelerator stays registered but reports
// nothing as accelerable, so every dispatch runs on the CPU path.
type ComputeAccelerator struct {
	mu sync.Mutex

	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	shapePipe     pipeline
	compositePipe pipeline
	boxPipe       pipeline
	portPipe      pipeline

	gpuReady       bool
	externalDevice bool // true when using shared device (don't destroy on Close)
}

var _ compose.KernelAccelerator = (*ComputeAccelerator)(nil)

func (a *ComputeAccelerator) Name() string { return "wgpu-compute" }

func (a *ComputeAccelerator) CanAccelerate(op compose.AcceleratedOp) bool {
	a.mu.Lock()
	ready := a.gpuReady
	a.mu.Unlock()
	if !ready {
		return false
	}
	return op&(compose.AccelShapeFill|compose.AccelComposite|
		compose.AccelChromeBox|compose.AccelChromePort) != 0
}

func (a *ComputeAccelerator) Init() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if err := a.initGPU(); err != nil {
		slogger().Warn("gpu init failed, using cpu kernels", "error", err)
	}
	return nil
}

func (a *ComputeAccelerator) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.destroyPipelines()
	if !a.externalDevice {
		if a.device != nil {
			a.device.Destroy()
			a.device = nil
		}
		if a.instance != nil {
			a.instance.Destroy()
			a.instance = nil
		}
	} else {
		// Don't destroy shared resources — we don't own them.
		a.device = nil
		a.instance = nil
	}
	a.queue = nil
	a.gpuReady = false
	a.externalDevice = false
}

// SetLogger wires compose.SetLogger propagation into this package.
func (a *ComputeAccelerator) SetLogger(l *slog.Logger) { setLogger(l) }

// SetDeviceProvider switches the accelerator to a shared GPU device from an
// external provider (e.g., gogpu). The provider must implement
// HalDevice() any and HalQueue() any returning hal.Device and hal.Queue.
func (a *ComputeAccelerator) SetDeviceProvider(provider any) error {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return fmt.Errorf("gpu: provider does not expose HAL types")
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return fmt.Errorf("gpu: provider HalDevice is not hal.Device")
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return fmt.Errorf("gpu: provider HalQueue is not hal.Queue")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	// Destroy own resources if we created them.
	a.destroyPipelines()
	if !a.externalDevice && a.device != nil {
		a.device.Destroy()
	}
	if a.instance != nil {
		a.instance.Destroy()
		a.instance = nil
	}

	a.device = device
	a.queue = queue
	a.externalDevice = true

	if err := a.createPipelines(); err != nil {
		a.gpuReady = false
		return fmt.Errorf("gpu: create pipelines with shared device: %w", err)
	}
	a.gpuReady = true
	slogger().Info("switched to shared gpu device")
	return nil
}

// FillShape rasterizes the shape into dst on the GPU.
func (a *ComputeAccelerator) FillShape(dst *compose.Texture, shape compose.ShapeDescriptor) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.gpuReady {
		return compose.ErrFallbackToCPU
	}
	if shape.Validate() != nil {
		// The CPU rasterizer owns unknown-kind handling (warn + no fill).
		return compose.ErrFallbackToCPU
	}

	w, h := uint32(dst.Width()), uint32(dst.Height()) //nolint:gosec // dimensions always fit uint32
	pixelBufSize := uint64(w * h * 4)

	params := kernel.PackShape(shape)
	shapeBytes := structToBytes(unsafe.Pointer(&params), unsafe.Sizeof(params)) //nolint:gosec // safe struct access

	frameBuf, err := a.newBuffer("shape_frame", makeFrameParams(w, h),
		gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	defer a.device.DestroyBuffer(frameBuf)

	shapeBuf, err := a.newBuffer("shape_data", shapeBytes,
		gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	defer a.device.DestroyBuffer(shapeBuf)

	storageBuf, stagingBuf, err := a.newTargetBuffers("shape", pixelBufSize, nil)
	if err != nil {
		return err
	}
	defer a.device.DestroyBuffer(storageBuf)
	defer a.device.DestroyBuffer(stagingBuf)

	entries := []gputypes.BindGroupEntry{
		{Binding: 0, Resource: gputypes.BufferBinding{Buffer: frameBuf.NativeHandle(), Offset: 0, Size: uint64(len(makeFrameParams(w, h)))}},
		{Binding: 1, Resource: gputypes.BufferBinding{Buffer: shapeBuf.NativeHandle(), Offset: 0, Size: uint64(len(shapeBytes))}},
		{Binding: 2, Resource: gputypes.BufferBinding{Buffer: storageBuf.NativeHandle(), Offset: 0, Size: pixelBufSize}},
	}
	return a.runPass(&a.shapePipe, "shape", entries, storageBuf, stagingBuf, w, h, pixelBufSize, dst.Data())
}

// Composite blends above over below into dst on the GPU.
func (a *ComputeAccelerator) Composite(dst, below, above *compose.Texture) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.gpuReady {
		return compose.ErrFallbackToCPU
	}
	if below.Width() != dst.Width() || below.Height() != dst.Height() ||
		above.Width() != dst.Width() || above.Height() != dst.Height() {
		// Mismatched inputs need the CPU path's transparent out-of-bounds reads.
		return compose.ErrFallbackToCPU
	}

	w, h := uint32(dst.Width()), uint32(dst.Height()) //nolint:gosec // dimensions always fit uint32
	pixelCount := int(w * h)
	pixelBufSize := uint64(w * h * 4)

	frameBuf, err := a.newBuffer("composite_frame", makeFrameParams(w, h),
		gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	defer a.device.DestroyBuffer(frameBuf)

	belowBuf, err := a.newBuffer("composite_below", packPixelsForGPU(below.Data(), pixelCount),
		gputypes.BufferUsageStorage|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	defer a.device.DestroyBuffer(belowBuf)

	aboveBuf, err := a.newBuffer("composite_above", packPixelsForGPU(above.Data(), pixelCount),
		gputypes.BufferUsageStorage|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	defer a.device.DestroyBuffer(aboveBuf)

	storageBuf, stagingBuf, err := a.newTargetBuffers("composite", pixelBufSize, nil)
	if err != nil {
		return err
	}
	defer a.device.DestroyBuffer(storageBuf)
	defer a.device.DestroyBuffer(stagingBuf)

	entries := []gputypes.BindGroupEntry{
		{Binding: 0, Resource: gputypes.BufferBinding{Buffer: frameBuf.NativeHandle(), Offset: 0, Size: uint64(len(makeFrameParams(w, h)))}},
		{Binding: 1, Resource: gputypes.BufferBinding{Buffer: belowBuf.NativeHandle(), Offset: 0, Size: pixelBufSize}},
		{Binding: 2, Resource: gputypes.BufferBinding{Buffer: aboveBuf.NativeHandle(), Offset: 0, Size: pixelBufSize}},
		{Binding: 3, Resource: gputypes.BufferBinding{Buffer: storageBuf.NativeHandle(), Offset: 0, Size: pixelBufSize}},
	}
	return a.runPass(&a.compositePipe, "composite", entries, storageBuf, stagingBuf, w, h, pixelBufSize, dst.Data())
}

// DrawBox renders node chrome into dst on the GPU.
func (a *ComputeAccelerator) DrawBox(dst *compose.Texture, u compose.BoxUniform, content *compose.Texture) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.gpuReady {
		return compose.ErrFallbackToCPU
	}

	w, h := uint32(dst.Width()), uint32(dst.Height()) //nolint:gosec // dimensions always fit uint32
	pixelCount := int(w * h)
	pixelBufSize := uint64(w * h * 4)

	contentW, contentH := 0, 0
	contentBytes := make([]byte, 4) // placeholder so the binding is never empty
	if content != nil && content.Width() > 0 && content.Height() > 0 {
		contentW, contentH = content.Width(), content.Height()
		contentBytes = packPixelsForGPU(content.Data(), contentW*contentH)
	}

	frameBuf, err := a.newBuffer("box_frame", makeFrameParams(w, h),
		gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	defer a.device.DestroyBuffer(frameBuf)

	boxBytes := makeBoxParams(u, contentW, contentH)
	boxBuf, err := a.newBuffer("box_params", boxBytes,
		gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	defer a.device.DestroyBuffer(boxBuf)

	contentBuf, err := a.newBuffer("box_content", contentBytes,
		gputypes.BufferUsageStorage|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	defer a.device.DestroyBuffer(contentBuf)

	// The box covers only part of the target, so upload the existing pixels.
	storageBuf, stagingBuf, err := a.newTargetBuffers("box", pixelBufSize, packPixelsForGPU(dst.Data(), pixelCount))
	if err != nil {
		return err
	}
	defer a.device.DestroyBuffer(storageBuf)
	defer a.device.DestroyBuffer(stagingBuf)

	entries := []gputypes.BindGroupEntry{
		{Binding: 0, Resource: gputypes.BufferBinding{Buffer: frameBuf.NativeHandle(), Offset: 0, Size: uint64(len(makeFrameParams(w, h)))}},
		{Binding: 1, Resource: gputypes.BufferBinding{Buffer: boxBuf.NativeHandle(), Offset: 0, Size: uint64(len(boxBytes))}},
		{Binding: 2, Resource: gputypes.BufferBinding{Buffer: contentBuf.NativeHandle(), Offset: 0, Size: uint64(len(contentBytes))}},
		{Binding: 3, Resource: gputypes.BufferBinding{Buffer: storageBuf.NativeHandle(), Offset: 0, Size: pixelBufSize}},
	}
	return a.runPass(&a.boxPipe, "box", entries, storageBuf, stagingBuf, w, h, pixelBufSize, dst.Data())
}

// DrawPort renders a connection port circle into dst on the GPU.
func (a *ComputeAccelerator) DrawPort(dst *compose.Texture, u compose.PortUniform) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.gpuReady {
		return compose.ErrFallbackToCPU
	}

	w, h := uint32(dst.Width()), uint32(dst.Height()) //nolint:gosec // dimensions always fit uint32
	pixelCount := int(w * h)
	pixelBufSize := uint64(w * h * 4)

	frameBuf, err := a.newBuffer("port_frame", makeFrameParams(w, h),
		gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	defer a.device.DestroyBuffer(frameBuf)

	portBytes := makePortParams(u)
	portBuf, err := a.newBuffer("port_params", portBytes,
		gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst)
	if err != nil {
		return err
	}
	defer a.device.DestroyBuffer(portBuf)

	storageBuf, stagingBuf, err := a.newTargetBuffers("port", pixelBufSize, packPixelsForGPU(dst.Data(), pixelCount))
	if err != nil {
		return err
	}
	defer a.device.DestroyBuffer(storageBuf)
	defer a.device.DestroyBuffer(stagingBuf)

	entries := []gputypes.BindGroupEntry{
		{Binding: 0, Resource: gputypes.BufferBinding{Buffer: frameBuf.NativeHandle(), Offset: 0, Size: uint64(len(makeFrameParams(w, h)))}},
		{Binding: 1, Resource: gputypes.BufferBinding{Buffer: portBuf.NativeHandle(), Offset: 0, Size: uint64(len(portBytes))}},
		{Binding: 2, Resource: gputypes.BufferBinding{Buffer: storageBuf.NativeHandle(), Offset: 0, Size: pixelBufSize}},
	}
	return a.runPass(&a.portPipe, "port", entries, storageBuf, stagingBuf, w, h, pixelBufSize, dst.Data())
}

// newBuffer creates a buffer and uploads data into it.
func (a *ComputeAccelerator) newBuffer(label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label, Size: uint64(len(data)), Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s buffer: %w", label, err)
	}
	if err := a.queue.WriteBuffer(buf, 0, data); err != nil {
		a.device.DestroyBuffer(buf)
		return nil, fmt.Errorf("write %s buffer: %w", label, err)
	}
	return buf, nil
}

// newTargetBuffers creates the output storage buffer plus its readback
// staging buffer. initial, when non-nil, seeds the storage buffer so
// kernels that only partially cover the target preserve untouched texels.
func (a *ComputeAccelerator) newTargetBuffers(label string, size uint64, initial []byte) (storage, staging hal.Buffer, err error) {
	storage, err = a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label + "_pixels", Size: size,
		Usage: gputypes.BufferUsageStorage | gputypes.BufferUsageCopySrc | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("create %s storage buffer: %w", label, err)
	}
	staging, err = a.device.CreateBuffer(&hal.BufferDescriptor{
		Label: label + "_staging", Size: size,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		a.device.DestroyBuffer(storage)
		return nil, nil, fmt.Errorf("create %s staging buffer: %w", label, err)
	}
	if initial != nil {
		if err := a.queue.WriteBuffer(storage, 0, initial); err != nil {
			a.device.DestroyBuffer(storage)
			a.device.DestroyBuffer(staging)
			return nil, nil, fmt.Errorf("seed %s storage buffer: %w", label, err)
		}
	}
	return storage, staging, nil
}

// runPass encodes one compute pass over the full target, waits for the
// submission to complete, and unpacks the mapped staging buffer into dst.
func (a *ComputeAccelerator) runPass(
	p *pipeline, label string, entries []gputypes.BindGroupEntry,
	storageBuf, stagingBuf hal.Buffer, w, h uint32, pixelBufSize uint64, dst []uint8,
) error {
	bg, err := a.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label: label + "_bind", Layout: p.bindLayout, Entries: entries,
	})
	if err != nil {
		return fmt.Errorf("create %s bind group: %w", label, err)
	}
	defer a.device.DestroyBindGroup(bg)

	encoder, err := a.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{Label: label + "_encoder"})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding(label); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	computePass := encoder.BeginComputePass(&hal.ComputePassDescriptor{Label: label + "_pass"})
	computePass.SetPipeline(p.compute)
	computePass.SetBindGroup(0, bg, nil)
	computePass.Dispatch((w+7)/8, (h+7)/8, 1)
	computePass.End()

	encoder.CopyBufferToBuffer(storageBuf, stagingBuf, []hal.BufferCopy{
		{SrcOffset: 0, DstOffset: 0, Size: pixelBufSize},
	})
	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer a.device.FreeCommandBuffer(cmdBuf)

	subIdx, err := a.queue.Submit([]hal.CommandBuffer{cmdBuf})
	if err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	if err := waitSubmission(a.queue, subIdx, dispatchTimeout); err != nil {
		return err
	}

	mapping, err := a.device.MapBuffer(stagingBuf, 0, pixelBufSize)
	if err != nil {
		return fmt.Errorf("map staging buffer: %w", err)
	}
	readback := unsafe.Slice((*byte)(mapping.Ptr), pixelBufSize)
	unpackPixelsFromGPU(readback, dst, int(w*h))
	if err := a.device.UnmapBuffer(stagingBuf); err != nil {
		return fmt.Errorf("unmap staging buffer: %w", err)
	}
	return nil
}

// waitSubmission polls the queue until the given submission index has
// completed or the timeout elapses.
func waitSubmission(q hal.Queue, index uint64, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for q.PollCompleted() < index {
		if time.Now().After(deadline) {
			return fmt.Errorf("gpu dispatch timed out after %v", timeout)
		}
		time.Sleep(pollInterval)
	}
	return nil
}

func (a *ComputeAccelerator) initGPU() error {
	backend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return fmt.Errorf("vulkan backend not available")
	}
	instance, err := backend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return fmt.Errorf("create instance: %w", err)
	}
	a.instance = instance
	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		return fmt.Errorf("no GPU adapters found")
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}
	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		return fmt.Errorf("open device: %w", err)
	}
	a.device = openDev.Device
	a.queue = openDev.Queue
	if err := a.createPipelines(); err != nil {
		a.device.Destroy()
		a.device = nil
		a.queue = nil
		return fmt.Errorf("create pipelines: %w", err)
	}
	a.gpuReady = true
	slogger().Info("gpu accelerator initialized", "adapter", selected.Info.Name)
	return nil
}

func (a *ComputeAccelerator) createPipelines() error {
	specs := []struct {
		label   string
		source  string
		pipe    *pipeline
		layouts []gputypes.BindGroupLayoutEntry
	}{
		{
			label: "shape", source: shapeShaderSource, pipe: &a.shapePipe,
			layouts: []gputypes.BindGroupLayoutEntry{
				uniformBinding(0), uniformBinding(1), storageBinding(2, false),
			},
		},
		{
			label: "composite", source: compositeShaderSource, pipe: &a.compositePipe,
			layouts: []gputypes.BindGroupLayoutEntry{
				uniformBinding(0), storageBinding(1, true), storageBinding(2, true), storageBinding(3, false),
			},
		},
		{
			label: "node_chrome", source: nodeChromeShaderSource, pipe: &a.boxPipe,
			layouts: []gputypes.BindGroupLayoutEntry{
				uniformBinding(0), uniformBinding(1), storageBinding(2, true), storageBinding(3, false),
			},
		},
		{
			label: "port", source: portShaderSource, pipe: &a.portPipe,
			layouts: []gputypes.BindGroupLayoutEntry{
				uniformBinding(0), uniformBinding(1), storageBinding(2, false),
			},
		},
	}

	for _, spec := range specs {
		if err := a.createPipeline(spec.pipe, spec.label, spec.source, spec.layouts); err != nil {
			a.destroyPipelines()
			return err
		}
	}
	return nil
}

func uniformBinding(binding uint32) gputypes.BindGroupLayoutEntry {
	return gputypes.BindGroupLayoutEntry{
		Binding: binding, Visibility: gputypes.ShaderStageCompute,
		Buffer: &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
	}
}

func storageBinding(binding uint32, readOnly bool) gputypes.BindGroupLayoutEntry {
	t := gputypes.BufferBindingTypeStorage
	if readOnly {
		t = gputypes.BufferBindingTypeReadOnlyStorage
	}
	return gputypes.BindGroupLayoutEntry{
		Binding: binding, Visibility: gputypes.ShaderStageCompute,
		Buffer: &gputypes.BufferBindingLayout{Type: t},
	}
}

func (a *ComputeAccelerator) createPipeline(p *pipeline, label, source string, entries []gputypes.BindGroupLayoutEntry) error {
	shader, err := createShaderModule(a.device, label, source)
	if err != nil {
		return fmt.Errorf("compile %s shader: %w", label, err)
	}
	p.shader = shader

	bindLayout, err := a.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: label + "_bind_layout", Entries: entries,
	})
	if err != nil {
		return fmt.Errorf("create %s bind group layout: %w", label, err)
	}
	p.bindLayout = bindLayout

	pipeLayout, err := a.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label: label + "_pipe_layout", BindGroupLayouts: []hal.BindGroupLayout{bindLayout},
	})
	if err != nil {
		return fmt.Errorf("create %s pipeline layout: %w", label, err)
	}
	p.pipeLayout = pipeLayout

	compute, err := a.device.CreateComputePipeline(&hal.ComputePipelineDescriptor{
		Label: label + "_pipeline", Layout: pipeLayout,
		Compute: hal.ComputeState{Module: shader, EntryPoint: "main"},
	})
	if err != nil {
		return fmt.Errorf("create %s compute pipeline: %w", label, err)
	}
	p.compute = compute
	return nil
}

func (a *ComputeAccelerator) destroyPipelines() {
	if a.device == nil {
		return
	}
	for _, p := range []*pipeline{&a.shapePipe, &a.compositePipe, &a.boxPipe, &a.portPipe} {
		if p.compute != nil {
			a.device.DestroyComputePipeline(p.compute)
			p.compute = nil
		}
		if p.pipeLayout != nil {
			a.device.DestroyPipelineLayout(p.pipeLayout)
			p.pipeLayout = nil
		}
		if p.bindLayout != nil {
			a.device.DestroyBindGroupLayout(p.bindLayout)
			p.bindLayout = nil
		}
		if p.shader != nil {
			a.device.DestroyShaderModule(p.shader)
			p.shader = nil
		}
	}
}
