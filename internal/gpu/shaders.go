//go:build !nogpu

package gpu

import (
	_ "embed"
	"encoding/binary"
	"unsafe"

	"github.com/gogpu/compose"
)

// Embedded WGSL shader sources, compiled at accelerator init.

//go:embed shaders/shape.wgsl
var shapeShaderSource string

//go:embed shaders/composite.wgsl
var compositeShaderSource string

//go:embed shaders/node_chrome.wgsl
var nodeChromeShaderSource string

//go:embed shaders/port.wgsl
var portShaderSource string

// frameParams matches the FrameParams struct shared by all shaders.
type frameParams struct {
	TargetWidth  uint32
	TargetHeight uint32
	_            [2]uint32
}

// boxParams matches the BoxParams struct in node_chrome.wgsl.
type boxParams struct {
	Rect        [4]float32 // x, y, w, h
	Metrics     [4]float32 // title_height, border_width, padding, inner_border
	Content     [4]float32 // content_width, content_height, 0, 0
	BorderColor [4]float32
	TitleColor  [4]float32
	Background  [4]float32
}

// portParams matches the PortParams struct in port.wgsl.
type portParams struct {
	Center       [2]float32
	Radius       float32
	Outline      float32
	FillColor    [4]float32
	OutlineColor [4]float32
}

func makeFrameParams(w, h uint32) []byte {
	p := frameParams{TargetWidth: w, TargetHeight: h}
	return structToBytes(unsafe.Pointer(&p), unsafe.Sizeof(p)) //nolint:gosec // safe struct access
}

func makeBoxParams(u compose.BoxUniform, contentW, contentH int) []byte {
	p := boxParams{
		Rect:        [4]float32{u.X, u.Y, u.W, u.H},
		Metrics:     [4]float32{u.TitleHeight, u.BorderWidth, u.Padding, u.InnerBorder},
		Content:     [4]float32{float32(contentW), float32(contentH), 0, 0},
		BorderColor: colorVec(u.BorderColor),
		TitleColor:  colorVec(u.TitleColor),
		Background:  colorVec(u.Background),
	}
	return structToBytes(unsafe.Pointer(&p), unsafe.Sizeof(p)) //nolint:gosec // safe struct access
}

func makePortParams(u compose.PortUniform) []byte {
	p := portParams{
		Center:       [2]float32{u.CenterX, u.CenterY},
		Radius:       u.Radius,
		Outline:      u.Outline,
		FillColor:    colorVec(u.FillColor),
		OutlineColor: colorVec(u.OutlineColor),
	}
	return structToBytes(unsafe.Pointer(&p), unsafe.Sizeof(p)) //nolint:gosec // safe struct access
}

func colorVec(c compose.RGBA) [4]float32 {
	return [4]float32{float32(c.R), float32(c.G), float32(c.B), float32(c.A)}
}

func structToBytes(ptr unsafe.Pointer, size uintptr) []byte {
	return unsafe.Slice((*byte)(ptr), size) //nolint:gosec // safe struct serialization
}

// packPixelsForGPU converts RGBA bytes into the little-endian packed u32
// layout the shaders read and write.
func packPixelsForGPU(data []uint8, pixelCount int) []byte {
	out := make([]byte, pixelCount*4)
	for i := 0; i < pixelCount; i++ {
		srcIdx := i * 4
		r := uint32(data[srcIdx+0])
		g := uint32(data[srcIdx+1])
		b := uint32(data[srcIdx+2])
		a := uint32(data[srcIdx+3])
		packed := r | (g << 8) | (b << 16) | (a << 24)
		binary.LittleEndian.PutUint32(out[i*4:], packed)
	}
	return out
}

func unpackPixelsFromGPU(packed []byte, dst []uint8, pixelCount int) {
	for i := 0; i < pixelCount; i++ {
		val := binary.LittleEndian.Uint32(packed[i*4:])
		dstIdx := i * 4
		dst[dstIdx+0] = uint8(val & 0xFF)         //nolint:gosec // masked to 8 bits
		dst[dstIdx+1] = uint8((val >> 8) & 0xFF)  //nolint:gosec // masked to 8 bits
		dst[dstIdx+2] = uint8((val >> 16) & 0xFF) //nolint:gosec // masked to 8 bits
		dst[dstIdx+3] = uint8((val >> 24) & 0xFF) //nolint:gosec // masked to 8 bits
	}
}
