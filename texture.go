package compose

import (
	"image"
	"image/color"
)

// Texture is a 2D RGBA pixel buffer backing one node output.
//
// Textures are owned by a TexturePool: kernels borrow them for the duration
// of a dispatch (exclusively when writing, read-only when bound as inputs),
// and the evaluation engine hands them back with Release when a node's cache
// is replaced. Holding a reference after Release is a use-after-free bug.
type Texture struct {
	width  int
	height int
	data   []uint8 // RGBA format, 4 bytes per pixel
}

// NewTexture creates a standalone texture with the given dimensions.
// Pool-managed textures should be obtained via TexturePool.Acquire instead.
func NewTexture(width, height int) *Texture {
	return &Texture{
		width:  width,
		height: height,
		data:   make([]uint8, width*height*4),
	}
}

// Width returns the width of the texture in pixels.
func (t *Texture) Width() int {
	return t.width
}

// Height returns the height of the texture in pixels.
func (t *Texture) Height() int {
	return t.height
}

// Data returns the raw pixel data (RGBA format, row-major).
func (t *Texture) Data() []uint8 {
	return t.data
}

// SetPixel sets the color of a single texel. Out-of-bounds writes are
// silently dropped, matching the bounds check every kernel performs.
func (t *Texture) SetPixel(x, y int, c RGBA) {
	if x < 0 || x >= t.width || y < 0 || y >= t.height {
		return
	}
	i := (y*t.width + x) * 4
	t.data[i+0] = uint8(clamp255(c.R * 255))
	t.data[i+1] = uint8(clamp255(c.G * 255))
	t.data[i+2] = uint8(clamp255(c.B * 255))
	t.data[i+3] = uint8(clamp255(c.A * 255))
}

// PixelAt returns the color of a single texel.
// Out-of-bounds reads return Transparent.
func (t *Texture) PixelAt(x, y int) RGBA {
	if x < 0 || x >= t.width || y < 0 || y >= t.height {
		return Transparent
	}
	i := (y*t.width + x) * 4
	return RGBA{
		R: float64(t.data[i+0]) / 255,
		G: float64(t.data[i+1]) / 255,
		B: float64(t.data[i+2]) / 255,
		A: float64(t.data[i+3]) / 255,
	}
}

// Clear fills the entire texture with a color.
func (t *Texture) Clear(c RGBA) {
	r := uint8(clamp255(c.R * 255))
	g := uint8(clamp255(c.G * 255))
	b := uint8(clamp255(c.B * 255))
	a := uint8(clamp255(c.A * 255))

	for i := 0; i < len(t.data); i += 4 {
		t.data[i+0] = r
		t.data[i+1] = g
		t.data[i+2] = b
		t.data[i+3] = a
	}
}

// CopyFrom copies src's pixels into t. Both textures must have identical
// dimensions; mismatched copies are dropped and leave t unchanged.
func (t *Texture) CopyFrom(src *Texture) {
	if src == nil || src.width != t.width || src.height != t.height {
		return
	}
	copy(t.data, src.data)
}

// ToImage converts the texture to an image.RGBA.
func (t *Texture) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, t.width, t.height))
	copy(img.Pix, t.data)
	return img
}

// At implements the image.Image interface.
func (t *Texture) At(x, y int) color.Color {
	return t.PixelAt(x, y).Color()
}

// Bounds implements the image.Image interface.
func (t *Texture) Bounds() image.Rectangle {
	return image.Rect(0, 0, t.width, t.height)
}

// ColorModel implements the image.Image interface.
func (t *Texture) ColorModel() color.Model {
	return color.NRGBAModel
}
