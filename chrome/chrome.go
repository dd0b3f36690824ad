// Package chrome renders the editor-visible parts of a node graph: node
// boxes with title bars, borders and padding, and connection ports. It
// consumes evaluated textures for in-box previews but never influences
// evaluation.
package chrome

import (
	"errors"
	"image"
	"math"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/compose"
)

// BoxStyle holds the presentation parameters of a node box. All lengths are
// in target pixels.
type BoxStyle struct {
	TitleHeight float64
	BorderWidth float64
	Padding     float64

	// InnerBorder is the thickness of the border drawn around the
	// letterboxed preview inside the content area. The conventional value
	// is half a pixel regardless of box size.
	InnerBorder float64

	BorderColor compose.RGBA
	TitleColor  compose.RGBA
	Background  compose.RGBA
}

// DefaultBoxStyle returns the stock node-box look.
func DefaultBoxStyle() BoxStyle {
	return BoxStyle{
		TitleHeight: 24,
		BorderWidth: 2,
		Padding:     6,
		InnerBorder: 0.5,
		BorderColor: compose.RGB(0.16, 0.16, 0.18),
		TitleColor:  compose.RGB(0.28, 0.30, 0.38),
		Background:  compose.RGB(0.22, 0.22, 0.24),
	}
}

func (s BoxStyle) uniform(box compose.Rect) compose.BoxUniform {
	return compose.BoxUniform{
		X: float32(box.X), Y: float32(box.Y),
		W: float32(box.W), H: float32(box.H),
		TitleHeight: float32(s.TitleHeight),
		BorderWidth: float32(s.BorderWidth),
		Padding:     float32(s.Padding),
		InnerBorder: float32(s.InnerBorder),
		BorderColor: s.BorderColor,
		TitleColor:  s.TitleColor,
		Background:  s.Background,
	}
}

// DrawBox renders a node box into dst.
//
// From the outside in: a border band of BorderWidth, a title band of
// TitleHeight closed by a 1-pixel divider in the border color, and a content
// area inset by Padding. The content texture is letterboxed into the content
// area with aspect preserved and surrounded by an InnerBorder-thick border;
// the padding gutter, fully transparent preview texels, and the whole
// content area when content is nil all show the background color. Pixels
// outside the box rectangle are left untouched.
func DrawBox(dst *compose.Texture, box compose.Rect, style BoxStyle, content *compose.Texture) {
	if a := compose.Accelerator(); a != nil && a.CanAccelerate(compose.AccelChromeBox) {
		err := a.DrawBox(dst, style.uniform(box), content)
		if err == nil {
			return
		}
		if !errors.Is(err, compose.ErrFallbackToCPU) {
			compose.Logger().Warn("gpu box dispatch failed, falling back to cpu",
				"accelerator", a.Name(), "error", err)
		}
	}
	drawBoxCPU(dst, box, style, content)
}

func drawBoxCPU(dst *compose.Texture, box compose.Rect, style BoxStyle, content *compose.Texture) {
	bw := style.BorderWidth
	titleTop := box.Y + bw
	titleBottom := titleTop + style.TitleHeight

	contentArea := compose.Rect{
		X: box.X + bw + style.Padding,
		Y: titleBottom + style.Padding,
		W: box.W - 2*(bw+style.Padding),
		H: box.H - bw - style.Padding - (titleBottom - box.Y) - style.Padding,
	}

	preview := letterbox(contentArea.Inset(style.InnerBorder), content)

	x0, y0, x1, y1 := clipToTexture(dst, box)
	for y := y0; y < y1; y++ {
		py := float64(y) + 0.5
		for x := x0; x < x1; x++ {
			px := float64(x) + 0.5

			switch {
			case !box.Inset(bw).Contains(px, py):
				dst.SetPixel(x, y, style.BorderColor)
			case py < titleBottom:
				// Bottom pixel of the title band is the divider.
				if py >= titleBottom-1 {
					dst.SetPixel(x, y, style.BorderColor)
				} else {
					dst.SetPixel(x, y, style.TitleColor)
				}
			case preview.rect.Contains(px, py):
				c := preview.sample(px, py)
				if c.A == 0 {
					c = style.Background
				}
				dst.SetPixel(x, y, c)
			case contentArea.Contains(px, py) && preview.rect.Inset(-style.InnerBorder).Contains(px, py):
				dst.SetPixel(x, y, style.BorderColor)
			default:
				dst.SetPixel(x, y, style.Background)
			}
		}
	}
}

// DrawCompactBox renders the simpler node variant: a title band with the
// content texture stacked directly beneath it, no border and no padding.
// The content stretches to fill the remaining rectangle.
func DrawCompactBox(dst *compose.Texture, box compose.Rect, style BoxStyle, content *compose.Texture) {
	titleBottom := box.Y + style.TitleHeight
	body := compose.Rect{X: box.X, Y: titleBottom, W: box.W, H: box.Y + box.H - titleBottom}

	preview := stretch(body, content)

	x0, y0, x1, y1 := clipToTexture(dst, box)
	for y := y0; y < y1; y++ {
		py := float64(y) + 0.5
		for x := x0; x < x1; x++ {
			px := float64(x) + 0.5
			if py < titleBottom {
				dst.SetPixel(x, y, style.TitleColor)
				continue
			}
			c := preview.sample(px, py)
			if c.A == 0 {
				c = style.Background
			}
			dst.SetPixel(x, y, c)
		}
	}
}

// PortStyle holds the presentation parameters of a connection port.
type PortStyle struct {
	Radius  float64
	Outline float64

	FillColor    compose.RGBA
	OutlineColor compose.RGBA
}

// DefaultPortStyle returns the stock port look.
func DefaultPortStyle() PortStyle {
	return PortStyle{
		Radius:       5,
		Outline:      1.5,
		FillColor:    compose.RGB(0.75, 0.75, 0.78),
		OutlineColor: compose.RGB(0.10, 0.10, 0.12),
	}
}

// DrawPort renders a connection port as a filled circle with an outline
// band. Pixels outside the outer radius are left untouched, so ports can be
// stamped over an already rendered box without a bounding-box halo.
func DrawPort(dst *compose.Texture, cx, cy float64, style PortStyle) {
	if a := compose.Accelerator(); a != nil && a.CanAccelerate(compose.AccelChromePort) {
		u := compose.PortUniform{
			CenterX: float32(cx), CenterY: float32(cy),
			Radius: float32(style.Radius), Outline: float32(style.Outline),
			FillColor: style.FillColor, OutlineColor: style.OutlineColor,
		}
		err := a.DrawPort(dst, u)
		if err == nil {
			return
		}
		if !errors.Is(err, compose.ErrFallbackToCPU) {
			compose.Logger().Warn("gpu port dispatch failed, falling back to cpu",
				"accelerator", a.Name(), "error", err)
		}
	}
	drawPortCPU(dst, cx, cy, style)
}

func drawPortCPU(dst *compose.Texture, cx, cy float64, style PortStyle) {
	r := style.Radius
	bounds := compose.Rect{X: cx - r, Y: cy - r, W: 2 * r, H: 2 * r}
	x0, y0, x1, y1 := clipToTexture(dst, bounds)
	for y := y0; y < y1; y++ {
		dy := float64(y) + 0.5 - cy
		for x := x0; x < x1; x++ {
			dx := float64(x) + 0.5 - cx
			dist := math.Sqrt(dx*dx + dy*dy)
			switch {
			case dist > r:
				// Outside the port entirely.
			case dist > r-style.Outline:
				dst.SetPixel(x, y, style.OutlineColor)
			default:
				dst.SetPixel(x, y, style.FillColor)
			}
		}
	}
}

// clipToTexture intersects a rectangle with the texture bounds and returns
// the covered texel range.
func clipToTexture(dst *compose.Texture, r compose.Rect) (x0, y0, x1, y1 int) {
	x0 = int(math.Floor(r.X))
	y0 = int(math.Floor(r.Y))
	x1 = int(math.Ceil(r.X + r.W))
	y1 = int(math.Ceil(r.Y + r.H))
	if x0 < 0 {
		x0 = 0
	}
	if y0 < 0 {
		y0 = 0
	}
	if x1 > dst.Width() {
		x1 = dst.Width()
	}
	if y1 > dst.Height() {
		y1 = dst.Height()
	}
	return x0, y0, x1, y1
}

// scaledPreview is a content texture rescaled once per DrawBox call, so the
// per-pixel loop only does integer lookups.
type scaledPreview struct {
	rect compose.Rect
	img  *image.RGBA
}

func (p scaledPreview) sample(px, py float64) compose.RGBA {
	if p.img == nil {
		return compose.Transparent
	}
	ix := int(px - p.rect.X)
	iy := int(py - p.rect.Y)
	b := p.img.Bounds()
	if ix < 0 || iy < 0 || ix >= b.Dx() || iy >= b.Dy() {
		return compose.Transparent
	}
	c := p.img.RGBAAt(b.Min.X+ix, b.Min.Y+iy)
	return compose.RGBA{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
		A: float64(c.A) / 255,
	}
}

// letterbox scales content into area preserving aspect ratio, centered.
func letterbox(area compose.Rect, content *compose.Texture) scaledPreview {
	if content == nil || area.Empty() || content.Width() <= 0 || content.Height() <= 0 {
		return scaledPreview{}
	}
	s := math.Min(area.W/float64(content.Width()), area.H/float64(content.Height()))
	w := float64(content.Width()) * s
	h := float64(content.Height()) * s
	rect := compose.Rect{
		X: area.X + (area.W-w)/2,
		Y: area.Y + (area.H-h)/2,
		W: w,
		H: h,
	}
	return scaledPreview{rect: rect, img: rescale(content, rect)}
}

// stretch scales content to fill area exactly, ignoring aspect ratio.
func stretch(area compose.Rect, content *compose.Texture) scaledPreview {
	if content == nil || area.Empty() || content.Width() <= 0 || content.Height() <= 0 {
		return scaledPreview{}
	}
	return scaledPreview{rect: area, img: rescale(content, area)}
}

func rescale(content *compose.Texture, rect compose.Rect) *image.RGBA {
	w := int(math.Ceil(rect.W))
	h := int(math.Ceil(rect.H))
	if w <= 0 || h <= 0 {
		return nil
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.ApproxBiLinear.Scale(img, img.Bounds(), content, content.Bounds(), xdraw.Src, nil)
	return img
}
