package chrome

import (
	"testing"

	"github.com/gogpu/compose"
)

func testStyle() BoxStyle {
	return BoxStyle{
		TitleHeight: 10,
		BorderWidth: 2,
		Padding:     4,
		InnerBorder: 0.5,
		BorderColor: compose.Black,
		TitleColor:  compose.Blue,
		Background:  compose.White,
	}
}

func TestDrawBoxBands(t *testing.T) {
	dst := compose.NewTexture(100, 100)
	box := compose.Rect{X: 10, Y: 10, W: 80, H: 80}
	DrawBox(dst, box, testStyle(), nil)

	// Outside the box: untouched.
	if got := dst.PixelAt(5, 5); got != compose.Transparent {
		t.Errorf("texel outside box = %+v, want untouched", got)
	}
	// Border band.
	if got := dst.PixelAt(10, 50); got != compose.Black {
		t.Errorf("border texel = %+v, want black", got)
	}
	if got := dst.PixelAt(89, 50); got != compose.Black {
		t.Errorf("right border texel = %+v, want black", got)
	}
	// Title band sits below the top border: y in [12, 22).
	if got := dst.PixelAt(50, 14); got != compose.Blue {
		t.Errorf("title texel = %+v, want blue", got)
	}
	// Divider: last pixel of the title band.
	if got := dst.PixelAt(50, 21); got != compose.Black {
		t.Errorf("divider texel = %+v, want black", got)
	}
	// Content area with no content: background.
	if got := dst.PixelAt(50, 50); got != compose.White {
		t.Errorf("content texel = %+v, want background", got)
	}
}

func TestDrawBoxLetterboxesContent(t *testing.T) {
	dst := compose.NewTexture(200, 200)
	box := compose.Rect{X: 0, Y: 0, W: 200, H: 200}
	style := testStyle()

	// A wide opaque content texture letterboxes with gutters above and below.
	content := compose.NewTexture(100, 25)
	content.Clear(compose.Green)
	DrawBox(dst, box, style, content)

	// Content area: x in [6,194), y in [16,194). Preview is 4:1, so it fills
	// the width and centers vertically.
	if got := dst.PixelAt(100, 105); got != compose.Green {
		t.Errorf("preview center texel = %+v, want green", got)
	}
	// Vertical gutter above the preview: background.
	if got := dst.PixelAt(100, 30); got != compose.White {
		t.Errorf("gutter texel = %+v, want background", got)
	}
}

func TestDrawBoxTransparentContentShowsBackground(t *testing.T) {
	dst := compose.NewTexture(100, 100)
	box := compose.Rect{X: 0, Y: 0, W: 100, H: 100}

	content := compose.NewTexture(50, 50) // fully transparent
	DrawBox(dst, box, testStyle(), content)

	if got := dst.PixelAt(50, 60); got != compose.White {
		t.Errorf("transparent preview texel = %+v, want background", got)
	}
}

func TestDrawCompactBox(t *testing.T) {
	dst := compose.NewTexture(60, 60)
	box := compose.Rect{X: 0, Y: 0, W: 60, H: 60}
	style := testStyle()

	content := compose.NewTexture(10, 10)
	content.Clear(compose.Red)
	DrawCompactBox(dst, box, style, content)

	// Title band across the top, content stretched below with no border.
	if got := dst.PixelAt(30, 5); got != compose.Blue {
		t.Errorf("title texel = %+v, want blue", got)
	}
	if got := dst.PixelAt(30, 40); got != compose.Red {
		t.Errorf("body texel = %+v, want red", got)
	}
	if got := dst.PixelAt(0, 40); got != compose.Red {
		t.Errorf("left edge texel = %+v, want red (no border)", got)
	}
}

func TestDrawPort(t *testing.T) {
	dst := compose.NewTexture(40, 40)
	dst.Clear(compose.Yellow)
	style := PortStyle{
		Radius:       8,
		Outline:      2,
		FillColor:    compose.Green,
		OutlineColor: compose.Black,
	}
	DrawPort(dst, 20, 20, style)

	// Center: fill.
	if got := dst.PixelAt(20, 20); got != compose.Green {
		t.Errorf("port center = %+v, want green", got)
	}
	// Outline band: between r-outline and r.
	if got := dst.PixelAt(27, 20); got != compose.Black {
		t.Errorf("outline texel = %+v, want black", got)
	}
	// Outside the outer radius: untouched, not even background.
	if got := dst.PixelAt(30, 20); got != compose.Yellow {
		t.Errorf("texel outside port = %+v, want untouched yellow", got)
	}
	if got := dst.PixelAt(0, 0); got != compose.Yellow {
		t.Errorf("far texel = %+v, want untouched yellow", got)
	}
}
