package leafmark

import (
	"bytes"
	"image"
	"image/color"
	"testing"
)

var (
	testWhite = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	testRed   = color.NRGBA{R: 255, A: 255}
)

// newTestCanvas returns a white canvas of the given size.
func newTestCanvas(width, height int) *Canvas {
	img := image.NewNRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetNRGBA(x, y, testWhite)
		}
	}
	return &Canvas{img: img, path: "test.png"}
}

func TestDrawBoxesOutlineOnly(t *testing.T) {
	c := newTestCanvas(100, 100)
	c.DrawBoxes([]LeafBox{{Coords: [4]float64{20, 20, 80, 80}}}, Style{Color: testRed, Stroke: 2})

	// Corners and stroke band are painted.
	for _, p := range []image.Point{{20, 20}, {79, 20}, {20, 79}, {79, 79}, {21, 21}, {78, 78}} {
		if got := c.img.NRGBAAt(p.X, p.Y); got != testRed {
			t.Errorf("pixel %v: expected outline color, got %v", p, got)
		}
	}

	// The interior and the outside stay untouched.
	for _, p := range []image.Point{{22, 22}, {50, 50}, {77, 77}, {19, 19}, {80, 80}, {0, 0}} {
		if got := c.img.NRGBAAt(p.X, p.Y); got != testWhite {
			t.Errorf("pixel %v: expected untouched white, got %v", p, got)
		}
	}
}

func TestDrawBoxesClipsToCanvas(t *testing.T) {
	c := newTestCanvas(100, 100)
	c.DrawBoxes([]LeafBox{{Coords: [4]float64{-10, -10, 50, 50}}}, Style{Color: testRed, Stroke: 1})

	// The clipped rectangle is (0,0)-(50,50); its visible edges are painted.
	for _, p := range []image.Point{{0, 0}, {49, 0}, {0, 49}, {49, 49}} {
		if got := c.img.NRGBAAt(p.X, p.Y); got != testRed {
			t.Errorf("pixel %v: expected outline color, got %v", p, got)
		}
	}
	if got := c.img.NRGBAAt(25, 25); got != testWhite {
		t.Errorf("interior pixel: expected untouched white, got %v", got)
	}
}

func TestDrawBoxesOffCanvasSkipped(t *testing.T) {
	c := newTestCanvas(100, 100)
	c.DrawBoxes([]LeafBox{{Coords: [4]float64{150, 150, 200, 200}}}, Style{Color: testRed, Stroke: 3})

	for y := 0; y < 100; y++ {
		for x := 0; x < 100; x++ {
			if got := c.img.NRGBAAt(x, y); got != testWhite {
				t.Fatalf("pixel (%d,%d) was modified by an off-canvas box: %v", x, y, got)
			}
		}
	}
}

func TestDrawBoxesEmptyList(t *testing.T) {
	c := newTestCanvas(50, 50)
	c.DrawBoxes(nil, Style{Color: testRed, Stroke: 5})

	for y := 0; y < 50; y++ {
		for x := 0; x < 50; x++ {
			if got := c.img.NRGBAAt(x, y); got != testWhite {
				t.Fatalf("pixel (%d,%d) was modified with no boxes: %v", x, y, got)
			}
		}
	}
}

func TestDrawBoxesTinyBoxFilled(t *testing.T) {
	// A box too small to hold an interior at the given stroke width is
	// painted completely rather than dropped.
	c := newTestCanvas(50, 50)
	c.DrawBoxes([]LeafBox{{Coords: [4]float64{10, 10, 14, 14}}}, Style{Color: testRed, Stroke: 5})

	for y := 10; y < 14; y++ {
		for x := 10; x < 14; x++ {
			if got := c.img.NRGBAAt(x, y); got != testRed {
				t.Errorf("pixel (%d,%d): expected outline color, got %v", x, y, got)
			}
		}
	}
}

func TestDrawBoxesDeterministic(t *testing.T) {
	boxes := []LeafBox{
		{Coords: [4]float64{0, 0, 50, 50}},
		{Coords: [4]float64{60, 60, 80, 80}},
		{Coords: [4]float64{-5, 90, 200, 105}},
	}
	style := Style{Color: testRed, Stroke: 5}

	c1 := newTestCanvas(100, 100)
	c2 := newTestCanvas(100, 100)
	c1.DrawBoxes(boxes, style)
	c2.DrawBoxes(boxes, style)

	if !bytes.Equal(c1.img.Pix, c2.img.Pix) {
		t.Error("drawing the same boxes on two copies of the canvas differs")
	}
}
