package leafmark

import (
	"image"
	"image/color"
	"testing"
)

// uniformImage returns a small image filled with col.
func uniformImage(col color.NRGBA) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, 32, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.SetNRGBA(x, y, col)
		}
	}
	return img
}

// luma is the perceived brightness of col in [0, 255].
func luma(col color.NRGBA) float64 {
	return 0.299*float64(col.R) + 0.587*float64(col.G) + 0.114*float64(col.B)
}

func TestOutlineColorHex(t *testing.T) {
	got, err := OutlineColor("#ff0000", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if want := (color.NRGBA{R: 255, A: 255}); got != want {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestOutlineColorInvalid(t *testing.T) {
	if _, err := OutlineColor("red", nil); err == nil {
		t.Fatal("expected an error for a non-hex color")
	}
}

func TestOutlineColorAutoContrast(t *testing.T) {
	// A dark screenshot gets a light outline and vice versa.
	dark := uniformImage(color.NRGBA{R: 10, G: 10, B: 10, A: 255})
	light := uniformImage(color.NRGBA{R: 245, G: 245, B: 245, A: 255})

	onDark, err := OutlineColor(AutoColor, dark)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	onLight, err := OutlineColor(AutoColor, light)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if luma(onDark) <= luma(onLight) {
		t.Errorf("expected the outline on a dark image (%v) to be brighter than on a light one (%v)",
			onDark, onLight)
	}
	if onDark.A != 255 || onLight.A != 255 {
		t.Error("outline colors must be opaque")
	}
}
