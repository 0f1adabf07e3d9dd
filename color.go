package leafmark

// Outline color selection.

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/cenkalti/dominantcolor"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// OutlineColor resolves the configured color spec for the given canvas
// image.
//
// AutoColor derives a high-contrast color from the screenshot itself: the
// HSL complement of its dominant color, pushed to the opposite lightness
// band. Everything else must be a hex color such as "#ffff00".
func OutlineColor(spec string, img image.Image) (color.NRGBA, error) {
	if spec == AutoColor {
		return contrastColor(img), nil
	}

	c, err := colorful.Hex(spec)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: %v", spec, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}

// contrastColor picks an outline color that stands out against img.
func contrastColor(img image.Image) color.NRGBA {
	dom, _ := colorful.MakeColor(dominantcolor.Find(img))
	h, _, l := dom.Hsl()

	lightness := 0.7
	if l > 0.5 {
		lightness = 0.3
	}
	c := colorful.Hsl(math.Mod(h+180, 360), 1, lightness).Clamped()

	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}
