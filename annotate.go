package leafmark

// Screenshot annotation: outline rectangles over leaf component bounds.

import (
	"fmt"
	"image"
	"image/color"
	"log"
	"math"

	"github.com/disintegration/imaging"
)

// Style controls how box outlines are drawn. One Style applies to every box
// in a run; there is no per-box styling.
type Style struct {
	Color  color.NRGBA
	Stroke int // Outline width in pixels, drawn inward from the box edge.
}

// Canvas is the in-memory, mutable copy of one screenshot during annotation.
type Canvas struct {
	img  *image.NRGBA
	path string
}

// OpenCanvas reads and decodes the screenshot at path.
func OpenCanvas(path string) (*Canvas, error) {
	img, _, err := loadImage(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIO, err)
	}
	return &Canvas{img: imaging.Clone(img), path: path}, nil
}

// Image returns the current canvas pixels.
func (c *Canvas) Image() image.Image {
	return c.img
}

// Bounds returns the canvas pixel bounds.
func (c *Canvas) Bounds() image.Rectangle {
	return c.img.Bounds()
}

// Resize resamples the canvas to match the longer and shorter target sides
// and returns the width and height scale factors, so that box coordinates
// can be scaled to match.
func (c *Canvas) Resize(longerSide, shorterSide int,
		downsample, upsample imaging.ResampleFilter) (scaleWidth, scaleHeight float64) {

	c.img, scaleWidth, scaleHeight = resizeImage(c.img, longerSide, shorterSide, downsample, upsample)
	return scaleWidth, scaleHeight
}

// DrawBoxes strokes an unfilled rectangle outline for each box, in the order
// received.
//
// Each box is clipped to the canvas bounds first; a box whose clip is empty
// is logged and skipped without touching any pixel. Pixels inside the
// outline are never modified, preserving the screenshot's legibility.
func (c *Canvas) DrawBoxes(boxes []LeafBox, style Style) {
	for i, b := range boxes {
		r := image.Rect(
			int(math.Round(b.Coords[0])), int(math.Round(b.Coords[1])),
			int(math.Round(b.Coords[2])), int(math.Round(b.Coords[3])))
		clipped := r.Intersect(c.img.Bounds())
		if clipped.Empty() {
			log.Printf("Box %d of %q lies outside the canvas, skipping", i, c.path)
			continue
		}
		c.strokeRect(clipped, style)
	}
}

// strokeRect draws the outline of r. The stroke grows inward so the painted
// area never exceeds the rectangle.
func (c *Canvas) strokeRect(r image.Rectangle, style Style) {
	w := style.Stroke
	if w < 1 {
		w = 1
	}

	inner := r.Inset(w)
	if inner.Empty() {
		// Too small to hold an interior.
		c.fillRect(r, style.Color)
		return
	}

	c.fillRect(image.Rect(r.Min.X, r.Min.Y, r.Max.X, inner.Min.Y), style.Color)         // Top.
	c.fillRect(image.Rect(r.Min.X, inner.Max.Y, r.Max.X, r.Max.Y), style.Color)         // Bottom.
	c.fillRect(image.Rect(r.Min.X, inner.Min.Y, inner.Min.X, inner.Max.Y), style.Color) // Left.
	c.fillRect(image.Rect(inner.Max.X, inner.Min.Y, r.Max.X, inner.Max.Y), style.Color) // Right.
}

// fillRect sets every pixel in r, which must lie within the canvas bounds.
func (c *Canvas) fillRect(r image.Rectangle, col color.NRGBA) {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			c.img.SetNRGBA(x, y, col)
		}
	}
}

// Save encodes the canvas to outPath, as PNG or JPEG depending on the file
// extension.
func (c *Canvas) Save(outPath string, jpegQuality int) error {
	if err := saveImage(outPath, c.img, jpegQuality); err != nil {
		return fmt.Errorf("%w: %v", ErrIO, err)
	}
	return nil
}
