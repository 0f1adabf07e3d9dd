package leafmark

// The intermediate representation of extracted leaf boxes.

import (
	"encoding/json"
	"fmt"
	"os"
)

// LeafBox is the bounding box of one leaf component, in screenshot pixel
// coordinates. Coords are absolute x1, y1, x2, y2 offsets from the top-left
// corner, with x1 < x2 and y1 < y2.
type LeafBox struct {
	Coords [4]float64 `json:"bounds"`
	Class  string     `json:"class,omitempty"` // Informational only.
}

// Width is the box width from b.Coords.
func (b LeafBox) Width() float64 {
	return b.Coords[2] - b.Coords[0]
}

// Height is the box height from b.Coords.
func (b LeafBox) Height() float64 {
	return b.Coords[3] - b.Coords[1]
}

// AnnotatedScreen is the extracted metadata for one hierarchy/screenshot
// pair. The boxes are in document (pre-order) traversal order and refer to
// the unmodified screenshot at ImagePath.
type AnnotatedScreen struct {
	Boxes     []LeafBox `json:"boxes"`
	ImagePath string    `json:"filename"`
}

// scaleCoords scales all box coordinates by the given scale factors.
func (s *AnnotatedScreen) scaleCoords(width, height float64) {
	for i := range s.Boxes {
		for j := 0; j < 4; j++ {
			if j&1 == 0 {
				s.Boxes[i].Coords[j] *= width
			} else {
				s.Boxes[i].Coords[j] *= height
			}
		}
	}
}

// WriteBoxes writes the extracted boxes for all screens to outFile as JSON.
func WriteBoxes(outFile string, screens []AnnotatedScreen) error {
	enc, err := json.MarshalIndent(screens, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(outFile, enc, 0644); err != nil {
		return fmt.Errorf("cannot write file %q: %v", outFile, err)
	}
	return nil
}
