package leafmark

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestScaleCoords(t *testing.T) {
	s := AnnotatedScreen{
		Boxes: []LeafBox{
			{Coords: [4]float64{10, 20, 110, 220}},
			{Coords: [4]float64{0, 0, 50, 50}},
		},
	}
	s.scaleCoords(0.5, 2)

	if got, want := s.Boxes[0].Coords, [4]float64{5, 40, 55, 440}; got != want {
		t.Errorf("box 0: expected %v, got %v", want, got)
	}
	if got, want := s.Boxes[1].Coords, [4]float64{0, 0, 25, 100}; got != want {
		t.Errorf("box 1: expected %v, got %v", want, got)
	}
}

func TestWriteBoxes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "boxes.json")
	screens := []AnnotatedScreen{
		{
			ImagePath: "data/app.pkg-1.png",
			Boxes: []LeafBox{
				{Coords: [4]float64{0, 0, 50, 50}, Class: "android.widget.Button"},
			},
		},
	}

	if err := WriteBoxes(path, screens); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read the export: %v", err)
	}
	var decoded []AnnotatedScreen
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("failed to decode the export: %v", err)
	}
	if len(decoded) != 1 || decoded[0].ImagePath != "data/app.pkg-1.png" {
		t.Fatalf("unexpected export content: %+v", decoded)
	}
	if got, want := decoded[0].Boxes[0].Class, "android.widget.Button"; got != want {
		t.Errorf("expected class %q, got %q", want, got)
	}
}
