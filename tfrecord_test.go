package leafmark

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLabelIDsFirstAppearanceOrder(t *testing.T) {
	labels := newLabelIDs()

	if got := labels.id("android.widget.Button"); got != 1 {
		t.Errorf("expected ID 1, got %d", got)
	}
	if got := labels.id("android.widget.TextView"); got != 2 {
		t.Errorf("expected ID 2, got %d", got)
	}
	if got := labels.id("android.widget.Button"); got != 1 {
		t.Errorf("expected the existing ID 1, got %d", got)
	}
}

func TestToTFFeatures(t *testing.T) {
	dir := t.TempDir()
	imagePath := filepath.Join(dir, "screen.png")
	writeTestPNG(t, imagePath, 100, 200)

	screen := AnnotatedScreen{
		ImagePath: imagePath,
		Boxes: []LeafBox{
			{Coords: [4]float64{0, 0, 50, 50}, Class: "android.widget.Button"},
			{Coords: [4]float64{60, 60, 80, 80}},
		},
	}

	f, err := toTFFeatures(screen, newLabelIDs())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if got := f["image/width"].(int); got != 100 {
		t.Errorf("expected width 100, got %d", got)
	}
	if got := f["image/height"].(int); got != 200 {
		t.Errorf("expected height 200, got %d", got)
	}
	if got := f["image/format"].(string); got != "png" {
		t.Errorf("expected format png, got %q", got)
	}

	xmaxs := f["image/object/bbox/xmax"].([]float32)
	ymaxs := f["image/object/bbox/ymax"].([]float32)
	if xmaxs[0] != 0.5 || ymaxs[0] != 0.25 {
		t.Errorf("expected normalised corners (0.5, 0.25), got (%v, %v)", xmaxs[0], ymaxs[0])
	}

	classes := f["image/object/class/text"].([]string)
	if classes[0] != "android.widget.Button" || classes[1] != defaultClass {
		t.Errorf("unexpected classes: %v", classes)
	}
	ids := f["image/object/class/label"].([]int64)
	if ids[0] != 1 || ids[1] != 2 {
		t.Errorf("expected IDs [1 2], got %v", ids)
	}
}

func TestSaveLabelMap(t *testing.T) {
	path := filepath.Join(t.TempDir(), "label_map.pbtxt")
	labelMap := map[string]int32{
		"android.widget.Button":   1,
		"android.widget.TextView": 2,
	}

	if err := saveLabelMap(path, labelMap); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read the label map: %v", err)
	}
	want := "item {\n  id: 1\n  name: \"android.widget.Button\"\n}\n" +
			"item {\n  id: 2\n  name: \"android.widget.TextView\"\n}\n"
	if string(data) != want {
		t.Errorf("unexpected label map content:\n%s", data)
	}
}

func TestWriteTFRecord(t *testing.T) {
	dir := t.TempDir()
	imagePath := filepath.Join(dir, "screen.png")
	writeTestPNG(t, imagePath, 100, 100)

	recordPath := filepath.Join(dir, "train.tfrecord")
	labelMapPath := filepath.Join(dir, "label_map.pbtxt")
	screens := []AnnotatedScreen{
		{
			ImagePath: imagePath,
			Boxes:     []LeafBox{{Coords: [4]float64{0, 0, 50, 50}, Class: "android.widget.Button"}},
		},
	}

	if err := WriteTFRecord(recordPath, labelMapPath, screens, 1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	info, err := os.Stat(recordPath)
	if err != nil {
		t.Fatalf("expected a record file: %v", err)
	}
	if info.Size() == 0 {
		t.Error("expected a non-empty record file")
	}
	if _, err := os.Stat(labelMapPath); err != nil {
		t.Errorf("expected a label map file: %v", err)
	}
}
