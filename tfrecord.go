package leafmark

// TFRecord object detection export of the extracted leaf boxes, for feeding
// UI component detectors. One tf.Example per screen, referencing the
// unmodified screenshot.

import (
	"fmt"
	"io"
	"log"
	"math"
	"os"
	"sort"

	"github.com/golang/protobuf/proto"
	"github.com/ryszard/tfutils/go/example"
	"github.com/ryszard/tfutils/go/tfrecord"
	tensorflow "github.com/ryszard/tfutils/proto/tensorflow/core/example"
)

// TFFeatureMap maps feature names to their values. Values must be
// convertible to tensorflow.Feature.
type TFFeatureMap map[string]interface{}

// defaultClass is used for leaves whose hierarchy node carries no class
// attribute.
const defaultClass = "leaf"

// labelIDs assigns stable integer IDs to class strings in first-appearance
// order, so one run always produces the same map for the same input.
type labelIDs struct {
	m    map[string]int32
	next int32
}

func newLabelIDs() *labelIDs {
	return &labelIDs{m: make(map[string]int32), next: 1}
}

func (l *labelIDs) id(name string) int64 {
	if id, ok := l.m[name]; ok {
		return int64(id)
	}
	l.m[name] = l.next
	l.next++
	return int64(l.m[name])
}

// toTFFeatures converts the extracted boxes for a single screen to the
// object detection feature map.
func toTFFeatures(screen AnnotatedScreen, labels *labelIDs) (TFFeatureMap, error) {
	// Get the image width and height.
	img, format, err := decodeImageConfig(screen.ImagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to decode the image metadata: %v", err)
	}

	// Read the raw image data.
	imgData, err := os.ReadFile(screen.ImagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read the image: %v", err)
	}

	f := make(TFFeatureMap, 16)
	f["image/height"] = img.Height
	f["image/width"] = img.Width
	f["image/filename"] = screen.ImagePath
	f["image/source_id"] = screen.ImagePath
	f["image/encoded"] = imgData
	f["image/format"] = format

	// Per box data with normalised corner coordinates.
	numBoxes := len(screen.Boxes)
	xmins := make([]float32, numBoxes)
	ymins := make([]float32, numBoxes)
	xmaxs := make([]float32, numBoxes)
	ymaxs := make([]float32, numBoxes)
	classes := make([]string, numBoxes)
	classIDs := make([]int64, numBoxes)
	for i, b := range screen.Boxes {
		xmins[i] = float32(b.Coords[0]) / float32(img.Width)
		ymins[i] = float32(b.Coords[1]) / float32(img.Height)
		xmaxs[i] = float32(b.Coords[2]) / float32(img.Width)
		ymaxs[i] = float32(b.Coords[3]) / float32(img.Height)

		class := b.Class
		if class == "" {
			class = defaultClass
		}
		classes[i] = class
		classIDs[i] = labels.id(class)
	}
	f["image/object/bbox/xmin"] = xmins
	f["image/object/bbox/ymin"] = ymins
	f["image/object/bbox/xmax"] = xmaxs
	f["image/object/bbox/ymax"] = ymaxs
	f["image/object/class/text"] = classes
	f["image/object/class/label"] = classIDs

	return f, nil
}

// WriteTFRecord does a streaming conversion, serialisation and file write
// for the extracted boxes to one or more TFRecord files stored under
// recordFilePath (with suffixes added when numShards > 1).
//
// The class label map is written to labelMapPath in pbtxt format.
func WriteTFRecord(recordFilePath, labelMapPath string, screens []AnnotatedScreen,
		numShards int) (err error) {
	defer func() {
		if e := recover(); e != nil {
			err = fmt.Errorf("conversion to TensorFlow Example failed: %v", e)
		}
	}()

	if numShards <= 0 {
		numShards = 1
	}
	labels := newLabelIDs()

	fmtShardSuffix := func(idx int) string {
		return fmt.Sprintf("-%05d-of-%05d", idx, numShards)
	}

	var shardFile *os.File
	shardSize := int(math.Ceil(float64(len(screens)) / float64(numShards)))
	shardIdx := -1

	// Convert and serialise one screen at a time.
	for i, screen := range screens {
		// Check if a new shard file needs to be opened for writing.
		if shardSize > 0 && i%shardSize == 0 {
			shardIdx++

			if shardFile != nil {
				_ = shardFile.Close()
				shardFile = nil
			}

			shardPath := recordFilePath
			if numShards > 1 {
				shardPath += fmtShardSuffix(shardIdx)
			}
			f, err := os.Create(shardPath)
			if err != nil {
				return fmt.Errorf("failed to create shard at %q: %v", shardPath, err)
			}
			shardFile = f
		}

		features, err := toTFFeatures(screen, labels)
		if err != nil {
			log.Printf("Failed to convert %q: %v", screen.ImagePath, err)
			continue
		}
		tfExample := example.New(features)

		if err := writeTFRecordExample(shardFile, tfExample); err != nil {
			log.Print("Failed to write example: ", err)
			break
		}
	}

	if shardFile != nil {
		_ = shardFile.Close()
	}

	return saveLabelMap(labelMapPath, labels.m)
}

// writeTFRecordExample serialises the example and writes it as a TFRecord
// to w.
func writeTFRecordExample(w io.Writer, e *tensorflow.Example) error {
	enc, err := proto.Marshal(e)
	if err != nil {
		return err
	}

	return tfrecord.Write(w, enc)
}

// saveLabelMap writes the label map to path in the pbtxt format used by the
// TensorFlow object detection tooling, ordered by ID.
func saveLabelMap(path string, labelMap map[string]int32) (err error) {
	names := make([]string, 0, len(labelMap))
	for name := range labelMap {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool { return labelMap[names[i]] < labelMap[names[j]] })

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create the label map file %q: %v", path, err)
	}
	defer closeWithErrCheck(file, &err)

	for _, name := range names {
		if _, err := fmt.Fprintf(file, "item {\n  id: %d\n  name: %q\n}\n", labelMap[name], name); err != nil {
			return err
		}
	}

	return nil
}
