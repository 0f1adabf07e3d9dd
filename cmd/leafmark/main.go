// Annotates Android UI screenshots with the bounding boxes of the
// leaf-level components described in their UIAutomator hierarchy dumps.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/sensorable/leafmark"
)

var (
	hierarchyDirPath string // The input directory with the hierarchy XML dumps.
	imageDirPath     string // The input directory with the screenshots.
	outDirPath       string // The output directory for annotated screenshots.
	configFilePath   string // An optional YAML config file.

	boxesOutFilePath         string // Optional JSON export of the extracted boxes.
	tfRecordFilePath         string // Optional TFRecord export of the extracted boxes.
	tfRecordLabelMapFilePath string // The label map file for the TFRecord export.
	numShardFiles            int    // The number of TFRecord shard files to create.

	flagCfg = leafmark.DefaultConfig() // Values bound to flags.
	cfg     leafmark.Config            // The effective configuration.
)

func init() {
	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Usage of %s:\n", filepath.Base(os.Args[0]))
		_, _ = fmt.Fprintln(os.Stderr, "  input options:\t-hierarchies <dir> [-images <dir>]")
		_, _ = fmt.Fprintln(os.Stderr, "  output options:\t-out <dir> [-boxes-out <file>]"+
				" [-tfrecord <file> -tfrecord-label-map-file <file> [-num-shards]]")
		_, _ = fmt.Fprintln(os.Stderr)
		flag.PrintDefaults()
	}

	printUsageAndExit := func(msg ...interface{}) {
		log.Print(msg...)
		flag.Usage()
		os.Exit(1)
	}

	// Path arguments.
	flag.StringVar(&hierarchyDirPath, "hierarchies", "data",
		"The `path` to the input directory with the hierarchy XML dumps")
	flag.StringVar(&imageDirPath, "images", "",
		"The `path` to the input directory with the screenshots (defaults to -hierarchies)")
	flag.StringVar(&outDirPath, "out", "output",
		"The `path` to the output directory for annotated screenshots")
	flag.StringVar(&configFilePath, "config", "",
		"The `path` to an optional YAML config file; explicit flags take precedence")

	// Export arguments.
	flag.StringVar(&boxesOutFilePath, "boxes-out", "",
		"The `path` for an optional JSON export of the extracted boxes")
	flag.StringVar(&tfRecordFilePath, "tfrecord", "",
		"The `path` for an optional TFRecord object detection export")
	flag.StringVar(&tfRecordLabelMapFilePath, "tfrecord-label-map-file", "",
		"The TFRecord label map file `path` (required with -tfrecord)")
	flag.IntVar(&numShardFiles, "num-shards", 1,
		"The number of TFRecord shard files to create")

	// Annotation style arguments.
	flag.IntVar(&flagCfg.Stroke, "stroke", flagCfg.Stroke,
		"The outline stroke `width` in pixels")
	flag.StringVar(&flagCfg.Color, "color", flagCfg.Color,
		"The outline `color` as #rrggbb, or \"auto\" to contrast each screenshot")
	flag.BoolVar(&flagCfg.SkipInvisible, "skip-invisible", flagCfg.SkipInvisible,
		"Exclude nodes that are explicitly marked as not visible")
	flag.IntVar(&flagCfg.JPEGQuality, "jpeg-quality", flagCfg.JPEGQuality,
		"The quality to use when encoding JPEGs [1, 100]")

	// Image processing arguments.
	flag.IntVar(&flagCfg.ResizeLonger, "resize-longer", flagCfg.ResizeLonger,
		"The target `length` for the longer side of the output (zero keeps the input size)")
	flag.IntVar(&flagCfg.ResizeShorter, "resize-shorter", flagCfg.ResizeShorter,
		"The target `length` for the shorter side of the output (zero keeps the aspect ratio)")
	flag.StringVar(&flagCfg.DownsampleFilter, "downsample-filter", flagCfg.DownsampleFilter,
		"The filter to use when downsampling {nearest, box, linear, gaussian, lanczos}")
	flag.StringVar(&flagCfg.UpsampleFilter, "upsample-filter", flagCfg.UpsampleFilter,
		"The filter to use when upsampling {nearest, box, linear, gaussian, lanczos}")

	flag.Parse()

	// Load the config file, then re-apply any explicitly set flags on top.
	cfg = flagCfg
	if configFilePath != "" {
		fileCfg, err := leafmark.LoadConfig(configFilePath)
		if err != nil {
			printUsageAndExit("Failed to load the config file: ", err)
		}
		cfg = fileCfg
		flag.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "stroke":
				cfg.Stroke = flagCfg.Stroke
			case "color":
				cfg.Color = flagCfg.Color
			case "skip-invisible":
				cfg.SkipInvisible = flagCfg.SkipInvisible
			case "jpeg-quality":
				cfg.JPEGQuality = flagCfg.JPEGQuality
			case "resize-longer":
				cfg.ResizeLonger = flagCfg.ResizeLonger
			case "resize-shorter":
				cfg.ResizeShorter = flagCfg.ResizeShorter
			case "downsample-filter":
				cfg.DownsampleFilter = flagCfg.DownsampleFilter
			case "upsample-filter":
				cfg.UpsampleFilter = flagCfg.UpsampleFilter
			}
		})
	}
	if err := cfg.Validate(); err != nil {
		printUsageAndExit("Invalid configuration: ", err)
	}

	// Validate path arguments.
	if hierarchyDirPath == "" {
		printUsageAndExit("Missing hierarchy input path argument")
	}
	if imageDirPath == "" {
		imageDirPath = hierarchyDirPath
	}
	if outDirPath == "" {
		printUsageAndExit("Missing output directory path argument")
	}
	if tfRecordFilePath != "" && tfRecordLabelMapFilePath == "" {
		printUsageAndExit("Missing TFRecord label map file path argument")
	}

	hierarchyDirPath = filepath.Clean(hierarchyDirPath)
	imageDirPath = filepath.Clean(imageDirPath)
	outDirPath = filepath.Clean(outDirPath)
	if outDirPath == imageDirPath {
		printUsageAndExit("The screenshot input and output paths cannot be identical")
	}
}

func main() {
	if err := os.MkdirAll(outDirPath, 0755); err != nil {
		log.Fatal("Failed to create the output directory: ", err)
	}

	result, err := leafmark.Process(hierarchyDirPath, imageDirPath, outDirPath, cfg)
	if err != nil {
		log.Fatal("Processing failed: ", err)
	}

	if boxesOutFilePath != "" {
		if err := leafmark.WriteBoxes(boxesOutFilePath, result.Screens); err != nil {
			log.Fatal("Failed to write the box export: ", err)
		}
		log.Printf("Successfully wrote boxes for %d screens to %s",
			len(result.Screens), boxesOutFilePath)
	}

	if tfRecordFilePath != "" {
		if err := leafmark.WriteTFRecord(tfRecordFilePath, tfRecordLabelMapFilePath,
				result.Screens, numShardFiles); err != nil {
			log.Fatal("TFRecord export failed: ", err)
		}
		log.Printf("Successfully wrote TFRecords for %d screens to %s",
			len(result.Screens), tfRecordFilePath)
	}

	s := result.Summary
	log.Printf("Done: %d processed, %d skipped, %d failed", s.Processed, s.Skipped, s.Failed)
	if s.Failed > 0 || s.Processed == 0 {
		os.Exit(1)
	}
}
