package leafmark

// Pairing and batch orchestration. Each hierarchy/screenshot pair is an
// independent unit of work; a failure on one pair never aborts the batch.

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
)

// Outcome classifies the result of processing one pair.
type Outcome int

const (
	OutcomeProcessed Outcome = iota
	OutcomeSkipped
	OutcomeFailed
)

// Pair is one hierarchy file with its matching screenshot, identified by a
// shared basename.
type Pair struct {
	Base      string
	XMLPath   string
	ImagePath string // Empty when no counterpart was found.
}

// PairResult is the per-pair processing record.
type PairResult struct {
	Pair
	OutPath string // The annotated screenshot, set when processed.
	Boxes   int    // The number of leaf boxes drawn.
	Outcome Outcome
	Err     error
}

// Summary aggregates the outcomes of one run.
type Summary struct {
	Processed int
	Skipped   int
	Failed    int
}

// RunResult is everything a run produced.
type RunResult struct {
	Pairs   []PairResult
	Screens []AnnotatedScreen // One per processed pair, for exports.
	Summary Summary
}

// rasterExtensions are the accepted screenshot formats, keyed by file
// extension without the dot.
var rasterExtensions = map[string]bool{"png": true, "jpg": true, "jpeg": true}

// FindPairs matches hierarchy files in xmlDir to screenshots in imageDir by
// basename. Hierarchy files with no counterpart are returned with an empty
// ImagePath so the caller can report them. Screenshots with no hierarchy
// file are logged once.
func FindPairs(xmlDir, imageDir string) ([]Pair, error) {
	xmlFiles, err := filesByExtInDir(xmlDir, ".xml")
	if err != nil {
		return nil, err
	}

	// The hierarchy files may live next to the screenshots; only raster
	// files count as pairing candidates.
	imageFiles, err := filesByExtInDir(imageDir, "")
	if err != nil {
		return nil, err
	}
	rasterFiles := make([]string, 0, len(imageFiles))
	for _, path := range imageFiles {
		if _, _, ext, err := splitPath(path); err == nil && rasterExtensions[strings.ToLower(ext)] {
			rasterFiles = append(rasterFiles, path)
		}
	}
	imageNamesToExt := mapFileNamesToExtensions(rasterFiles)

	pairs := make([]Pair, 0, len(xmlFiles))
	matched := 0
	for _, xmlPath := range xmlFiles {
		_, baseNoExt, _, err := splitPath(xmlPath)
		if err != nil {
			log.Print(err)
			continue
		}

		p := Pair{Base: baseNoExt, XMLPath: xmlPath}
		if ext, found := imageNamesToExt[baseNoExt]; found {
			p.ImagePath = filepath.Join(imageDir, baseNoExt+"."+ext)
			matched++
		}
		pairs = append(pairs, p)
	}

	if unmatched := len(imageNamesToExt) - matched; unmatched > 0 {
		log.Printf("%d screenshots in %q have no hierarchy file", unmatched, imageDir)
	}

	return pairs, nil
}

// Process runs the full pipeline over every pair found in xmlDir/imageDir
// and writes one annotated screenshot per successful pair to outDir, using
// the same basename as the input. outDir must already exist.
//
// Processing is sequential; per-pair outcomes are collected rather than
// propagated, so the returned error only covers run-level failures such as
// unreadable input directories.
func Process(xmlDir, imageDir, outDir string, cfg Config) (RunResult, error) {
	if err := cfg.Validate(); err != nil {
		return RunResult{}, err
	}
	downsample, err := resampleFilterByName(cfg.DownsampleFilter)
	if err != nil {
		return RunResult{}, err
	}
	upsample, err := resampleFilterByName(cfg.UpsampleFilter)
	if err != nil {
		return RunResult{}, err
	}

	pairs, err := FindPairs(xmlDir, imageDir)
	if err != nil {
		return RunResult{}, err
	}

	var result RunResult
	for _, p := range pairs {
		res, screen := processPair(p, outDir, cfg, downsample, upsample)

		switch res.Outcome {
		case OutcomeProcessed:
			result.Summary.Processed++
			result.Screens = append(result.Screens, *screen)
			log.Printf("Annotated %d leaf boxes, saved to %s", res.Boxes, res.OutPath)
		case OutcomeSkipped:
			result.Summary.Skipped++
			log.Printf("Skipping %q: %v", p.XMLPath, res.Err)
		case OutcomeFailed:
			result.Summary.Failed++
			log.Printf("Failed to process %q: %v", p.XMLPath, res.Err)
		}
		result.Pairs = append(result.Pairs, res)
	}

	if result.Summary.Processed == 0 {
		log.Print("Warning: no valid hierarchy/screenshot pairs were processed")
	}

	return result, nil
}

// processPair extracts the leaf boxes for one pair and renders them onto a
// fresh copy of the screenshot. The returned screen metadata refers to the
// unmodified screenshot and its original coordinate space.
func processPair(p Pair, outDir string, cfg Config,
		downsample, upsample imaging.ResampleFilter) (PairResult, *AnnotatedScreen) {

	res := PairResult{Pair: p}

	if p.ImagePath == "" {
		res.Outcome = OutcomeSkipped
		res.Err = fmt.Errorf("%w: no screenshot for %q", ErrPairing, p.XMLPath)
		return res, nil
	}

	data, err := os.ReadFile(p.XMLPath)
	if err != nil {
		res.Outcome = OutcomeFailed
		res.Err = fmt.Errorf("%w: %v", ErrIO, err)
		return res, nil
	}

	boxes, err := ExtractLeafBoxes(data, cfg.SkipInvisible)
	if err != nil {
		// The document itself is not well-formed; the whole pair is skipped.
		res.Outcome = OutcomeSkipped
		res.Err = err
		return res, nil
	}

	canvas, err := OpenCanvas(p.ImagePath)
	if err != nil {
		res.Outcome = OutcomeFailed
		res.Err = err
		return res, nil
	}

	screen := &AnnotatedScreen{Boxes: boxes, ImagePath: p.ImagePath}

	// Resize first and scale a copy of the boxes to match, so the outlines
	// stay crisp at the configured stroke width.
	draw := AnnotatedScreen{Boxes: append([]LeafBox(nil), boxes...), ImagePath: p.ImagePath}
	if cfg.ResizeLonger > 0 || cfg.ResizeShorter > 0 {
		scaleWidth, scaleHeight := canvas.Resize(cfg.ResizeLonger, cfg.ResizeShorter, downsample, upsample)
		draw.scaleCoords(scaleWidth, scaleHeight)
	}

	col, err := OutlineColor(cfg.Color, canvas.Image())
	if err != nil {
		res.Outcome = OutcomeFailed
		res.Err = err
		return res, nil
	}
	canvas.DrawBoxes(draw.Boxes, Style{Color: col, Stroke: cfg.Stroke})

	outPath := filepath.Join(outDir, filepath.Base(p.ImagePath))
	if err := canvas.Save(outPath, cfg.JPEGQuality); err != nil {
		res.Outcome = OutcomeFailed
		res.Err = err
		return res, nil
	}

	res.OutPath = outPath
	res.Boxes = len(draw.Boxes)
	res.Outcome = OutcomeProcessed
	return res, screen
}
