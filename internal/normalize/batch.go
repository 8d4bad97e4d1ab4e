// Package normalize drives histogram matching over a directory of
// micrographs, remapping every image onto one reference distribution.
package normalize

import (
	"fmt"
	goimage "image"
	"log"
	"os"
	"path/filepath"

	"micrograph-prep/internal/histmatch"
	mpimage "micrograph-prep/internal/image"

	"gocv.io/x/gocv"
)

// Summary reports the outcome of a batch run.
type Summary struct {
	Found     int
	Processed int
	Skipped   int
}

// Run matches every supported raster file in inputDir against the
// reference image and writes the results under outputDir using the
// original filenames.
//
// An unreadable reference or an uncreatable output directory is fatal
// and returned as an error. Per-file failures are logged and skipped;
// they never abort the batch. An empty input directory is a successful
// no-op.
func Run(refPath, inputDir, outputDir string) (Summary, error) {
	ref, err := mpimage.LoadGray(refPath)
	if err != nil {
		return Summary{}, fmt.Errorf("load reference image %s: %w", refPath, err)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return Summary{}, fmt.Errorf("create output directory %s: %w", outputDir, err)
	}

	entries, err := os.ReadDir(inputDir)
	if err != nil {
		return Summary{}, fmt.Errorf("list input directory %s: %w", inputDir, err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !mpimage.IsSupported(entry.Name()) {
			continue
		}
		files = append(files, entry.Name())
	}

	if len(files) == 0 {
		log.Printf("No images found in %s, nothing to do", inputDir)
		return Summary{}, nil
	}

	summary := Summary{Found: len(files)}
	log.Printf("Found %d images, processing...", len(files))

	for _, name := range files {
		inPath := filepath.Join(inputDir, name)
		outPath := filepath.Join(outputDir, name)

		if err := matchOne(inPath, outPath, ref); err != nil {
			log.Printf("Warning: skipping %s: %v", inPath, err)
			summary.Skipped++
			continue
		}
		summary.Processed++
		log.Printf("Normalized %s", outPath)
	}

	return summary, nil
}

// matchOne loads one image as grayscale, matches it against the
// reference distribution and writes the result.
func matchOne(inPath, outPath string, ref *goimage.Gray) error {
	src, err := mpimage.LoadGray(inPath)
	if err != nil {
		return err
	}

	matched := histmatch.Match(src, ref)

	mat := mpimage.GrayToMat(matched)
	defer mat.Close()

	if ok := gocv.IMWrite(outPath, mat); !ok {
		return fmt.Errorf("failed to write %s", outPath)
	}
	return nil
}
