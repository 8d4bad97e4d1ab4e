package sampler

import (
	"fmt"
	"image"

	"micrograph-prep/pkg/geometry"

	"gocv.io/x/gocv"
)

// MatWriter persists patches from a source gocv.Mat. Resampling uses
// area interpolation, which is the appropriate policy when the crop is
// larger than the output resolution.
type MatWriter struct {
	src gocv.Mat
}

// NewMatWriter creates a writer over a source image. The caller
// retains ownership of the Mat and must keep it alive for the
// writer's lifetime.
func NewMatWriter(src gocv.Mat) *MatWriter {
	return &MatWriter{src: src}
}

// Write extracts region from the source, resamples it to
// outputSize x outputSize and writes it to path.
func (w *MatWriter) Write(region geometry.RectInt, outputSize int, path string) error {
	if region.Empty() {
		return fmt.Errorf("empty patch region %+v", region)
	}

	crop := w.src.Region(region.ToImageRect())
	defer crop.Close()

	resized := gocv.NewMat()
	defer resized.Close()
	gocv.Resize(crop, &resized, image.Pt(outputSize, outputSize), 0, 0, gocv.InterpolationArea)

	if ok := gocv.IMWrite(path, resized); !ok {
		return fmt.Errorf("failed to write patch: %s", path)
	}
	return nil
}
