// Package scalebar locates the colored reference scale bar in a
// micrograph and measures its length in pixels.
package scalebar

import (
	"micrograph-prep/pkg/geometry"

	"gocv.io/x/gocv"
)

// Measurement is the result of a scale bar detection. PixelLength is 0
// when no marker survived thresholding.
type Measurement struct {
	PixelLength int
	Bounds      geometry.RectInt
}

// Found reports whether a marker was detected.
func (m Measurement) Found() bool {
	return m.PixelLength > 0
}

// Detect locates the scale bar in a BGR image. It thresholds the HSV
// band in params, takes the largest external contour and returns the
// width of its axis-aligned bounding box. Single-shot and stateless.
func Detect(img gocv.Mat, params Params) Measurement {
	if img.Empty() {
		return Measurement{}
	}

	hsv := gocv.NewMat()
	defer hsv.Close()
	gocv.CvtColor(img, &hsv, gocv.ColorBGRToHSV)

	mask := gocv.NewMat()
	defer mask.Close()
	gocv.InRangeWithScalar(hsv,
		gocv.NewScalar(params.HueMin, params.SatMin, params.ValMin, 0),
		gocv.NewScalar(params.HueMax, params.SatMax, params.ValMax, 0),
		&mask)

	contours := gocv.FindContours(mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
	defer contours.Close()

	if contours.Size() == 0 {
		return Measurement{}
	}

	// Largest contour wins; on an area tie the first encountered is kept.
	largest := 0
	largestArea := gocv.ContourArea(contours.At(0))
	for i := 1; i < contours.Size(); i++ {
		if area := gocv.ContourArea(contours.At(i)); area > largestArea {
			largest = i
			largestArea = area
		}
	}

	rect := gocv.BoundingRect(contours.At(largest))
	return Measurement{
		PixelLength: rect.Dx(),
		Bounds: geometry.RectInt{
			X:      rect.Min.X,
			Y:      rect.Min.Y,
			Width:  rect.Dx(),
			Height: rect.Dy(),
		},
	}
}
