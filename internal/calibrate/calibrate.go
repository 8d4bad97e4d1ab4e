// Package calibrate converts a measured scale bar length into a
// physically-sized crop box.
package calibrate

import (
	"errors"
)

var (
	// ErrInvalidCalibration indicates a non-positive physical scale bar length.
	ErrInvalidCalibration = errors.New("calibrate: scale bar physical length must be positive")

	// ErrDegenerateCrop indicates the requested crop resolves to less than one pixel.
	ErrDegenerateCrop = errors.New("calibrate: crop box smaller than one pixel")
)

// Result holds a computed calibration. Degraded is set when no scale
// bar was measured and the default 1 px/unit ratio was applied; the
// caller should surface a warning in that case.
type Result struct {
	PixelsPerUnit float64
	CropBoxPx     int
	Degraded      bool
}

// Compute derives the calibration ratio and crop box size.
//
// pixelLength is the measured scale bar length; zero or negative means
// "not detected" and selects the degraded 1 px/unit default rather
// than failing. actualLength is the bar's physical length and
// targetCrop the desired physical crop size, both in the same unit.
// The crop box is truncated toward zero, matching the acquisition
// tooling this pipeline feeds.
func Compute(pixelLength int, actualLength, targetCrop float64) (Result, error) {
	result := Result{PixelsPerUnit: 1.0}

	if pixelLength <= 0 {
		result.Degraded = true
	} else {
		if actualLength <= 0 {
			return Result{}, ErrInvalidCalibration
		}
		result.PixelsPerUnit = float64(pixelLength) / actualLength
	}

	result.CropBoxPx = int(targetCrop * result.PixelsPerUnit)
	if result.CropBoxPx < 1 {
		return Result{}, ErrDegenerateCrop
	}

	return result, nil
}
