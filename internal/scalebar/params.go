package scalebar

import (
	"math"

	"micrograph-prep/pkg/colorutil"
)

// Params holds the HSV threshold band used to isolate the scale bar
// marker. Hue is on the OpenCV 0-180 scale.
type Params struct {
	HueMin, HueMax float64
	SatMin, SatMax float64
	ValMin, ValMax float64
}

// DefaultParams returns the threshold band for the green reference
// markers burned into SEM/optical micrographs by the acquisition
// software.
func DefaultParams() Params {
	return Params{
		HueMin: 40,
		HueMax: 80,
		SatMin: 100,
		SatMax: 255,
		ValMin: 100,
		ValMax: 255,
	}
}

// WithHue returns a copy of params with a custom hue band.
func (p Params) WithHue(min, max float64) Params {
	p.HueMin = min
	p.HueMax = max
	return p
}

// ParamsAroundColor derives a threshold band centered on a marker's
// RGB color, for acquisition software that burns in markers of a
// non-standard hue.
func ParamsAroundColor(r, g, b uint8, hueTolerance float64) Params {
	h, _, _ := colorutil.RGBToHSV(float64(r), float64(g), float64(b))

	p := DefaultParams()
	p.HueMin = math.Max(0, h-hueTolerance)
	p.HueMax = math.Min(180, h+hueTolerance)
	return p
}
