// Command scalebartest runs scale bar detection on a micrograph and
// prints the measurement, for tuning the HSV threshold band without
// opening the interactive tool.
package main

import (
	"flag"
	"fmt"
	"os"

	mpimage "micrograph-prep/internal/image"
	"micrograph-prep/internal/scalebar"
)

func main() {
	defaults := scalebar.DefaultParams()

	imagePath := flag.String("image", "", "Path to the micrograph (PNG, JPEG, BMP, or TIFF)")
	barLength := flag.Float64("bar-length", 0, "Physical length of the scale bar in µm (optional)")
	hueMin := flag.Float64("hue-min", defaults.HueMin, "Hue band lower bound (0-180)")
	hueMax := flag.Float64("hue-max", defaults.HueMax, "Hue band upper bound (0-180)")
	satMin := flag.Float64("sat-min", defaults.SatMin, "Saturation lower bound (0-255)")
	valMin := flag.Float64("val-min", defaults.ValMin, "Value lower bound (0-255)")
	flag.Parse()

	if *imagePath == "" {
		fmt.Println("Usage: scalebartest -image <path> [-bar-length 10] [-hue-min 40 -hue-max 80]")
		os.Exit(1)
	}

	img, err := mpimage.Load(*imagePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load image: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Loaded image: %dx%d pixels\n", img.Bounds().Dx(), img.Bounds().Dy())

	mat := mpimage.ToMat(img)
	defer mat.Close()

	params := defaults.WithHue(*hueMin, *hueMax)
	params.SatMin = *satMin
	params.ValMin = *valMin
	fmt.Printf("Threshold band: H(%.0f-%.0f) S(%.0f-%.0f) V(%.0f-%.0f)\n",
		params.HueMin, params.HueMax, params.SatMin, params.SatMax, params.ValMin, params.ValMax)

	m := scalebar.Detect(mat, params)
	if !m.Found() {
		fmt.Println("No scale bar detected")
		return
	}

	fmt.Printf("Scale bar: %d px at (%d,%d), %dx%d\n",
		m.PixelLength, m.Bounds.X, m.Bounds.Y, m.Bounds.Width, m.Bounds.Height)
	if *barLength > 0 {
		fmt.Printf("Calibration: %.3f px/µm\n", float64(m.PixelLength) / *barLength)
	}
}
