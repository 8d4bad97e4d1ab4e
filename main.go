// Command micrograph-prep is the interactive crop tool for SEM/optical
// micrographs. It detects the embedded scale bar, converts a physical
// crop size into pixels and opens a window where each click saves a
// fixed-resolution patch.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"micrograph-prep/internal/annotation"
	"micrograph-prep/internal/calibrate"
	mpimage "micrograph-prep/internal/image"
	"micrograph-prep/internal/sampler"
	"micrograph-prep/internal/scalebar"
	"micrograph-prep/internal/version"
	"micrograph-prep/ui/cropwindow"

	"gocv.io/x/gocv"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Printf("Starting crop tool v%s", version.Version)

	defaults := scalebar.DefaultParams()

	imagePath := flag.String("image", "", "Path to the micrograph (PNG, JPEG, BMP, or TIFF)")
	barLength := flag.Float64("bar-length", 0, "Physical length of the scale bar in µm")
	cropSize := flag.Float64("crop-size", 0, "Target physical crop size in µm")
	pixelSize := flag.Int("pixel-size", 128, "Output patch resolution in pixels")
	outputDir := flag.String("out", "", "Output directory for patches")
	hueMin := flag.Float64("hue-min", defaults.HueMin, "Scale bar hue band lower bound (0-180)")
	hueMax := flag.Float64("hue-max", defaults.HueMax, "Scale bar hue band upper bound (0-180)")
	flag.Parse()

	in := bufio.NewReader(os.Stdin)

	fmt.Println("=== Crop Tool for SEM/Optical Images ===")

	if *imagePath == "" {
		*imagePath = promptString(in, "Enter image file path: ")
	}

	img, err := mpimage.Load(*imagePath)
	if err != nil {
		log.Fatalf("Could not read image %s: %v", *imagePath, err)
	}

	mat := mpimage.ToMat(img)
	defer mat.Close()

	params := defaults.WithHue(*hueMin, *hueMax)
	measurement := scalebar.Detect(mat, params)

	if *barLength <= 0 {
		if suggestion, ok := suggestBarLength(mat, measurement); ok {
			fmt.Printf("Scale annotation reads %.4g µm\n", suggestion)
			*barLength = promptFloatDefault(in, "Enter actual length of scale bar (µm)", suggestion)
		} else {
			*barLength = promptFloat(in, "Enter actual length of scale bar (µm): ")
		}
	}
	if *cropSize <= 0 {
		*cropSize = promptFloat(in, "Enter target crop size (µm): ")
	}
	if *outputDir == "" {
		*outputDir = promptString(in, "Enter output folder path: ")
	}

	result, err := calibrate.Compute(measurement.PixelLength, *barLength, *cropSize)
	if err != nil {
		log.Fatalf("Calibration failed: %v", err)
	}
	if result.Degraded {
		log.Printf("Warning: no scale bar detected, using default 1 px/µm")
	} else {
		fmt.Printf("Detected scale bar: %d px  ->  %.2f px/µm\n",
			measurement.PixelLength, result.PixelsPerUnit)
	}
	fmt.Printf("Crop box size: %d×%d pixels\n", result.CropBoxPx, result.CropBoxPx)

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		log.Fatalf("Could not create output directory %s: %v", *outputDir, err)
	}

	session := sampler.NewSession(sampler.Config{
		CropBoxPx:   result.CropBoxPx,
		OutputSize:  *pixelSize,
		OutputDir:   *outputDir,
		ImageWidth:  img.Bounds().Dx(),
		ImageHeight: img.Bounds().Dy(),
	}, sampler.NewMatWriter(mat))

	fmt.Println("Instructions:")
	fmt.Println(" • Move mouse to position the red box.")
	fmt.Println(" • Left-click to save a patch.")
	fmt.Println(" • Press 'q' or close the window to exit.")

	total := cropwindow.Run(img, session)
	fmt.Printf("Total patches saved: %d\n", total)
}

// suggestBarLength OCRs the annotation next to the detected bar. Any
// failure degrades silently to prompting the operator.
func suggestBarLength(mat gocv.Mat, measurement scalebar.Measurement) (float64, bool) {
	if !measurement.Found() {
		return 0, false
	}
	engine, err := annotation.NewEngine()
	if err != nil {
		return 0, false
	}
	defer engine.Close()
	return engine.SuggestLength(mat, measurement.Bounds)
}

func promptString(in *bufio.Reader, label string) string {
	for {
		fmt.Print(label)
		line, err := in.ReadString('\n')
		if err != nil && line == "" {
			log.Fatalf("No input available for %q", label)
		}
		if value := strings.TrimSpace(line); value != "" {
			return value
		}
	}
}

func promptFloat(in *bufio.Reader, label string) float64 {
	for {
		if value, err := strconv.ParseFloat(promptString(in, label), 64); err == nil && value > 0 {
			return value
		}
		fmt.Println("Please enter a positive number.")
	}
}

func promptFloatDefault(in *bufio.Reader, label string, def float64) float64 {
	fmt.Printf("%s [default=%.4g]: ", label, def)
	line, err := in.ReadString('\n')
	if err != nil && line == "" {
		return def
	}
	value := strings.TrimSpace(line)
	if value == "" {
		return def
	}
	if parsed, err := strconv.ParseFloat(value, 64); err == nil && parsed > 0 {
		return parsed
	}
	return def
}
