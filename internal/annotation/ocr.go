// Package annotation reads the physical length printed next to a
// micrograph's scale bar, to suggest a calibration value when the
// operator has not supplied one.
package annotation

import (
	"fmt"
	"strings"

	"micrograph-prep/pkg/geometry"

	"github.com/otiai10/gosseract/v2"
	"gocv.io/x/gocv"
)

// Engine wraps a Tesseract client configured for scale annotations.
type Engine struct {
	client *gosseract.Client
}

// NewEngine creates a new OCR engine.
func NewEngine() (*Engine, error) {
	client := gosseract.NewClient()

	if err := client.SetLanguage("eng"); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to set OCR language: %w", err)
	}

	// Annotations are short "<number> <unit>" strings; the dictionary
	// only hurts here.
	_ = client.SetWhitelist("0123456789.,µumn ")
	_ = client.SetVariable("load_system_dawg", "false")
	_ = client.SetVariable("load_freq_dawg", "false")

	return &Engine{client: client}, nil
}

// Close releases OCR resources.
func (e *Engine) Close() error {
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}

// SuggestLength OCRs the area around a detected scale bar and returns
// the printed physical length in micrometers. The second return is
// false when nothing legible was found; callers fall back to asking
// the operator.
func (e *Engine) SuggestLength(img gocv.Mat, bar geometry.RectInt) (float64, bool) {
	if img.Empty() || bar.Empty() {
		return 0, false
	}

	text, err := e.readRegion(img, labelRegion(bar, img.Cols(), img.Rows()))
	if err != nil {
		return 0, false
	}
	return ParseLength(text)
}

// labelRegion expands the bar's bounding box to cover the text the
// acquisition software prints above or below the bar.
func labelRegion(bar geometry.RectInt, imgWidth, imgHeight int) geometry.RectInt {
	margin := 4 * bar.Height
	if margin < 32 {
		margin = 32
	}
	return geometry.RectInt{
		X:      bar.X - bar.Width/2,
		Y:      bar.Y - margin,
		Width:  2 * bar.Width,
		Height: bar.Height + 2*margin,
	}.Clip(imgWidth, imgHeight)
}

func (e *Engine) readRegion(img gocv.Mat, region geometry.RectInt) (string, error) {
	if region.Empty() {
		return "", fmt.Errorf("empty annotation region")
	}

	crop := img.Region(region.ToImageRect())
	defer crop.Close()

	buf, err := gocv.IMEncode(gocv.PNGFileExt, crop)
	if err != nil {
		return "", fmt.Errorf("failed to encode annotation region: %w", err)
	}
	defer buf.Close()

	if err := e.client.SetPageSegMode(gosseract.PSM_SINGLE_LINE); err != nil {
		return "", fmt.Errorf("failed to set PSM: %w", err)
	}
	if err := e.client.SetImageFromBytes(buf.GetBytes()); err != nil {
		return "", fmt.Errorf("failed to set OCR image: %w", err)
	}

	text, err := e.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	return strings.TrimSpace(text), nil
}
