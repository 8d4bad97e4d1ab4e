package calibrate

import (
	"errors"
	"math"
	"testing"
)

func TestComputeDegradedDefault(t *testing.T) {
	tests := []struct {
		name        string
		pixelLength int
		targetCrop  float64
		wantBox     int
	}{
		{"zero measurement", 0, 50, 50},
		{"negative measurement", -3, 20, 20},
		{"fractional crop truncates", 0, 12.9, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Compute(tt.pixelLength, 10, tt.targetCrop)
			if err != nil {
				t.Fatalf("Compute() error: %v", err)
			}
			if !got.Degraded {
				t.Error("Compute() without a measured bar should be degraded")
			}
			if got.PixelsPerUnit != 1.0 {
				t.Errorf("PixelsPerUnit = %v, want 1.0", got.PixelsPerUnit)
			}
			if got.CropBoxPx != tt.wantBox {
				t.Errorf("CropBoxPx = %d, want %d", got.CropBoxPx, tt.wantBox)
			}
		})
	}
}

func TestComputeMeasured(t *testing.T) {
	// 200 px bar spanning 10 units: 20 px/unit, 5-unit crop = 100 px box.
	got, err := Compute(200, 10, 5)
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}
	if got.Degraded {
		t.Error("Compute() with a measured bar should not be degraded")
	}
	if math.Abs(got.PixelsPerUnit-20) > 1e-9 {
		t.Errorf("PixelsPerUnit = %v, want 20", got.PixelsPerUnit)
	}
	if got.CropBoxPx != 100 {
		t.Errorf("CropBoxPx = %d, want 100", got.CropBoxPx)
	}
}

func TestComputeTruncatesTowardZero(t *testing.T) {
	// 150 px over 7 units = 21.43 px/unit; 3-unit crop = 64.28 px -> 64.
	got, err := Compute(150, 7, 3)
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}
	if got.CropBoxPx != 64 {
		t.Errorf("CropBoxPx = %d, want 64", got.CropBoxPx)
	}
}

func TestComputeInvalidPhysicalLength(t *testing.T) {
	for _, actual := range []float64{0, -1.5} {
		if _, err := Compute(100, actual, 5); !errors.Is(err, ErrInvalidCalibration) {
			t.Errorf("Compute(100, %v, 5) error = %v, want ErrInvalidCalibration", actual, err)
		}
	}
}

func TestComputeDegenerateCrop(t *testing.T) {
	// 10 px over 100 units = 0.1 px/unit; 5-unit crop = 0.5 px -> fails.
	if _, err := Compute(10, 100, 5); !errors.Is(err, ErrDegenerateCrop) {
		t.Errorf("Compute() error = %v, want ErrDegenerateCrop", err)
	}

	// Degraded mode can degenerate too: sub-pixel target crop.
	if _, err := Compute(0, 10, 0.4); !errors.Is(err, ErrDegenerateCrop) {
		t.Errorf("Compute() error = %v, want ErrDegenerateCrop", err)
	}
}
