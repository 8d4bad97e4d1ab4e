package image

import (
	"image"
	"image/color"

	"gocv.io/x/gocv"
)

// ToMat converts a Go image.Image to a gocv.Mat in BGR format.
func ToMat(img image.Image) gocv.Mat {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	mat := gocv.NewMatWithSize(h, w, gocv.MatTypeCV8UC3)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			r, g, b, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			mat.SetUCharAt(y, x*3+0, uint8(b>>8))
			mat.SetUCharAt(y, x*3+1, uint8(g>>8))
			mat.SetUCharAt(y, x*3+2, uint8(r>>8))
		}
	}

	return mat
}

// MatToGray converts a single-channel gocv.Mat to an image.Gray.
// The Mat must be CV8U.
func MatToGray(mat gocv.Mat) *image.Gray {
	h, w := mat.Rows(), mat.Cols()
	gray := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			gray.SetGray(x, y, color.Gray{Y: mat.GetUCharAt(y, x)})
		}
	}
	return gray
}

// GrayToMat converts an image.Gray to a single-channel CV8U gocv.Mat.
func GrayToMat(gray *image.Gray) gocv.Mat {
	bounds := gray.Bounds()
	h, w := bounds.Dy(), bounds.Dx()

	mat := gocv.NewMatWithSize(h, w, gocv.MatTypeCV8U)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			mat.SetUCharAt(y, x, gray.GrayAt(bounds.Min.X+x, bounds.Min.Y+y).Y)
		}
	}
	return mat
}
