// Package histmatch remaps grayscale intensities so an image's
// empirical distribution approximates a reference image's
// distribution.
package histmatch

import (
	"image"
	"sort"

	"gonum.org/v1/gonum/floats"
)

const levels = 256

// Match returns a copy of src whose intensity distribution
// approximates that of ref. Dimensions follow src; ref contributes
// only its histogram. The mapping is exact histogram specification:
// each source intensity maps to the lowest reference intensity whose
// CDF reaches the source quantile, so equal inputs always yield equal
// outputs and matching an image against itself is the identity for
// every intensity that occurs in it.
func Match(src, ref *image.Gray) *image.Gray {
	lut := buildLUT(cdf(src), cdf(ref))

	bounds := src.Bounds()
	out := image.NewGray(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			out.Pix[(y-bounds.Min.Y)*out.Stride+(x-bounds.Min.X)] = lut[src.GrayAt(x, y).Y]
		}
	}
	return out
}

// histogram counts pixel intensities into 256 bins.
func histogram(img *image.Gray) []float64 {
	hist := make([]float64, levels)
	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			hist[img.GrayAt(x, y).Y]++
		}
	}
	return hist
}

// cdf returns the normalized cumulative distribution of img's
// intensities. An empty image yields an all-zero CDF.
func cdf(img *image.Gray) []float64 {
	cum := make([]float64, levels)
	floats.CumSum(cum, histogram(img))

	if total := cum[levels-1]; total > 0 {
		floats.Scale(1/total, cum)
	}
	return cum
}

// buildLUT maps each source intensity to the lowest reference
// intensity whose CDF is at least the source quantile.
func buildLUT(srcCDF, refCDF []float64) [levels]uint8 {
	var lut [levels]uint8
	for i := range lut {
		j := sort.SearchFloat64s(refCDF, srcCDF[i])
		if j >= levels {
			j = levels - 1
		}
		lut[i] = uint8(j)
	}
	return lut
}
