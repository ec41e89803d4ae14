package imageproc

import (
	"image"
	"math"
)

// Binarize applies Sauvola's adaptive thresholding ("Adaptive document image
// binarization", 2000) using integral images, so the cost is independent of
// the window size. Ink pixels come out as 255, background as 0.
//
// windowSize is the side of the square sampling window (31 works well at
// 200 DPI); k controls how aggressively high-variance areas are thresholded
// (0.2-0.5, higher keeps less ink).
func Binarize(src *image.Gray, windowSize int, k float64) *image.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	out := image.NewGray(b)

	integral, integralSq := integralImages(src)
	half := windowSize / 2

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			x0, y0 := x-half, y-half
			x1, y1 := x+half, y+half
			if x0 < 0 {
				x0 = 0
			}
			if y0 < 0 {
				y0 = 0
			}
			if x1 >= w {
				x1 = w - 1
			}
			if y1 >= h {
				y1 = h - 1
			}
			mean, dev := windowMeanStddev(integral, integralSq, x0, y0, x1, y1)
			threshold := mean * (1 + k*((dev/128)-1))
			if float64(src.Pix[y*src.Stride+x]) < threshold {
				out.Pix[y*out.Stride+x] = 255
			}
		}
	}
	return out
}

// integralImages computes the summed-area tables of the pixel values and
// their squares, each with a zero row and column prepended so window sums
// need no edge special-casing.
func integralImages(src *image.Gray) ([][]uint64, [][]uint64) {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()

	integral := make([][]uint64, h+1)
	integralSq := make([][]uint64, h+1)
	integral[0] = make([]uint64, w+1)
	integralSq[0] = make([]uint64, w+1)

	for y := 0; y < h; y++ {
		integral[y+1] = make([]uint64, w+1)
		integralSq[y+1] = make([]uint64, w+1)
		for x := 0; x < w; x++ {
			v := uint64(src.Pix[y*src.Stride+x])
			integral[y+1][x+1] = v + integral[y][x+1] + integral[y+1][x] - integral[y][x]
			integralSq[y+1][x+1] = v*v + integralSq[y][x+1] + integralSq[y+1][x] - integralSq[y][x]
		}
	}
	return integral, integralSq
}

// windowMeanStddev returns the mean and standard deviation of the inclusive
// window [x0,x1]x[y0,y1] from the integral images.
func windowMeanStddev(integral, integralSq [][]uint64, x0, y0, x1, y1 int) (mean, dev float64) {
	n := float64((x1 - x0 + 1) * (y1 - y0 + 1))
	sum := float64(integral[y1+1][x1+1] - integral[y0][x1+1] - integral[y1+1][x0] + integral[y0][x0])
	sumSq := float64(integralSq[y1+1][x1+1] - integralSq[y0][x1+1] - integralSq[y1+1][x0] + integralSq[y0][x0])

	mean = sum / n
	variance := sumSq/n - mean*mean
	if variance < 0 {
		variance = 0
	}
	return mean, math.Sqrt(variance)
}
