package imageproc

import (
	"image"
	"math"

	"github.com/anthonynsimon/bild/convolution"
)

// GaussBlur applies an anisotropic Gaussian blur with independent horizontal
// and vertical sigmas. Text lines are wide and short, so the pipeline blurs
// much harder along x (sigma 17) than along y (sigma 5): that merges the
// characters of a line into one dark ridge without merging adjacent lines.
//
// The blur runs as two separable 1D convolutions.
func GaussBlur(src *image.Gray, hSigma, vSigma float64) *image.Gray {
	out := src
	if hSigma > 0 {
		out = convolveGray(out, gaussKernel1D(hSigma, true))
	}
	if vSigma > 0 {
		out = convolveGray(out, gaussKernel1D(vSigma, false))
	}
	if out == src {
		dup := image.NewGray(src.Bounds())
		copy(dup.Pix, src.Pix)
		return dup
	}
	return out
}

// gaussKernel1D builds a normalized 1D Gaussian convolution kernel,
// horizontal or vertical, truncated at 2.5 sigma.
func gaussKernel1D(sigma float64, horizontal bool) *convolution.Kernel {
	radius := int(math.Ceil(2.5 * sigma))
	size := 2*radius + 1

	var k *convolution.Kernel
	if horizontal {
		k = convolution.NewKernel(size, 1)
	} else {
		k = convolution.NewKernel(1, size)
	}
	for i := 0; i < size; i++ {
		d := float64(i - radius)
		k.Matrix[i] = math.Exp(-(d * d) / (2 * sigma * sigma))
	}
	return k
}

func convolveGray(src *image.Gray, k *convolution.Kernel) *image.Gray {
	return ToGray(convolution.Convolve(src, k.Normalized(), &convolution.Options{}))
}
