package imageproc

import (
	"image"

	"github.com/anthonynsimon/bild/effect"
)

// ErodeContent performs a grayscale erosion of the page's dark content: each
// output pixel becomes the lightest gray level within the given radius. Ink
// thinner than the window disappears entirely, so comparing the result
// against the input reveals which pixels sit near dark strokes.
//
// In raster terms this is a windowed maximum (dark-is-content flips the
// usual erode/dilate naming).
func ErodeContent(src *image.Gray, radius float64) *image.Gray {
	return ToGray(effect.Dilate(src, radius))
}

// DilateBinary expands the set (255) pixels of a binary image by the given
// radius. Used to merge region seeds that sit within a few pixels of each
// other, which peak detection cannot suppress when their gray levels are
// exactly equal.
func DilateBinary(src *image.Gray, radius float64) *image.Gray {
	return ToGray(effect.Dilate(src, radius))
}

// ThickMask builds the mask of pixels plausibly belonging to dark text
// strokes. A pixel is in the mask (255) when eroding the content lightened
// it by more than delta gray levels, i.e. when a dark stroke sits within the
// erosion window. Region growing is confined to this mask.
func ThickMask(blurred, eroded *image.Gray, delta uint8) *image.Gray {
	b := blurred.Bounds()
	mask := image.NewGray(b)
	for i, v := range blurred.Pix {
		if int(eroded.Pix[i]) > int(v)+int(delta) {
			mask.Pix[i] = 255
		}
	}
	return mask
}
