package imageproc

import (
	"image"
	"image/draw"

	"github.com/disintegration/imaging"
)

// ToGray converts any image to 8-bit grayscale with bounds starting at the
// origin.
func ToGray(img image.Image) *image.Gray {
	b := img.Bounds()
	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(gray, gray.Bounds(), img, b.Min, draw.Src)
	return gray
}

// Downscale rescales src to approximately 200 DPI, the resolution the rest
// of the pipeline is tuned for. Input already within 180-220 DPI on both
// axes is returned unchanged.
func Downscale(src *image.Gray, dpiX, dpiY int) *image.Gray {
	if dpiX >= 180 && dpiX <= 220 && dpiY >= 180 && dpiY <= 220 {
		return src
	}
	b := src.Bounds()
	w := b.Dx() * 200 / dpiX
	h := b.Dy() * 200 / dpiY
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return ToGray(imaging.Resize(src, w, h, imaging.Lanczos))
}

// StretchGrayRange linearly remaps src's gray levels so the darkest pixel
// becomes 0 and the lightest 255. A flat image is returned as an unchanged
// copy.
func StretchGrayRange(src *image.Gray) *image.Gray {
	b := src.Bounds()
	out := image.NewGray(b)

	lo, hi := uint8(255), uint8(0)
	for _, v := range src.Pix {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}
	if hi <= lo {
		copy(out.Pix, src.Pix)
		return out
	}

	span := int(hi) - int(lo)
	for i, v := range src.Pix {
		out.Pix[i] = uint8(((int(v) - int(lo)) * 255) / span)
	}
	return out
}
