package imageproc

import "image"

// FindPeaks marks local gray-level minima: pixels whose value equals the
// darkest value within a windowW x windowH neighborhood centered on them.
// Pure white pixels never count as peaks. The result is a binary image with
// 255 at peak pixels.
//
// A flat dark plateau marks every one of its pixels; callers merge those
// into a single seed by dilating and taking connected components.
func FindPeaks(src *image.Gray, windowW, windowH int) *image.Gray {
	b := src.Bounds()
	min := minFilter(src, windowW, windowH)

	out := image.NewGray(b)
	for i, v := range src.Pix {
		if v < 255 && v == min.Pix[i] {
			out.Pix[i] = 255
		}
	}
	return out
}

// minFilter computes the windowed minimum with a rectangular window, run as
// two 1D sliding-minimum passes (monotonic deque, O(1) amortized per pixel).
func minFilter(src *image.Gray, windowW, windowH int) *image.Gray {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()

	tmp := image.NewGray(b)
	row := make([]uint8, w)
	for y := 0; y < h; y++ {
		copy(row, src.Pix[y*src.Stride:y*src.Stride+w])
		slidingMin(row, tmp.Pix[y*tmp.Stride:y*tmp.Stride+w], windowW/2)
	}

	out := image.NewGray(b)
	col := make([]uint8, h)
	res := make([]uint8, h)
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			col[y] = tmp.Pix[y*tmp.Stride+x]
		}
		slidingMin(col, res, windowH/2)
		for y := 0; y < h; y++ {
			out.Pix[y*out.Stride+x] = res[y]
		}
	}
	return out
}

// slidingMin writes, for every position i, the minimum of in[i-r..i+r]
// (clamped to the slice) into out. It keeps a deque of indices whose values
// increase from front to back.
func slidingMin(in, out []uint8, r int) {
	n := len(in)
	deque := make([]int, 0, n)
	for i := 0; i < n+r; i++ {
		if i < n {
			for len(deque) > 0 && in[deque[len(deque)-1]] >= in[i] {
				deque = deque[:len(deque)-1]
			}
			deque = append(deque, i)
		}
		pos := i - r
		if pos < 0 {
			continue
		}
		for deque[0] < pos-r {
			deque = deque[1:]
		}
		out[pos] = in[deque[0]]
	}
}

// RestrictToMask keeps only the seed components (8-connected sets of 255
// pixels) that overlap the mask. Peaks found on photographs or specks
// outside the thick mask are discarded here.
func RestrictToMask(seeds, mask *image.Gray) *image.Gray {
	b := seeds.Bounds()
	w, h := b.Dx(), b.Dy()

	labels, count := Labels(seeds)
	keep := make([]bool, count+1)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if l := labels[y*w+x]; l != 0 && mask.Pix[y*mask.Stride+x] != 0 {
				keep[l] = true
			}
		}
	}

	out := image.NewGray(b)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if keep[labels[y*w+x]] {
				out.Pix[y*out.Stride+x] = 255
			}
		}
	}
	return out
}

// Labels assigns 8-connected component labels to the set (255) pixels of a
// binary image. The returned slice holds one label per pixel in row-major
// order, 1-based with 0 meaning unset; count is the number of components.
func Labels(bin *image.Gray) (labels []uint32, count int) {
	b := bin.Bounds()
	w, h := b.Dx(), b.Dy()
	labels = make([]uint32, w*h)

	var queue []int
	for start := 0; start < w*h; start++ {
		y, x := start/w, start%w
		if bin.Pix[y*bin.Stride+x] == 0 || labels[start] != 0 {
			continue
		}
		count++
		label := uint32(count)
		labels[start] = label
		queue = append(queue[:0], start)
		for len(queue) > 0 {
			cur := queue[len(queue)-1]
			queue = queue[:len(queue)-1]
			cy, cx := cur/w, cur%w
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					ny, nx := cy+dy, cx+dx
					if nx < 0 || ny < 0 || nx >= w || ny >= h {
						continue
					}
					ni := ny*w + nx
					if labels[ni] == 0 && bin.Pix[ny*bin.Stride+nx] != 0 {
						labels[ni] = label
						queue = append(queue, ni)
					}
				}
			}
		}
	}
	return labels, count
}
