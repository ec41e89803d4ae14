package trace

import (
	"image"
	"math"

	"github.com/uliss/scantailor/internal/geom"
	"github.com/uliss/scantailor/internal/grid"
	"github.com/uliss/scantailor/internal/imageproc"
	"github.com/uliss/scantailor/internal/pqueue"
)

// Region is one seeded cluster of a text line. The centroid comes from the
// seed pixels only, not from the grown area, so it stays on the dark core of
// the line. Neighbors are filled in while building the edge graph; Leftmost
// and Rightmost mark regions whose grown area touches the respective content
// boundary.
type Region struct {
	Centroid  image.Point
	Neighbors []uint32
	Leftmost  bool
	Rightmost bool
}

// initRegions turns each 8-connected component of the seed bitmap into a
// Region whose centroid is the component's mean pixel, rounded half-up.
func initRegions(seeds *image.Gray) []Region {
	b := seeds.Bounds()
	w, h := b.Dx(), b.Dy()

	labels, count := imageproc.Labels(seeds)
	if count == 0 {
		return nil
	}

	type acc struct{ sumX, sumY, n int }
	accs := make([]acc, count)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if l := labels[y*w+x]; l != 0 {
				a := &accs[l-1]
				a.sumX += x
				a.sumY += y
				a.n++
			}
		}
	}

	regions := make([]Region, count)
	for i, a := range accs {
		regions[i].Centroid = image.Point{
			X: (a.sumX + a.n/2) / a.n,
			Y: (a.sumY + a.n/2) / a.n,
		}
	}
	return regions
}

// newLabeledGrid builds the growth grid for the blurred image: every cell
// copies its gray level, and cells outside the thick mask are finalized up
// front so flooding can never claim them.
func newLabeledGrid(blurred, mask *image.Gray) *grid.Grid {
	b := blurred.Bounds()
	w, h := b.Dx(), b.Dy()
	g := grid.New(w, h)

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			n := g.At(x, y)
			n.Gray = blurred.Pix[y*blurred.Stride+x]
			n.Finalized = mask.Pix[y*mask.Stride+x] == 0
		}
	}
	return g
}

// growPosition is a queued pixel: its grid offset plus the insertion counter
// that breaks gray-level ties in flood (BFS) order.
type growPosition struct {
	offset int
	order  uint32
}

// growRegions floods region labels outward from each region's centroid, in
// ascending order of the claimed pixel's own gray level: darker stroke cores
// are claimed before lighter boundary pixels, and growth never crosses the
// thick-mask boundary (those cells are already finalized).
func growRegions(g *grid.Grid, regions []Region) {
	nodes := g.Nodes()
	stride := g.Stride()

	queue := pqueue.New(func(a, b growPosition) bool {
		ga, gb := nodes[a.offset].Gray, nodes[b.offset].Gray
		if ga != gb {
			return ga < gb
		}
		return a.order < b.order
	}, pqueue.NopIndex[growPosition])

	for i, region := range regions {
		offset := g.Offset(region.Centroid.X, region.Centroid.Y)
		nodes[offset].SetRegion(uint32(i))
		nodes[offset].Finalized = true
		queue.Push(growPosition{offset: offset})
	}

	neighborOffsets := [4]int{-stride, -1, 1, stride}

	var iteration uint32
	for !queue.Empty() {
		iteration++

		offset := queue.Pop().offset
		label := nodes[offset].Label

		for _, d := range neighborOffsets {
			nbh := &nodes[offset+d]
			if !nbh.Finalized {
				nbh.Finalized = true
				nbh.Label = label
				queue.Push(growPosition{offset: offset + d, order: iteration})
			}
		}
	}
}

// Vertical distances in the transform are scaled by 3, so ownership of the
// space between lines extends sideways much further than up or down,
// matching the elongated shape of text lines.
const vertScale = 3

const infSqdist = ^uint32(0)

// distanceTransform labels every still-unlabeled grid cell with the label of
// its nearest labeled cell under the vertically-scaled squared Euclidean
// metric. Linear time, after Meijster, Roerdink and Hesselink, "A general
// algorithm for computing distance transforms in linear time" (2000): a
// vertical per-column pass followed by a per-row lower-envelope sweep.
func distanceTransform(g *grid.Grid) {
	w, h := g.Width(), g.Height()
	nodes := g.Nodes()
	stride := g.Stride()

	sqdist := make([]uint32, w*h)

	// Vertical pass: per column, the scaled squared distance to the nearest
	// labeled cell in that column, with the nearest label propagated along.
	for x := 0; x < w; x++ {
		off := g.Offset(x, 0)
		sq := x

		y := 0
		for ; y < h && !nodes[off].HasRegion(); y++ {
			sqdist[sq] = infSqdist
			off += stride
			sq += w
		}
		if y == h {
			continue
		}

		// vsPlus2dvs tracks vs + 2*d*vs and dvsSquared the accumulated
		// scaled squared distance, updated incrementally while walking away
		// from the last labeled cell.
		vsPlus2dvs := uint32(vertScale)
		dvsSquared := uint32(0)
		var closest uint32

		for ; y < h; y++ {
			if nodes[off].HasRegion() {
				sqdist[sq] = 0
				dvsSquared = 0
				vsPlus2dvs = vertScale
				closest = nodes[off].Label
			} else {
				vsPlus2dvs += 2 * vertScale
				dvsSquared += vertScale * vsPlus2dvs
				sqdist[sq] = dvsSquared
				nodes[off].Label = closest
			}
			off += stride
			sq += w
		}

		y--
		off -= stride
		sq -= w

		// Walk back up to the last labeled cell, then resolve upward
		// distances where they beat the downward ones.
		for ; y >= 0 && sqdist[sq] != 0; y-- {
			off -= stride
			sq -= w
		}
		for ; y >= 0; y-- {
			if sqdist[sq] == 0 {
				dvsSquared = 0
				vsPlus2dvs = vertScale
				closest = nodes[off].Label
			} else {
				vsPlus2dvs += 2 * vertScale
				dvsSquared += vertScale * vsPlus2dvs
				if dvsSquared < sqdist[sq] {
					sqdist[sq] = dvsSquared
					nodes[off].Label = closest
				}
			}
			off -= stride
			sq -= w
		}
	}

	// Horizontal pass: per row, resolve the true nearest source combining
	// the vertical partial distance with the horizontal offset. Candidate
	// columns are kept on a stack only while they can still become the
	// closest for some column further right (a monotone lower envelope).
	type proximityRegion struct {
		xOrigin      int
		xMaybeLeader int // first column where this region may take the lead
	}

	origLabels := make([]uint32, w)
	stack := make([]proximityRegion, 0, w)

	for y := 0; y < h; y++ {
		row := sqdist[y*w : (y+1)*w]
		cost := func(origin, at int) uint64 {
			dx := uint64(at - origin)
			if at < origin {
				dx = uint64(origin - at)
			}
			return dx*dx + uint64(row[origin])
		}

		stack = append(stack[:0], proximityRegion{})

		for x := 1; x < w; x++ {
			top := &stack[len(stack)-1]
			for row[top.xOrigin] == infSqdist ||
				(row[x] != infSqdist && cost(top.xOrigin, top.xMaybeLeader) > cost(x, top.xMaybeLeader)) {
				// top can never win again against a region with origin x.
				if len(stack) > 1 {
					stack = stack[:len(stack)-1]
					top = &stack[len(stack)-1]
				} else {
					top.xOrigin = x
					break
				}
			}

			nextX := top.xOrigin
			if x != nextX && row[x] != infSqdist {
				// Find where a region with origin x overtakes top. It
				// cannot already be overtaken; the loop above handled that.
				takeOver := 0
				if row[nextX] != infSqdist {
					takeOver = x*x - nextX*nextX + int(row[x]) - int(row[nextX])
					takeOver /= (x - nextX) * 2
					takeOver++
				}
				if takeOver >= 0 && takeOver < w {
					stack = append(stack, proximityRegion{xOrigin: x, xMaybeLeader: takeOver})
				}
			}
		}

		rowOff := g.Offset(0, y)
		for x := 0; x < w; x++ {
			origLabels[x] = nodes[rowOff+x].Label
		}
		for x := w - 1; x >= 0; x-- {
			top := stack[len(stack)-1]
			nodes[rowOff+x].Label = origLabels[top.xOrigin]
			if top.xMaybeLeader == x && len(stack) > 1 {
				stack = stack[:len(stack)-1]
			}
		}
	}
}

// markBoundaryRegions walks every scanline, intersects it with the left and
// right bound lines, and marks the region owning the (clamped) intersection
// pixel as leftmost or rightmost. A region can be both.
func markBoundaryRegions(regions []Region, g *grid.Grid, left, right geom.Line) {
	w, h := g.Width(), g.Height()

	for y := 0; y < h; y++ {
		scanline := geom.HorizontalAt(float64(y), w)

		leftX := 0
		if p, ok := geom.Intersect(scanline, left); ok {
			leftX = clampInt(int(math.Round(p.X)), 0, w-1)
		}
		if n := g.At(leftX, y); n.HasRegion() {
			regions[n.Region()].Leftmost = true
		}

		rightX := w - 1
		if p, ok := geom.Intersect(scanline, right); ok {
			rightX = clampInt(int(math.Round(p.X)), 0, w-1)
		}
		if n := g.At(rightX, y); n.HasRegion() {
			regions[n.Region()].Rightmost = true
		}
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
