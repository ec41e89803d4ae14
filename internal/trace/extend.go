package trace

import (
	"image"
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/uliss/scantailor/internal/geom"
)

// BoundTracer grows a polyline end toward a vertical bound. Implementations
// return the points to append, in walking order, starting after the given
// start point; an empty result means the end cannot be extended.
type BoundTracer interface {
	TraceTowards(start image.Point, bound geom.Line, maxDist float64) []image.Point
}

// maskTracer walks from a polyline end toward a bound line, staying on the
// thick mask and snapping each step to the darkest blurred pixel in a small
// vertical window, so the extension follows the text line rather than a
// straight ray.
type maskTracer struct {
	content *image.Gray
	blurred *image.Gray
	mask    *image.Gray
}

// NewMaskTracer returns the default BoundTracer over the downscaled images
// produced during preprocessing. All three images must share dimensions.
func NewMaskTracer(content, blurred, mask *image.Gray) BoundTracer {
	return &maskTracer{content: content, blurred: blurred, mask: mask}
}

// Vertical snapping half-window and the iteration cap. The cap only guards
// against pathological snapping loops; the distance budget normally stops
// the walk first.
const (
	snapHalfWindow = 5
	maxTraceSteps  = 100
)

func (t *maskTracer) TraceTowards(start image.Point, bound geom.Line, maxDist float64) []image.Point {
	b := t.blurred.Bounds()
	w, h := b.Dx(), b.Dy()

	cur := start
	budget := maxDist
	var out []image.Point

	for step := 0; step < maxTraceSteps; step++ {
		curVec := r2.Vec{X: float64(cur.X), Y: float64(cur.Y)}
		toBound := r2.Sub(bound.Project(curVec), curVec)
		dist := r2.Norm(toBound)
		if dist < 1 || budget <= 0 {
			break
		}

		stepLen := math.Min(math.Min(budget, dist), 8)
		next := r2.Add(curVec, r2.Scale(stepLen/dist, toBound))

		nx := clampInt(int(math.Round(next.X)), 0, w-1)
		ny := clampInt(int(math.Round(next.Y)), 0, h-1)

		// Snap vertically to the darkest blurred pixel, staying on the mask.
		// Actual ink pixels outrank merely dark ones.
		bestY := -1
		bestGray := 256
		bestInk := false
		for dy := -snapHalfWindow; dy <= snapHalfWindow; dy++ {
			y := ny + dy
			if y < 0 || y >= h {
				continue
			}
			if t.mask.Pix[y*t.mask.Stride+nx] == 0 {
				continue
			}
			ink := t.content.Pix[y*t.content.Stride+nx] != 0
			g := int(t.blurred.Pix[y*t.blurred.Stride+nx])
			if (ink && !bestInk) || (ink == bestInk && g < bestGray) {
				bestInk = ink
				bestGray = g
				bestY = y
			}
		}
		if bestY < 0 {
			// Walked off the mask.
			break
		}

		pt := image.Point{X: nx, Y: bestY}
		if pt == cur {
			break
		}

		budget -= math.Hypot(float64(pt.X-cur.X), float64(pt.Y-cur.Y))
		cur = pt
		out = append(out, pt)
	}

	return out
}

// extendTowardsBounds grows both ends of a polyline toward the vertical
// bounds. The bounds are matched to the polyline's ends by total projection
// distance, so a reversed polyline still extends toward the correct sides.
func extendTowardsBounds(pl geom.Polyline, left, right geom.Line, tracer BoundTracer, maxDist float64) geom.Polyline {
	if len(pl) == 0 {
		return pl
	}

	headBound, tailBound := left, right
	straight := left.ProjectionDist(pl.Front()) + right.ProjectionDist(pl.Back())
	crossed := left.ProjectionDist(pl.Back()) + right.ProjectionDist(pl.Front())
	if straight > crossed {
		headBound, tailBound = right, left
	}

	head := tracer.TraceTowards(roundPoint(pl.Front()), headBound, maxDist)
	tail := tracer.TraceTowards(roundPoint(pl.Back()), tailBound, maxDist)

	out := make(geom.Polyline, 0, len(head)+len(pl)+len(tail))
	for i := len(head) - 1; i >= 0; i-- {
		out = append(out, pointToVec(head[i]))
	}
	out = append(out, pl...)
	for _, pt := range tail {
		out = append(out, pointToVec(pt))
	}
	return out
}

func roundPoint(v r2.Vec) image.Point {
	return image.Point{X: int(math.Round(v.X)), Y: int(math.Round(v.Y))}
}
