package trace

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/uliss/scantailor/internal/geom"
)

// insideBounds reports whether pt lies inside the corridor between the left
// and right bound lines. Each bound's normal is oriented to point into the
// corridor before the side test.
func insideBounds(pt r2.Vec, left, right geom.Line) bool {
	leftNormal := left.Normal()
	if leftNormal.X < 0 {
		leftNormal = r2.Scale(-1, leftNormal)
	}
	if r2.Dot(leftNormal, r2.Sub(pt, left.P1)) < 0 {
		return false
	}

	rightNormal := right.Normal()
	if rightNormal.X > 0 {
		rightNormal = r2.Scale(-1, rightNormal)
	}
	if r2.Dot(rightNormal, r2.Sub(pt, right.P1)) < 0 {
		return false
	}

	return true
}

// filterOutOfBounds drops polylines with both endpoints outside the corridor
// between the bounds. A polyline with at least one endpoint inside survives.
func filterOutOfBounds(polylines []geom.Polyline, left, right geom.Line) []geom.Polyline {
	out := polylines[:0]
	for _, pl := range polylines {
		if len(pl) == 0 {
			continue
		}
		if insideBounds(pl.Front(), left, right) || insideBounds(pl.Back(), left, right) {
			out = append(out, pl)
		}
	}
	return out
}

// curvatureFlags reports whether the polyline contains a significant
// positive or negative bend. At every interior point the next segment is
// compared against the normal of the previous one; a bend is significant
// when the segment leans onto the normal by more than (90 - tolDeg) degrees
// off perpendicular. The sign of the lean distinguishes convex from concave.
func curvatureFlags(pl geom.Polyline, tolDeg float64) (positive, negative bool) {
	cosThreshold := math.Cos((90 - tolDeg) * math.Pi / 180)
	cosSqThreshold := cosThreshold * cosThreshold

	seg := r2.Sub(pl[1], pl[0])
	prevNormal := r2.Vec{X: -seg.Y, Y: seg.X}
	prevNormalSqlen := r2.Norm2(prevNormal)

	for i := 1; i+1 < len(pl); i++ {
		next := r2.Sub(pl[i+1], pl[i])
		nextSqlen := r2.Norm2(next)

		cosSq := 0.0
		if sqlenMult := prevNormalSqlen * nextSqlen; sqlenMult > 1e-12 {
			dot := r2.Dot(prevNormal, next)
			cosSq = math.Abs(dot) * dot / sqlenMult
		}

		if math.Abs(cosSq) >= cosSqThreshold {
			if cosSq > 0 {
				positive = true
			} else {
				negative = true
			}
		}

		prevNormal = r2.Vec{X: -next.Y, Y: next.X}
		prevNormalSqlen = nextSqlen
	}

	return positive, negative
}

// consistentCurvature accepts polylines that do not mix significant bends of
// both signs. Polylines of one point or fewer are degenerate and rejected;
// two-point polylines have no interior bends and always pass.
func consistentCurvature(pl geom.Polyline, tolDeg float64) bool {
	if len(pl) <= 1 {
		return false
	}
	if len(pl) == 2 {
		return true
	}

	positive, negative := curvatureFlags(pl, tolDeg)

	// A line bending consistently in one direction is genuine page
	// curvature. Significant bends of both signs mean the trace wandered
	// across lines.
	return !(positive && negative)
}

// filterInconsistentCurvature drops degenerate polylines and those failing
// the curvature consistency check.
func filterInconsistentCurvature(polylines []geom.Polyline, tolDeg float64) []geom.Polyline {
	out := polylines[:0]
	for _, pl := range polylines {
		if consistentCurvature(pl, tolDeg) {
			out = append(out, pl)
		}
	}
	return out
}
