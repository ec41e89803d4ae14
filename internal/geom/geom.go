// Package geom provides the small amount of 2D geometry the tracer needs:
// infinite lines, line intersection, side-of-line tests and polylines.
//
// Points use gonum's r2.Vec. The coordinate system is the usual image one:
// origin at the top left, x growing rightward, y growing downward.
package geom

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// Line is the infinite line through P1 and P2. The two points also give the
// line a direction (P1 toward P2), which side-of-line tests rely on.
type Line struct {
	P1, P2 r2.Vec
}

// Delta returns the direction vector P2-P1.
func (l Line) Delta() r2.Vec { return r2.Sub(l.P2, l.P1) }

// Scaled returns the line with both endpoints scaled component-wise.
func (l Line) Scaled(sx, sy float64) Line {
	return Line{
		P1: r2.Vec{X: l.P1.X * sx, Y: l.P1.Y * sy},
		P2: r2.Vec{X: l.P2.X * sx, Y: l.P2.Y * sy},
	}
}

// Intersect returns the intersection point of two infinite lines.
// ok is false when the lines are parallel (or either is degenerate).
func Intersect(a, b Line) (p r2.Vec, ok bool) {
	da := a.Delta()
	db := b.Delta()
	denom := r2.Cross(da, db)
	if math.Abs(denom) < 1e-12 {
		return r2.Vec{}, false
	}
	t := r2.Cross(r2.Sub(b.P1, a.P1), db) / denom
	return r2.Add(a.P1, r2.Scale(t, da)), true
}

// ProjectionDist returns the distance from pt to its orthogonal projection
// onto the line. A degenerate line yields the distance to P1.
func (l Line) ProjectionDist(pt r2.Vec) float64 {
	d := l.Delta()
	sq := r2.Norm2(d)
	if sq < 1e-12 {
		return r2.Norm(r2.Sub(pt, l.P1))
	}
	t := r2.Dot(r2.Sub(pt, l.P1), d) / sq
	proj := r2.Add(l.P1, r2.Scale(t, d))
	return r2.Norm(r2.Sub(pt, proj))
}

// Project returns the orthogonal projection of pt onto the line.
func (l Line) Project(pt r2.Vec) r2.Vec {
	d := l.Delta()
	sq := r2.Norm2(d)
	if sq < 1e-12 {
		return l.P1
	}
	t := r2.Dot(r2.Sub(pt, l.P1), d) / sq
	return r2.Add(l.P1, r2.Scale(t, d))
}

// Normal returns a vector perpendicular to the line's direction.
// Which of the two perpendiculars is returned is unspecified; callers
// orient it themselves.
func (l Line) Normal() r2.Vec {
	d := l.Delta()
	return r2.Vec{X: d.Y, Y: -d.X}
}

// HorizontalAt returns the horizontal line through y spanning [0, width).
func HorizontalAt(y float64, width int) Line {
	return Line{P1: r2.Vec{X: 0, Y: y}, P2: r2.Vec{X: float64(width), Y: y}}
}

// VerticalAt returns the vertical line through x spanning [0, height),
// directed downward.
func VerticalAt(x float64, height int) Line {
	return Line{P1: r2.Vec{X: x, Y: 0}, P2: r2.Vec{X: x, Y: float64(height)}}
}

// Polyline is an ordered sequence of points, normally running from the left
// end of a text line to the right end.
type Polyline []r2.Vec

// Front returns the first point. The polyline must be non-empty.
func (p Polyline) Front() r2.Vec { return p[0] }

// Back returns the last point. The polyline must be non-empty.
func (p Polyline) Back() r2.Vec { return p[len(p)-1] }

// Scaled returns a copy of the polyline with every point scaled
// component-wise.
func (p Polyline) Scaled(sx, sy float64) Polyline {
	out := make(Polyline, len(p))
	for i, pt := range p {
		out[i] = r2.Vec{X: pt.X * sx, Y: pt.Y * sy}
	}
	return out
}
