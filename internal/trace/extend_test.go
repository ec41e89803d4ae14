package trace

import (
	"image"
	"testing"

	"github.com/uliss/scantailor/internal/geom"
)

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// lineFixture builds a page whose only text line is the dark row at y=5.
func lineFixture(w, h int) (content, blurred, mask *image.Gray) {
	blurred = uniformGray(w, h, 200)
	content = image.NewGray(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		blurred.Pix[5*blurred.Stride+x] = 50
		content.Pix[5*content.Stride+x] = 255
	}
	return content, blurred, fullMask(w, h)
}

func TestMaskTracerFollowsDarkRow(t *testing.T) {
	const w, h = 40, 11
	tracer := NewMaskTracer(lineFixture(w, h))

	pts := tracer.TraceTowards(image.Pt(20, 5), geom.VerticalAt(0, h), 30)
	if len(pts) == 0 {
		t.Fatal("no extension points")
	}
	for _, pt := range pts {
		if pt.Y != 5 {
			t.Errorf("point %v strayed off the dark row", pt)
		}
	}
	if last := pts[len(pts)-1]; last.X != 0 {
		t.Errorf("extension stopped at %v, want x=0", last)
	}
}

func TestMaskTracerStopsOffMask(t *testing.T) {
	const w, h = 40, 11
	content, blurred, mask := lineFixture(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < 10; x++ {
			mask.Pix[y*mask.Stride+x] = 0
		}
	}
	tracer := NewMaskTracer(content, blurred, mask)

	pts := tracer.TraceTowards(image.Pt(20, 5), geom.VerticalAt(0, h), 30)
	for _, pt := range pts {
		if pt.X < 10 {
			t.Errorf("point %v lies outside the mask", pt)
		}
	}
}

func TestMaskTracerRespectsBudget(t *testing.T) {
	const w, h = 200, 11
	tracer := NewMaskTracer(lineFixture(w, h))

	start := image.Pt(150, 5)
	pts := tracer.TraceTowards(start, geom.VerticalAt(0, h), 30)

	walked := 0.0
	prev := start
	for _, pt := range pts {
		walked += float64(absInt(pt.X-prev.X)) + float64(absInt(pt.Y-prev.Y))
		prev = pt
	}
	// One step may overshoot the remaining budget, but never by more than
	// a step length.
	if walked > 30+8 {
		t.Errorf("walked %v pixels, budget was 30", walked)
	}
}

func TestExtendTowardsBounds(t *testing.T) {
	const w, h = 40, 11
	tracer := NewMaskTracer(lineFixture(w, h))

	in := geom.Polyline{{X: 20, Y: 5}, {X: 30, Y: 5}}
	out := extendTowardsBounds(in, geom.VerticalAt(0, h), geom.VerticalAt(w-1, h), tracer, 30)

	if len(out) <= len(in) {
		t.Fatalf("polyline not extended: %v", out)
	}
	if out.Front().X != 0 {
		t.Errorf("head = %v, want x=0", out.Front())
	}
	if out.Back().X != w-1 {
		t.Errorf("tail = %v, want x=%d", out.Back(), w-1)
	}
	for i := 1; i < len(out); i++ {
		if out[i].X <= out[i-1].X {
			t.Errorf("points not increasing in x at %d: %v", i, out)
		}
	}
}

func TestExtendReversedPolylineMatchesBounds(t *testing.T) {
	const w, h = 40, 11
	tracer := NewMaskTracer(lineFixture(w, h))

	// Runs right to left; bound matching must notice and extend the front
	// toward the right bound instead of the left one.
	in := geom.Polyline{{X: 30, Y: 5}, {X: 20, Y: 5}}
	out := extendTowardsBounds(in, geom.VerticalAt(0, h), geom.VerticalAt(w-1, h), tracer, 30)

	if out.Front().X < in.Front().X {
		t.Errorf("front %v extended toward the wrong bound", out.Front())
	}
	if out.Back().X > in.Back().X {
		t.Errorf("back %v extended toward the wrong bound", out.Back())
	}
}

func TestExtendEmptyPolyline(t *testing.T) {
	tracer := NewMaskTracer(lineFixture(10, 11))
	if out := extendTowardsBounds(nil, geom.VerticalAt(0, 11), geom.VerticalAt(9, 11), tracer, 30); len(out) != 0 {
		t.Errorf("empty polyline grew points: %v", out)
	}
}
