package trace

import (
	"testing"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/uliss/scantailor/internal/geom"
)

func pl(pts ...r2.Vec) geom.Polyline { return geom.Polyline(pts) }

func TestInsideBounds(t *testing.T) {
	left := geom.VerticalAt(5, 100)
	right := geom.VerticalAt(20, 100)

	cases := []struct {
		pt   r2.Vec
		want bool
	}{
		{r2.Vec{X: 10, Y: 50}, true},
		{r2.Vec{X: 5, Y: 0}, true},
		{r2.Vec{X: 20, Y: 99}, true},
		{r2.Vec{X: 4, Y: 50}, false},
		{r2.Vec{X: 21, Y: 50}, false},
	}
	for _, tc := range cases {
		if got := insideBounds(tc.pt, left, right); got != tc.want {
			t.Errorf("insideBounds(%v) = %v, want %v", tc.pt, got, tc.want)
		}
	}
}

func TestFilterOutOfBounds(t *testing.T) {
	left := geom.VerticalAt(5, 100)
	right := geom.VerticalAt(20, 100)

	inside := pl(r2.Vec{X: 8, Y: 10}, r2.Vec{X: 18, Y: 10})
	halfOut := pl(r2.Vec{X: 0, Y: 20}, r2.Vec{X: 15, Y: 20})
	bothOut := pl(r2.Vec{X: 0, Y: 30}, r2.Vec{X: 25, Y: 30})

	got := filterOutOfBounds([]geom.Polyline{inside, halfOut, bothOut}, left, right)
	if len(got) != 2 {
		t.Fatalf("kept %d polylines, want 2", len(got))
	}
	if got[0].Front() != inside.Front() || got[1].Front() != halfOut.Front() {
		t.Errorf("kept wrong polylines: %v", got)
	}
}

func TestConsistentCurvatureDegenerate(t *testing.T) {
	if consistentCurvature(nil, 6) {
		t.Error("empty polyline accepted")
	}
	if consistentCurvature(pl(r2.Vec{X: 1, Y: 1}), 6) {
		t.Error("one-point polyline accepted")
	}
	// Two points have no curvature and always pass.
	if !consistentCurvature(pl(r2.Vec{}, r2.Vec{X: 0, Y: 100}), 6) {
		t.Error("two-point polyline rejected")
	}
}

func TestCurvatureFlags(t *testing.T) {
	straight := pl(r2.Vec{}, r2.Vec{X: 10}, r2.Vec{X: 20}, r2.Vec{X: 30})
	if pos, neg := curvatureFlags(straight, 6); pos || neg {
		t.Errorf("straight line flagged: pos=%v neg=%v", pos, neg)
	}

	// Up then down: one significant bend of each sign.
	mixed := pl(r2.Vec{}, r2.Vec{X: 10}, r2.Vec{X: 20, Y: 5}, r2.Vec{X: 30})
	if pos, neg := curvatureFlags(mixed, 6); !pos || !neg {
		t.Errorf("mixed bends: pos=%v neg=%v, want both", pos, neg)
	}
}

func TestFilterInconsistentCurvature(t *testing.T) {
	straight := pl(r2.Vec{}, r2.Vec{X: 10}, r2.Vec{X: 20})
	// Bends up and back down: significant bends of both signs.
	mixed := pl(r2.Vec{}, r2.Vec{X: 10}, r2.Vec{X: 20, Y: 5}, r2.Vec{X: 30})
	// Bends downward twice: one sign only, genuine page curvature.
	oneway := pl(r2.Vec{}, r2.Vec{X: 10}, r2.Vec{X: 20, Y: 2}, r2.Vec{X: 30, Y: 6})
	degenerate := pl(r2.Vec{X: 3, Y: 3})

	got := filterInconsistentCurvature(
		[]geom.Polyline{straight, mixed, oneway, degenerate}, 6)

	if len(got) != 2 {
		t.Fatalf("kept %d polylines, want 2", len(got))
	}
	if len(got[0]) != 3 || got[1].Back() != oneway.Back() {
		t.Errorf("kept wrong polylines: %v", got)
	}
}
