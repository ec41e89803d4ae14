package visual

import (
	"bytes"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/uliss/scantailor/internal/geom"
	"github.com/uliss/scantailor/internal/grid"
)

func TestRegionMap(t *testing.T) {
	g := grid.New(4, 3)
	g.At(1, 1).SetRegion(0)
	g.At(3, 2).SetRegion(7)

	img := RegionMap(g)

	if _, _, _, a := img.At(0, 0).RGBA(); a != 0 {
		t.Error("unlabeled cell not transparent")
	}
	if _, _, _, a := img.At(1, 1).RGBA(); a == 0 {
		t.Error("labeled cell transparent")
	}

	r1, g1, b1, _ := img.At(1, 1).RGBA()
	r2c, g2, b2, _ := img.At(3, 2).RGBA()
	if r1 == r2c && g1 == g2 && b1 == b2 {
		t.Error("distinct regions share a color")
	}
}

func TestOverlayDrawsPolylinesAndBounds(t *testing.T) {
	base := image.NewGray(image.Rect(0, 0, 20, 20))
	pl := geom.Polyline{{X: 2, Y: 10}, {X: 18, Y: 10}}

	out := Overlay(base, []geom.Polyline{pl}, geom.VerticalAt(5, 20))

	if r, _, b, _ := out.At(10, 10).RGBA(); b == 0 || r != 0 {
		t.Error("polyline pixel not blue")
	}
	if r, _, _, _ := out.At(5, 3).RGBA(); r == 0 {
		t.Error("bound pixel not red")
	}
}

func TestDirSink(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "dbg")
	sink, err := NewDirSink(dir)
	if err != nil {
		t.Fatal(err)
	}

	img := image.NewGray(image.Rect(0, 0, 2, 2))
	sink.Add(img, "first")
	sink.Add(img, "second")
	if err := sink.Err(); err != nil {
		t.Fatalf("sink error: %v", err)
	}

	for _, name := range []string{"01-first.png", "02-second.png"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
}

func TestBaselineChart(t *testing.T) {
	polylines := []geom.Polyline{
		{{X: 0, Y: 10}, {X: 50, Y: 12}, {X: 100, Y: 10}},
		{{X: 0, Y: 40}, {X: 100, Y: 42}},
	}

	var buf bytes.Buffer
	if err := BaselineChart(polylines, &buf); err != nil {
		t.Fatalf("BaselineChart: %v", err)
	}
	if buf.Len() == 0 {
		t.Error("empty chart output")
	}

	if err := BaselineChart(nil, &buf); err == nil {
		t.Error("empty polyline set accepted")
	}
}
