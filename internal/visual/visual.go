// Package visual renders intermediate tracer state for debugging: region
// maps, polyline overlays and baseline charts.
package visual

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"
	"os"
	"path/filepath"
	"sync"

	"github.com/lucasb-eyer/go-colorful"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/uliss/scantailor/internal/geom"
	"github.com/uliss/scantailor/internal/grid"
)

// Sink receives named intermediate images from a trace, in pipeline order.
type Sink interface {
	Add(img image.Image, name string)
}

// DirSink writes every image it receives as a numbered PNG into a directory.
// Safe for concurrent use.
type DirSink struct {
	dir string

	mu  sync.Mutex
	seq int
	err error
}

// NewDirSink creates dir if needed and returns a sink writing into it.
func NewDirSink(dir string) (*DirSink, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("visual: create debug dir: %w", err)
	}
	return &DirSink{dir: dir}, nil
}

// Add writes img as NN-name.png. Write errors are remembered and reported
// by Err rather than interrupting the trace.
func (s *DirSink) Add(img image.Image, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq++
	path := filepath.Join(s.dir, fmt.Sprintf("%02d-%s.png", s.seq, name))

	f, err := os.Create(path)
	if err != nil {
		s.err = err
		return
	}
	if err := png.Encode(f, img); err != nil && s.err == nil {
		s.err = err
	}
	if err := f.Close(); err != nil && s.err == nil {
		s.err = err
	}
}

// Err returns the first write error encountered, if any.
func (s *DirSink) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// RegionMap renders a labeled grid with one distinct color per region.
// Unlabeled cells stay transparent.
func RegionMap(g *grid.Grid) *image.RGBA {
	w, h := g.Width(), g.Height()
	out := image.NewRGBA(image.Rect(0, 0, w, h))

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			n := g.At(x, y)
			if !n.HasRegion() {
				continue
			}
			out.Set(x, y, regionColor(n.Region()))
		}
	}
	return out
}

// regionColor spreads region hues around the color wheel with a large prime
// stride so adjacent labels get visibly different colors.
func regionColor(idx uint32) color.Color {
	hue := float64((idx * 137) % 360)
	return colorful.Hsv(hue, 0.9, 0.9)
}

// Overlay draws polylines (blue) and bound lines (red) over a copy of base.
func Overlay(base image.Image, polylines []geom.Polyline, bounds ...geom.Line) *image.RGBA {
	b := base.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), base, b.Min, draw.Src)

	blue := color.RGBA{B: 255, A: 255}
	for _, pl := range polylines {
		for i := 0; i+1 < len(pl); i++ {
			drawSegment(out, pl[i], pl[i+1], blue)
		}
		for _, pt := range pl {
			drawDot(out, pt, blue)
		}
	}

	red := color.RGBA{R: 255, A: 255}
	for _, l := range bounds {
		drawSegment(out, l.P1, l.P2, red)
	}
	return out
}

// drawSegment rasterizes a line segment with Bresenham's algorithm.
func drawSegment(img *image.RGBA, a, b r2.Vec, c color.Color) {
	x0, y0 := int(math.Round(a.X)), int(math.Round(a.Y))
	x1, y1 := int(math.Round(b.X)), int(math.Round(b.Y))

	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		img.Set(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func drawDot(img *image.RGBA, pt r2.Vec, c color.Color) {
	x, y := int(math.Round(pt.X)), int(math.Round(pt.Y))
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			img.Set(x+dx, y+dy, c)
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
