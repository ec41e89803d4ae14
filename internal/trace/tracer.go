package trace

import (
	"context"
	"fmt"
	"image"
	"math"

	"github.com/uliss/scantailor/internal/geom"
	"github.com/uliss/scantailor/internal/imageproc"
	"github.com/uliss/scantailor/internal/visual"
)

// Dpi is the input image resolution in pixels per inch, per axis.
type Dpi struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Input carries everything a trace consumes. Bounds are the page's left and
// right content-boundary lines, in the same (original) pixel space as Image.
type Input struct {
	Image      *image.Gray
	DPI        Dpi
	LeftBound  geom.Line
	RightBound geom.Line
}

// Result is the trace output for the distortion-model builder: the bound
// lines (re-expressed in original coordinates) and the traced baselines,
// each an ordered point sequence in original coordinates.
type Result struct {
	LeftBound  geom.Line       `json:"left_bound"`
	RightBound geom.Line       `json:"right_bound"`
	Polylines  []geom.Polyline `json:"polylines"`
}

// Params are the tracer's tuning knobs. The defaults are calibrated for the
// ~200 DPI working resolution and should rarely need changing.
type Params struct {
	// PeakWindowW/H is the neighborhood within which a region seed must be
	// the darkest pixel. Wide and short, like a piece of a text line.
	PeakWindowW int
	PeakWindowH int

	// SeedDilationRadius merges seed peaks closer than roughly twice this
	// radius into one region seed.
	SeedDilationRadius float64

	// BlurSigmaH/V are the anisotropic Gaussian sigmas applied before peak
	// detection and growing.
	BlurSigmaH float64
	BlurSigmaV float64

	// ErodeRadius and MaskDelta control the thick mask: a pixel is masked
	// when eroding dark content within ErodeRadius lightens it by more than
	// MaskDelta gray levels.
	ErodeRadius float64
	MaskDelta   uint8

	// BinarizeWindow and BinarizeK parameterize Sauvola binarization of the
	// downscaled page (used by polyline extension).
	BinarizeWindow int
	BinarizeK      float64

	// CollinearityToleranceDeg is the maximum bend, at a shared region,
	// between two adjacency edges that still counts as "continuing the same
	// text line".
	CollinearityToleranceDeg float64

	// CurvatureToleranceDeg is the bend angle beyond which a polyline joint
	// counts as significantly curved in the curvature filter.
	CurvatureToleranceDeg float64

	// MaxExtension caps, in working-resolution pixels, how far each
	// polyline end may grow toward its vertical bound.
	MaxExtension float64
}

// DefaultParams returns the standard parameter set.
func DefaultParams() Params {
	return Params{
		PeakWindowW:              31,
		PeakWindowH:              15,
		SeedDilationRadius:       4,
		BlurSigmaH:               17,
		BlurSigmaV:               5,
		ErodeRadius:              15,
		MaskDelta:                8,
		BinarizeWindow:           31,
		BinarizeK:                0.34,
		CollinearityToleranceDeg: 15,
		CurvatureToleranceDeg:    6,
		MaxExtension:             30,
	}
}

// Tracer runs text-line traces. A single Tracer may be reused; every Trace
// call owns its own grid, regions and graph, so concurrent calls on one
// Tracer are safe as long as Extender, Refiner and Debug are.
type Tracer struct {
	Params Params

	// Extender grows polyline ends toward the vertical bounds. When nil a
	// mask-guided tracer built from the trace's own intermediate images is
	// used.
	Extender BoundTracer

	// Refiner, when set, is given the chance to improve the polylines
	// against the downscaled image before the final curvature filter.
	Refiner Refiner

	// Debug, when set, receives intermediate images.
	Debug visual.Sink
}

// Refiner iteratively improves baseline polylines against the image.
// Implementations are external to this package.
type Refiner interface {
	Refine(ctx context.Context, downscaled *image.Gray, polylines []geom.Polyline) []geom.Polyline
}

// New returns a Tracer with the given parameters.
func New(params Params) *Tracer {
	return &Tracer{Params: params}
}

// Trace locates text-line baselines in the input page.
//
// It returns an error for malformed input (nil or empty image, non-positive
// DPI, degenerate bound lines) and for context cancellation; algorithmic
// dead ends (no peaks, no left-to-right paths) yield an empty polyline set
// instead.
func (t *Tracer) Trace(ctx context.Context, in Input) (*Result, error) {
	if in.Image == nil || in.Image.Bounds().Empty() {
		return nil, fmt.Errorf("trace: nil or empty input image")
	}
	if in.DPI.X <= 0 || in.DPI.Y <= 0 {
		return nil, fmt.Errorf("trace: non-positive dpi %dx%d", in.DPI.X, in.DPI.Y)
	}
	if isDegenerate(in.LeftBound) || isDegenerate(in.RightBound) {
		return nil, fmt.Errorf("trace: degenerate bound line")
	}

	// Phase 1: preprocessing.
	src := in.Image
	if src.Bounds().Min != (image.Point{}) {
		src = imageproc.ToGray(src)
	}
	downscaled := imageproc.Downscale(src, in.DPI.X, in.DPI.Y)
	t.debug("downscaled", func() image.Image { return downscaled })

	db := downscaled.Bounds()
	fx := float64(db.Dx()) / float64(src.Bounds().Dx())
	fy := float64(db.Dy()) / float64(src.Bounds().Dy())
	leftBound := in.LeftBound.Scaled(fx, fy)
	rightBound := in.RightBound.Scaled(fx, fy)

	binarized := imageproc.Binarize(downscaled, t.Params.BinarizeWindow, t.Params.BinarizeK)
	t.debug("binarized", func() image.Image { return binarized })

	blurred := imageproc.GaussBlur(
		imageproc.StretchGrayRange(downscaled),
		t.Params.BlurSigmaH, t.Params.BlurSigmaV,
	)
	t.debug("blurred", func() image.Image { return blurred })

	eroded := imageproc.ErodeContent(blurred, t.Params.ErodeRadius)
	mask := imageproc.ThickMask(blurred, eroded, t.Params.MaskDelta)
	t.debug("thick_mask", func() image.Image { return mask })

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Phase 2: segmentation (seed, grow, graph, solve, extract).
	polylines := t.segment(blurred, mask, leftBound, rightBound)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Phase 3: extension, refinement and filtering.
	extender := t.Extender
	if extender == nil {
		extender = NewMaskTracer(binarized, blurred, mask)
	}
	for i, pl := range polylines {
		polylines[i] = extendTowardsBounds(pl, leftBound, rightBound, extender, t.Params.MaxExtension)
	}
	t.debug("extended", func() image.Image {
		return visual.Overlay(blurred, polylines, leftBound, rightBound)
	})

	polylines = filterOutOfBounds(polylines, leftBound, rightBound)

	if t.Refiner != nil {
		polylines = t.Refiner.Refine(ctx, downscaled, polylines)
	}

	polylines = filterInconsistentCurvature(polylines, t.Params.CurvatureToleranceDeg)
	t.debug("traced", func() image.Image {
		return visual.Overlay(blurred, polylines, leftBound, rightBound)
	})

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Phase 4: map everything back to original coordinates.
	out := &Result{
		LeftBound:  in.LeftBound,
		RightBound: in.RightBound,
		Polylines:  make([]geom.Polyline, 0, len(polylines)),
	}
	for _, pl := range polylines {
		out.Polylines = append(out.Polylines, pl.Scaled(1/fx, 1/fy))
	}
	return out, nil
}

// segment runs seeding, region growing and the graph solve, returning
// baseline polylines in working (downscaled) coordinates.
func (t *Tracer) segment(blurred, mask *image.Gray, left, right geom.Line) []geom.Polyline {
	seeds := imageproc.FindPeaks(blurred, t.Params.PeakWindowW, t.Params.PeakWindowH)
	seeds = imageproc.RestrictToMask(seeds, mask)
	seeds = imageproc.DilateBinary(seeds, t.Params.SeedDilationRadius)
	t.debug("region_seeds", func() image.Image { return seeds })

	regions := initRegions(seeds)
	if len(regions) == 0 {
		return nil
	}

	g := newLabeledGrid(blurred, mask)
	growRegions(g, regions)
	distanceTransform(g)
	t.debug("regions", func() image.Image { return visual.RegionMap(g) })

	markBoundaryRegions(regions, g, left, right)

	edges := collectEdges(g, mask)
	nodes := buildEdgeGraph(edges, regions, t.Params.CollinearityToleranceDeg)
	solvePaths(nodes, regions)
	paths := extractPaths(nodes, regions)
	return pathsToPolylines(paths, nodes, regions)
}

// debug hands an intermediate image to the sink. The image is produced by a
// closure so that overlay and region-map rendering is skipped entirely when
// no sink is attached.
func (t *Tracer) debug(name string, render func() image.Image) {
	if t.Debug == nil {
		return
	}
	t.Debug.Add(render(), name)
}

func isDegenerate(l geom.Line) bool {
	d := l.Delta()
	return math.Abs(d.X) < 1e-9 && math.Abs(d.Y) < 1e-9
}
