package visual

import (
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/uliss/scantailor/internal/geom"
)

// BaselineChart renders the traced baselines as an XY chart and writes it as
// a PNG. The Y axis is flipped so the chart reads like the page: the first
// baseline appears at the top.
func BaselineChart(polylines []geom.Polyline, w io.Writer) error {
	if len(polylines) == 0 {
		return fmt.Errorf("visual: no polylines to chart")
	}

	series := make([]chart.Series, 0, len(polylines))
	for i, pl := range polylines {
		xs := make([]float64, len(pl))
		ys := make([]float64, len(pl))
		for j, pt := range pl {
			xs[j] = pt.X
			ys[j] = -pt.Y
		}
		series = append(series, chart.ContinuousSeries{
			Name:    fmt.Sprintf("line %d", i+1),
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: chart.GetDefaultColor(i),
				StrokeWidth: 2,
			},
		})
	}

	graph := chart.Chart{
		Title:  "Traced baselines",
		Width:  1200,
		Height: 600,
		XAxis:  chart.XAxis{Name: "x (px)"},
		YAxis:  chart.YAxis{Name: "-y (px)"},
		Series: series,
	}

	return graph.Render(chart.PNG, w)
}
