package plots

import (
	"fmt"
	"image/color"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/KaramelBytes/solardash/internal/analysis"
)

var (
	histFill = color.RGBA{R: 0x1f, G: 0x3f, B: 0xd6, A: 0x99}
	kdeColor = color.RGBA{B: 0xff, A: 0xff}
)

// Histogram draws the bucket counts of a distribution with its density curve
// overlaid.
func Histogram(dist *analysis.Distribution) ([]byte, error) {
	if dist == nil || len(dist.Bins) == 0 {
		return nil, fmt.Errorf("histogram: no buckets")
	}
	bins := make([]plotter.HistogramBin, len(dist.Bins))
	for i, b := range dist.Bins {
		bins[i] = plotter.HistogramBin{Min: b.Min, Max: b.Max, Weight: float64(b.Count)}
	}
	h := &plotter.Histogram{
		Bins:      bins,
		Width:     dist.Bins[0].Max - dist.Bins[0].Min,
		FillColor: histFill,
		LineStyle: plotter.DefaultLineStyle,
	}
	h.LineStyle.Color = color.White

	p := plot.New()
	p.Title.Text = "Distribution of " + dist.Column
	p.X.Label.Text = dist.Column
	p.Y.Label.Text = "Count"
	p.Add(h)
	if len(dist.KDE) > 0 {
		xys := make(plotter.XYs, len(dist.KDE))
		for i, pt := range dist.KDE {
			xys[i] = plotter.XY{X: pt.X, Y: pt.Y}
		}
		line, err := plotter.NewLine(xys)
		if err != nil {
			return nil, fmt.Errorf("density line: %w", err)
		}
		line.Color = kdeColor
		line.Width = vg.Points(1.5)
		p.Add(line)
	}
	return encode(p, 6.4*vg.Inch, 4.8*vg.Inch)
}
