// Package plots renders dashboard figures as PNG images.
package plots

import (
	"bytes"
	"fmt"
	"image/color"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"

	"github.com/KaramelBytes/solardash/internal/analysis"
)

// corrGrid adapts a correlation matrix to plotter.GridXYZ. Row 0 of the
// matrix is drawn at the top.
type corrGrid struct{ m *analysis.CorrMatrix }

func (g corrGrid) Dims() (c, r int) { n := len(g.m.Columns); return n, n }
func (g corrGrid) Z(c, r int) float64 {
	n := len(g.m.Columns)
	return g.m.Values[n-1-r][c]
}
func (g corrGrid) X(c int) float64 { return float64(c) }
func (g corrGrid) Y(r int) float64 { return float64(r) }

// Heatmap draws the correlation matrix on a fixed blue-red diverging scale
// over [-1, 1] with each cell annotated by its coefficient.
func Heatmap(m *analysis.CorrMatrix) ([]byte, error) {
	if m == nil || len(m.Columns) == 0 {
		return nil, analysis.ErrNoNumericColumns
	}
	n := len(m.Columns)
	cm := moreland.SmoothBlueRed()
	cm.SetMin(-1)
	cm.SetMax(1)

	hm := plotter.NewHeatMap(corrGrid{m}, cm.Palette(255))
	hm.Min, hm.Max = -1, 1
	hm.NaN = color.Gray{Y: 0xdd}

	var xys plotter.XYs
	var labels []string
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			v := m.Values[n-1-r][c]
			if math.IsNaN(v) {
				continue
			}
			xys = append(xys, plotter.XY{X: float64(c), Y: float64(r)})
			labels = append(labels, fmt.Sprintf("%.2f", v))
		}
	}

	p := plot.New()
	p.Title.Text = "Correlation Heatmap"
	p.Add(hm)
	if len(xys) > 0 {
		lbl, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
		if err != nil {
			return nil, fmt.Errorf("heatmap labels: %w", err)
		}
		for i := range lbl.TextStyle {
			lbl.TextStyle[i].XAlign = text.XCenter
			lbl.TextStyle[i].YAlign = text.YCenter
			lbl.TextStyle[i].Font.Size = vg.Points(9)
		}
		p.Add(lbl)
	}
	reversed := make([]string, n)
	for i, name := range m.Columns {
		reversed[n-1-i] = name
	}
	p.NominalX(m.Columns...)
	p.NominalY(reversed...)
	return encode(p, 10*vg.Inch, 6*vg.Inch)
}

// encode renders p as PNG bytes.
func encode(p *plot.Plot, w, h vg.Length) ([]byte, error) {
	wt, err := p.WriterTo(w, h, "png")
	if err != nil {
		return nil, fmt.Errorf("render png: %w", err)
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write png: %w", err)
	}
	return buf.Bytes(), nil
}
