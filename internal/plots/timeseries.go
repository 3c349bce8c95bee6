package plots

import (
	"bytes"
	"fmt"
	"time"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/KaramelBytes/solardash/internal/analysis"
)

const (
	seriesWidth  = 1152
	seriesHeight = 576
)

// TimeSeries draws value against time as a single line. Points are expected
// in time order. A series with no points renders a placeholder image.
func TimeSeries(column string, points []analysis.TimePoint) ([]byte, error) {
	if len(points) == 0 {
		return Placeholder(seriesWidth, seriesHeight, "No "+column+" values with a valid timestamp")
	}
	xs := make([]time.Time, len(points))
	ys := make([]float64, len(points))
	tMin, tMax := points[0].Time, points[0].Time
	yMin, yMax := points[0].Value, points[0].Value
	for i, p := range points {
		xs[i], ys[i] = p.Time, p.Value
		if p.Time.Before(tMin) {
			tMin = p.Time
		}
		if p.Time.After(tMax) {
			tMax = p.Time
		}
		if p.Value < yMin {
			yMin = p.Value
		}
		if p.Value > yMax {
			yMax = p.Value
		}
	}
	// a single point needs a second one to draw a segment
	if len(points) == 1 {
		xs = append(xs, xs[0].Add(time.Second))
		ys = append(ys, ys[0])
	}

	ch := chart.Chart{
		Title:  "Time Series of " + column,
		Width:  seriesWidth,
		Height: seriesHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		XAxis: chart.XAxis{
			Name:           "Timestamp",
			ValueFormatter: chart.TimeValueFormatterWithFormat(timeLayout(tMax.Sub(tMin))),
		},
		YAxis: chart.YAxis{Name: column + " (W/m²)"},
		Series: []chart.Series{
			chart.TimeSeries{
				Name:    column,
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: drawing.ColorFromHex("ff7f0e"),
					StrokeWidth: 1.5,
				},
			},
		},
	}
	if !tMax.After(tMin) {
		ch.XAxis.Range = &chart.ContinuousRange{
			Min: chart.TimeToFloat64(tMin.Add(-time.Minute)),
			Max: chart.TimeToFloat64(tMin.Add(time.Minute)),
		}
	}
	if yMax == yMin {
		ch.YAxis.Range = &chart.ContinuousRange{Min: yMin - 1, Max: yMax + 1}
	}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render time series: %w", err)
	}
	return buf.Bytes(), nil
}

func timeLayout(span time.Duration) string {
	switch {
	case span <= 36*time.Hour:
		return "01-02 15:04"
	case span <= 180*24*time.Hour:
		return "2006-01-02"
	default:
		return "2006-01"
	}
}
