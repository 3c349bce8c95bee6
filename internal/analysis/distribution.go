package analysis

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	// HistogramBins is the fixed bucket count of distribution plots.
	HistogramBins = 30
	kdeGridPoints = 200
)

// Bin is one histogram bucket covering [Min, Max); the last bucket also
// includes Max.
type Bin struct {
	Min, Max float64
	Count    int
}

// Point is one sample of a curve.
type Point struct {
	X, Y float64
}

// Distribution is a histogram with an optional density curve scaled to counts.
type Distribution struct {
	Column string
	N      int
	Bins   []Bin
	// KDE is nil when fewer than two values exist or all values are equal.
	KDE []Point
}

// Distribution buckets the non-null values of a numeric column and estimates
// a smoothed density over them.
func (d *Dataset) Distribution(name string, bins int) (*Distribution, error) {
	c, ok := d.Column(name)
	if !ok {
		return nil, &MissingColumnError{Column: name}
	}
	if !c.Kind.Numeric() {
		return nil, &KindError{Column: name, Kind: c.Kind, Want: "numeric"}
	}
	vals := c.Values()
	if len(vals) > 0 {
		lo, hi := floats.Min(vals), floats.Max(vals)
		if math.IsInf(lo, 0) || math.IsInf(hi, 0) || math.IsInf(hi-lo, 0) {
			return nil, fmt.Errorf("column %q: %w", name, ErrNonFiniteRange)
		}
	}
	hist := Histogram(vals, bins)
	dist := &Distribution{Column: name, N: len(vals), Bins: hist}
	if len(hist) > 0 {
		width := hist[0].Max - hist[0].Min
		dist.KDE = KDE(vals, hist[0].Min, hist[len(hist)-1].Max, kdeGridPoints, float64(len(vals))*width)
	}
	return dist, nil
}

// Histogram splits the value range into equal-width buckets. A degenerate range
// is widened by 0.5 on each side; no values yield buckets over [0, 1].
// Infinite values are not counted, and buckets span only the finite values.
func Histogram(vals []float64, bins int) []Bin {
	if bins <= 0 {
		bins = HistogramBins
	}
	finite := vals[:0:0]
	for _, v := range vals {
		if !math.IsInf(v, 0) && !math.IsNaN(v) {
			finite = append(finite, v)
		}
	}
	vals = finite
	lo, hi := 0.0, 1.0
	if len(vals) > 0 {
		lo, hi = floats.Min(vals), floats.Max(vals)
	}
	if lo == hi {
		lo -= 0.5
		hi += 0.5
	}
	edges := make([]float64, bins+1)
	floats.Span(edges, lo, hi)
	edges[bins] = hi
	out := make([]Bin, bins)
	for i := range out {
		out[i] = Bin{Min: edges[i], Max: edges[i+1]}
	}
	width := (hi - lo) / float64(bins)
	for _, v := range vals {
		f := (v - lo) / width
		i := bins - 1
		if f < float64(bins) {
			i = int(f)
		}
		if i < 0 {
			i = 0
		}
		// float rounding can land a value one bucket off its edge
		for i > 0 && v < edges[i] {
			i--
		}
		for i < bins-1 && v >= edges[i+1] {
			i++
		}
		out[i].Count++
	}
	return out
}

// KDE evaluates a Gaussian kernel density estimate with Scott's bandwidth on
// an evenly spaced grid over [lo, hi], multiplied by scale.
func KDE(vals []float64, lo, hi float64, points int, scale float64) []Point {
	n := len(vals)
	if n < 2 || points < 2 {
		return nil
	}
	sd := stat.StdDev(vals, nil)
	if sd == 0 || math.IsNaN(sd) {
		return nil
	}
	bw := sd * math.Pow(float64(n), -1.0/5.0)
	norm := scale / (float64(n) * bw * math.Sqrt(2*math.Pi))
	xs := make([]float64, points)
	floats.Span(xs, lo, hi)
	out := make([]Point, points)
	for i, x := range xs {
		var sum float64
		for _, v := range vals {
			z := (x - v) / bw
			sum += math.Exp(-0.5 * z * z)
		}
		out[i] = Point{X: x, Y: sum * norm}
	}
	return out
}
