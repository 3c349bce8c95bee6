package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// ColumnInfo is one line of the structural summary.
type ColumnInfo struct {
	Position int
	Name     string
	NonNull  int
	Kind     Kind
}

// Info is the structural summary of a dataset.
type Info struct {
	Rows    int
	Index   string
	Columns []ColumnInfo
}

// Info returns the per-column kind and non-null count in column order.
func (d *Dataset) Info() *Info {
	in := &Info{Rows: d.rows, Index: d.Index, Columns: make([]ColumnInfo, len(d.Columns))}
	for i, c := range d.Columns {
		in.Columns[i] = ColumnInfo{Position: i, Name: c.Name, NonNull: c.NonNull(), Kind: c.Kind}
	}
	return in
}

// KindCounts summarizes how many columns have each kind, e.g. "float64(2), object(1)".
func (in *Info) KindCounts() string {
	counts := map[Kind]int{}
	for _, c := range in.Columns {
		counts[c.Kind]++
	}
	kinds := make([]string, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)
	parts := make([]string, len(kinds))
	for i, k := range kinds {
		parts[i] = fmt.Sprintf("%s(%d)", k, counts[Kind(k)])
	}
	return strings.Join(parts, ", ")
}

// Text renders the summary as a fixed-width block.
func (in *Info) Text() string {
	var b strings.Builder
	if in.Index != "" {
		b.WriteString(fmt.Sprintf("DatetimeIndex: %d entries (by %s)\n", in.Rows, in.Index))
	} else if in.Rows > 0 {
		b.WriteString(fmt.Sprintf("RangeIndex: %d entries, 0 to %d\n", in.Rows, in.Rows-1))
	} else {
		b.WriteString("RangeIndex: 0 entries\n")
	}
	b.WriteString(fmt.Sprintf("Data columns (total %d columns):\n", len(in.Columns)))
	nameW := len("Column")
	for _, c := range in.Columns {
		if len(c.Name) > nameW {
			nameW = len(c.Name)
		}
	}
	b.WriteString(fmt.Sprintf(" %-3s %-*s  %-14s  %s\n", "#", nameW, "Column", "Non-Null Count", "Dtype"))
	b.WriteString(fmt.Sprintf(" %-3s %-*s  %-14s  %s\n", "---", nameW, "------", "--------------", "-----"))
	for _, c := range in.Columns {
		nn := fmt.Sprintf("%d non-null", c.NonNull)
		b.WriteString(fmt.Sprintf(" %-3d %-*s  %-14s  %s\n", c.Position, nameW, safeVal(c.Name), nn, c.Kind))
	}
	b.WriteString(fmt.Sprintf("dtypes: %s\n", in.KindCounts()))
	return b.String()
}

// MissingCount is the number of null cells in one column.
type MissingCount struct {
	Column  string
	Missing int
}

// MissingCounts returns the null count of every column, zeros included.
func (d *Dataset) MissingCounts() []MissingCount {
	out := make([]MissingCount, len(d.Columns))
	for i, c := range d.Columns {
		out[i] = MissingCount{Column: c.Name, Missing: c.Missing()}
	}
	return out
}

// Summary holds descriptive statistics of one numeric column.
type Summary struct {
	Column string
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	Q25    float64
	Q50    float64
	Q75    float64
	Max    float64
}

// SummaryLabels names the statistics in display order.
var SummaryLabels = []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"}

// Values lists the statistics in SummaryLabels order.
func (s Summary) Values() []float64 {
	return []float64{float64(s.Count), s.Mean, s.Std, s.Min, s.Q25, s.Q50, s.Q75, s.Max}
}

// Describe computes descriptive statistics for numeric columns only. Statistics
// that are undefined for a column (e.g. std of a single value) are NaN.
func (d *Dataset) Describe() []Summary {
	var out []Summary
	for _, c := range d.NumericColumns() {
		out = append(out, summarize(c.Name, c.Values()))
	}
	return out
}

func summarize(name string, vals []float64) Summary {
	s := Summary{Column: name, Count: len(vals)}
	nan := math.NaN()
	if len(vals) == 0 {
		s.Mean, s.Std, s.Min, s.Q25, s.Q50, s.Q75, s.Max = nan, nan, nan, nan, nan, nan, nan
		return s
	}
	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)
	s.Mean = stat.Mean(sorted, nil)
	s.Std = nan
	if len(sorted) > 1 {
		s.Std = stat.StdDev(sorted, nil)
	}
	s.Min = sorted[0]
	s.Max = sorted[len(sorted)-1]
	s.Q25 = quantile(sorted, 0.25)
	s.Q50 = quantile(sorted, 0.50)
	s.Q75 = quantile(sorted, 0.75)
	return s
}

// CorrMatrix holds a symmetric Pearson correlation matrix across numeric columns.
type CorrMatrix struct {
	Columns []string
	Values  [][]float64 // row-major, Values[i][j]; NaN where undefined
}

// Correlate computes Pearson correlations between all numeric columns using
// pairwise-complete rows. A pair with fewer than two shared rows or zero
// variance yields NaN.
func (d *Dataset) Correlate() (*CorrMatrix, error) {
	cols := d.NumericColumns()
	if len(cols) == 0 {
		return nil, ErrNoNumericColumns
	}
	n := len(cols)
	m := &CorrMatrix{Columns: make([]string, n), Values: make([][]float64, n)}
	for i, c := range cols {
		m.Columns[i] = c.Name
		m.Values[i] = make([]float64, n)
	}
	for a := 0; a < n; a++ {
		for b := a; b < n; b++ {
			r := pairCorr(cols[a], cols[b])
			m.Values[a][b] = r
			m.Values[b][a] = r
		}
	}
	return m, nil
}

func pairCorr(x, y *Column) float64 {
	xs := make([]float64, 0, len(x.Nums))
	ys := make([]float64, 0, len(y.Nums))
	for i := range x.Nums {
		if x.Valid[i] && y.Valid[i] {
			xs = append(xs, x.Nums[i])
			ys = append(ys, y.Nums[i])
		}
	}
	if len(xs) < 2 {
		return math.NaN()
	}
	if stat.Variance(xs, nil) == 0 || stat.Variance(ys, nil) == 0 {
		return math.NaN()
	}
	r := stat.Correlation(xs, ys, nil)
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return r
}
