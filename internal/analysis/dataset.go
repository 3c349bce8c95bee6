package analysis

import (
	"sort"
	"strconv"
	"strings"
	"time"
)

// Kind is the inferred storage type of a column.
type Kind string

const (
	KindInt64    Kind = "int64"
	KindFloat64  Kind = "float64"
	KindBool     Kind = "bool"
	KindObject   Kind = "object"
	KindDatetime Kind = "datetime64[ns]"
)

// Numeric reports whether statistics and correlations apply to the kind.
func (k Kind) Numeric() bool { return k == KindInt64 || k == KindFloat64 }

// Column holds one named column. Raw keeps the cell text as uploaded; Valid is
// the non-null mask. Nums is set for numeric kinds and Times for datetimes.
type Column struct {
	Name  string
	Kind  Kind
	Raw   []string
	Valid []bool
	Nums  []float64
	Times []time.Time
}

// NonNull counts the valid cells.
func (c *Column) NonNull() int {
	n := 0
	for _, ok := range c.Valid {
		if ok {
			n++
		}
	}
	return n
}

// Missing counts the null cells.
func (c *Column) Missing() int { return len(c.Valid) - c.NonNull() }

// Values returns the non-null numeric values in row order.
func (c *Column) Values() []float64 {
	if !c.Kind.Numeric() {
		return nil
	}
	out := make([]float64, 0, len(c.Nums))
	for i, v := range c.Nums {
		if c.Valid[i] {
			out = append(out, v)
		}
	}
	return out
}

// Cell formats row i for display.
func (c *Column) Cell(i int) string {
	if !c.Valid[i] {
		if c.Kind == KindDatetime {
			return "NaT"
		}
		if c.Kind == KindObject {
			return "None"
		}
		return "NaN"
	}
	switch c.Kind {
	case KindFloat64:
		return strconv.FormatFloat(c.Nums[i], 'f', -1, 64)
	case KindInt64:
		// Nums loses precision past 2^53
		if n, err := strconv.ParseInt(strings.TrimSpace(c.Raw[i]), 10, 64); err == nil {
			return strconv.FormatInt(n, 10)
		}
		return strconv.FormatInt(int64(c.Nums[i]), 10)
	case KindDatetime:
		return c.Times[i].Format("2006-01-02 15:04:05")
	case KindBool:
		if b, _ := parseBool(strings.TrimSpace(c.Raw[i])); b {
			return "True"
		}
		return "False"
	default:
		return c.Raw[i]
	}
}

// permute reorders every per-row slice of the column.
func (c *Column) permute(order []int) {
	raw := make([]string, len(order))
	valid := make([]bool, len(order))
	for dst, src := range order {
		raw[dst] = c.Raw[src]
		valid[dst] = c.Valid[src]
	}
	c.Raw, c.Valid = raw, valid
	if c.Nums != nil {
		nums := make([]float64, len(order))
		for dst, src := range order {
			nums[dst] = c.Nums[src]
		}
		c.Nums = nums
	}
	if c.Times != nil {
		times := make([]time.Time, len(order))
		for dst, src := range order {
			times[dst] = c.Times[src]
		}
		c.Times = times
	}
}

// Dataset is the in-memory table parsed from one upload.
type Dataset struct {
	Name    string
	Columns []*Column
	// Index names the column the rows are ordered by, if any.
	Index string
	// Truncated counts rows skipped because of Options.MaxRows.
	Truncated int
	Warnings  []string

	rows int
}

// Shape returns the row and column counts.
func (d *Dataset) Shape() (rows, cols int) { return d.rows, len(d.Columns) }

// Rows returns the row count.
func (d *Dataset) Rows() int { return d.rows }

// Column looks a column up by its exact name.
func (d *Dataset) Column(name string) (*Column, bool) {
	for _, c := range d.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// Names lists column names in order.
func (d *Dataset) Names() []string {
	out := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		out[i] = c.Name
	}
	return out
}

// NumericColumns returns the int64/float64 columns in order.
func (d *Dataset) NumericColumns() []*Column {
	var out []*Column
	for _, c := range d.Columns {
		if c.Kind.Numeric() {
			out = append(out, c)
		}
	}
	return out
}

// Head returns up to n leading rows formatted for display.
func (d *Dataset) Head(n int) [][]string {
	if n > d.rows {
		n = d.rows
	}
	if n < 0 {
		n = 0
	}
	out := make([][]string, n)
	for i := 0; i < n; i++ {
		row := make([]string, len(d.Columns))
		for j, c := range d.Columns {
			row[j] = c.Cell(i)
		}
		out[i] = row
	}
	return out
}

// SortBy stably reorders all rows by the given less function over row indexes.
func (d *Dataset) SortBy(less func(a, b int) bool) {
	order := make([]int, d.rows)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(i, j int) bool { return less(order[i], order[j]) })
	for _, c := range d.Columns {
		c.permute(order)
	}
}
