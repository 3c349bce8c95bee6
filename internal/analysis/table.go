package analysis

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"
)

// Options controls how an uploaded table is decoded.
type Options struct {
	// MaxRows limits rows loaded; 0 means unlimited.
	MaxRows int
	// PreviewRows determines how many leading rows the preview shows.
	PreviewRows int
	// Delimiter for CSV. If 0, ',' is used.
	Delimiter rune
	// Sheet selects the worksheet of spreadsheet uploads; empty means the first.
	Sheet string
	// Numeric parsing locale. If DecimalSeparator is 0, '.' is assumed.
	DecimalSeparator   rune
	ThousandsSeparator rune // optional; if 0, no thousands separator is stripped
}

// DefaultOptions returns reasonable defaults for dataset loading.
func DefaultOptions() Options {
	return Options{
		PreviewRows: 5,
		Delimiter:   ',',
	}
}

// naTokens are cell values read as missing, matching the usual CSV reader conventions.
var naTokens = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

// IsMissing reports whether a raw cell is treated as null.
func IsMissing(raw string) bool {
	_, ok := naTokens[strings.TrimSpace(raw)]
	return ok
}

// LoadCSV decodes delimited text into a Dataset. Any malformed content is
// returned as a *ParseError.
func LoadCSV(src io.Reader, name string, opt Options) (*Dataset, error) {
	delim := opt.Delimiter
	if delim == 0 {
		delim = ','
	}
	r := csv.NewReader(src)
	r.FieldsPerRecord = -1
	r.TrimLeadingSpace = true
	r.Comma = delim

	// Read header
	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &ParseError{Line: 1, Err: ErrNoColumns}
		}
		return nil, wrapCSVError(1, err)
	}
	ds, err := newDataset(name, header)
	if err != nil {
		return nil, err
	}
	ncol := len(ds.Columns)
	maxRows := opt.MaxRows
	if maxRows <= 0 {
		maxRows = math.MaxInt
	}
	line := 1
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, wrapCSVError(line+1, err)
		}
		line, _ = r.FieldPos(0)
		if len(rec) > ncol {
			return nil, &ParseError{Line: line, Err: fmt.Errorf("expected %d fields, saw %d", ncol, len(rec))}
		}
		ds.addRow(rec, maxRows)
	}
	ds.finish(opt)
	return ds, nil
}

// newDataset creates empty columns for a header row. A leading UTF-8 byte
// order mark is dropped from the first name.
func newDataset(name string, header []string) (*Dataset, error) {
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	if len(header) == 0 || (len(header) == 1 && strings.TrimSpace(header[0]) == "") {
		return nil, &ParseError{Line: 1, Err: ErrNoColumns}
	}
	ds := &Dataset{Name: name}
	ds.Columns = make([]*Column, len(header))
	for i, n := range uniqueNames(header) {
		ds.Columns[i] = &Column{Name: n}
	}
	return ds, nil
}

// addRow appends rec, padding short records with empty cells. Rows past
// maxRows are only counted.
func (d *Dataset) addRow(rec []string, maxRows int) {
	if d.rows >= maxRows {
		d.Truncated++
		return
	}
	for j, c := range d.Columns {
		v := ""
		if j < len(rec) {
			v = rec[j]
		}
		c.Raw = append(c.Raw, v)
	}
	d.rows++
}

func (d *Dataset) finish(opt Options) {
	if d.Truncated > 0 {
		d.Warnings = append(d.Warnings, fmt.Sprintf("loaded only %d/%d rows due to MaxRows", d.rows, d.rows+d.Truncated))
	}
	for _, c := range d.Columns {
		c.infer(opt)
	}
}

func wrapCSVError(line int, err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &ParseError{Line: pe.Line, Err: pe.Err}
	}
	return &ParseError{Line: line, Err: err}
}

// uniqueNames fills blank header cells and de-duplicates repeated names with
// ".1", ".2", ... suffixes.
func uniqueNames(header []string) []string {
	out := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		n := strings.TrimSpace(h)
		if n == "" {
			n = fmt.Sprintf("Unnamed: %d", i)
		}
		base := n
		for {
			if _, dup := seen[n]; !dup {
				break
			}
			seen[base]++
			n = fmt.Sprintf("%s.%d", base, seen[base])
		}
		seen[n] = 0
		out[i] = n
	}
	return out
}

// infer decides the column kind from its non-missing cells and fills the
// typed value slices.
func (c *Column) infer(opt Options) {
	n := len(c.Raw)
	c.Valid = make([]bool, n)
	missing := 0
	allInt, allNum, allBool := true, true, true
	for i, raw := range c.Raw {
		if IsMissing(raw) {
			missing++
			continue
		}
		c.Valid[i] = true
		v := strings.TrimSpace(raw)
		if allInt {
			if _, err := strconv.ParseInt(v, 10, 64); err != nil {
				allInt = false
			}
		}
		if allNum {
			if _, ok := parseNumeric(v, opt); !ok {
				allNum = false
			}
		}
		if allBool {
			if _, ok := parseBool(v); !ok {
				allBool = false
			}
		}
	}
	switch {
	case missing == n:
		c.Kind = KindFloat64
	case allInt && missing == 0:
		c.Kind = KindInt64
	case allNum:
		c.Kind = KindFloat64
	case allBool && missing == 0:
		c.Kind = KindBool
	default:
		c.Kind = KindObject
	}
	if c.Kind.Numeric() {
		c.Nums = make([]float64, n)
		for i, raw := range c.Raw {
			if !c.Valid[i] {
				c.Nums[i] = math.NaN()
				continue
			}
			c.Nums[i], _ = parseNumeric(strings.TrimSpace(raw), opt)
		}
	}
}

func parseBool(s string) (bool, bool) {
	switch s {
	case "True", "true", "TRUE":
		return true, true
	case "False", "false", "FALSE":
		return false, true
	}
	return false, false
}

var timeLayouts = []string{
	time.RFC3339Nano, time.RFC3339,
	"2006-01-02T15:04:05", "2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999", "2006-01-02 15:04:05", "2006-01-02 15:04",
	"2006-01-02", "2006/01/02 15:04:05", "2006/01/02 15:04", "2006/01/02",
	"01/02/2006 15:04:05", "01/02/2006 15:04", "01/02/2006",
	"1/2/2006 15:04:05", "1/2/2006 15:04", "1/2/2006",
	"02.01.2006 15:04:05", "02.01.2006",
	"20060102",
}

// ParseTimeMaybe tries the common date-time layouts found in logger exports.
func ParseTimeMaybe(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, l := range timeLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parseNumeric(s string, opt Options) (float64, bool) {
	raw := strings.TrimSpace(s)
	// Normalize spaces
	raw = strings.ReplaceAll(raw, "\u00A0", " ")
	raw = strings.TrimSpace(raw)
	dec := opt.DecimalSeparator
	if dec == 0 {
		dec = '.'
	}
	if thou := opt.ThousandsSeparator; thou != 0 && thou != dec {
		raw = strings.ReplaceAll(raw, string(thou), "")
	}
	// Replace decimal with '.'
	if dec != '.' {
		if strings.Contains(raw, ".") {
			return 0, false
		}
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	if raw == "" || strings.ContainsAny(raw, " _") {
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }

// quantile interpolates linearly between the closest ranks of sorted values.
func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return math.NaN()
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
