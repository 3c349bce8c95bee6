package dashboard

import (
	"math"
	"time"
)

// Summary is the JSON form of a Page without figures. Undefined statistics
// are null.
type Summary struct {
	ID              string             `json:"id"`
	Title           string             `json:"title"`
	FileName        string             `json:"file_name,omitempty"`
	Prompt          string             `json:"prompt,omitempty"`
	Rows            *int               `json:"rows,omitempty"`
	Columns         *int               `json:"columns,omitempty"`
	Preview         *Preview           `json:"preview,omitempty"`
	Info            []ColumnSummary    `json:"info,omitempty"`
	Missing         []MissingSummary   `json:"missing,omitempty"`
	Describe        []StatSummary      `json:"describe,omitempty"`
	Correlation     *CorrSummary       `json:"correlation,omitempty"`
	Histogram       *HistogramSummary  `json:"histogram,omitempty"`
	TimeSeries      *TimeSeriesSummary `json:"time_series,omitempty"`
	Recommendations []Recommendation   `json:"recommendations,omitempty"`
	Warnings        []string           `json:"warnings,omitempty"`
	Error           string             `json:"error,omitempty"`
	GeneratedAt     time.Time          `json:"generated_at"`
}

type ColumnSummary struct {
	Name    string `json:"name"`
	Kind    string `json:"kind"`
	NonNull int    `json:"non_null"`
}

// MissingSummary keeps the null count of one column; the list follows column order.
type MissingSummary struct {
	Column  string `json:"column"`
	Missing int    `json:"missing"`
}

type StatSummary struct {
	Column string   `json:"column"`
	Count  int      `json:"count"`
	Mean   *float64 `json:"mean"`
	Std    *float64 `json:"std"`
	Min    *float64 `json:"min"`
	Q25    *float64 `json:"25%"`
	Q50    *float64 `json:"50%"`
	Q75    *float64 `json:"75%"`
	Max    *float64 `json:"max"`
}

type CorrSummary struct {
	Columns []string     `json:"columns"`
	Values  [][]*float64 `json:"values"`
}

type BinSummary struct {
	Min   *float64 `json:"min"`
	Max   *float64 `json:"max"`
	Count int      `json:"count"`
}

type HistogramSummary struct {
	Column string       `json:"column"`
	N      int          `json:"n"`
	Bins   []BinSummary `json:"bins"`
}

type TimeSeriesSummary struct {
	TimeColumn  string `json:"time_column"`
	ValueColumn string `json:"value_column"`
	Points      int    `json:"points"`
	Invalid     int    `json:"invalid"`
	Notice      string `json:"notice,omitempty"`
}

// Summary converts the page for JSON encoding.
func (p *Page) Summary() *Summary {
	s := &Summary{
		ID:              p.ID,
		Title:           p.Title,
		FileName:        p.FileName,
		Prompt:          p.Prompt,
		Preview:         p.Preview,
		Recommendations: p.Recommendations,
		Warnings:        p.Warnings,
		Error:           p.ErrorMessage(),
		GeneratedAt:     time.Now().UTC(),
	}
	if p.Shape != nil {
		rows, cols := p.Shape.Rows, p.Shape.Cols
		s.Rows, s.Columns = &rows, &cols
	}
	if p.Info != nil {
		for _, c := range p.Info.Columns {
			s.Info = append(s.Info, ColumnSummary{Name: c.Name, Kind: string(c.Kind), NonNull: c.NonNull})
		}
	}
	if p.Missing != nil {
		s.Missing = make([]MissingSummary, len(p.Missing))
		for i, m := range p.Missing {
			s.Missing[i] = MissingSummary{Column: m.Column, Missing: m.Missing}
		}
	}
	if p.Stats != nil {
		s.Describe = []StatSummary{}
		for _, st := range p.Stats.Summaries {
			s.Describe = append(s.Describe, StatSummary{
				Column: st.Column,
				Count:  st.Count,
				Mean:   num(st.Mean),
				Std:    num(st.Std),
				Min:    num(st.Min),
				Q25:    num(st.Q25),
				Q50:    num(st.Q50),
				Q75:    num(st.Q75),
				Max:    num(st.Max),
			})
		}
	}
	if p.Heatmap != nil && p.Heatmap.Matrix != nil {
		m := p.Heatmap.Matrix
		cs := &CorrSummary{Columns: m.Columns, Values: make([][]*float64, len(m.Values))}
		for i, row := range m.Values {
			cs.Values[i] = make([]*float64, len(row))
			for j, v := range row {
				cs.Values[i][j] = num(v)
			}
		}
		s.Correlation = cs
	}
	if p.Histogram != nil {
		d := p.Histogram.Dist
		hs := &HistogramSummary{Column: d.Column, N: d.N, Bins: make([]BinSummary, len(d.Bins))}
		for i, b := range d.Bins {
			hs.Bins[i] = BinSummary{Min: num(b.Min), Max: num(b.Max), Count: b.Count}
		}
		s.Histogram = hs
	}
	if ts := p.TimeSeries; ts != nil {
		s.TimeSeries = &TimeSeriesSummary{
			TimeColumn:  ts.TimeColumn,
			ValueColumn: ts.ValueColumn,
			Points:      ts.Points,
			Invalid:     ts.Invalid,
			Notice:      ts.Notice,
		}
	}
	return s
}

func num(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}
