package dashboard

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/KaramelBytes/solardash/internal/analysis"
)

// Markdown renders the page as plain text sections for terminals and files.
// Figures are summarized rather than embedded.
func (p *Page) Markdown() string {
	var b strings.Builder
	b.WriteString("# " + p.Title + "\n\n")
	b.WriteString(p.Description + "\n\n")
	if p.Prompt != "" {
		b.WriteString(p.Prompt + "\n")
		return b.String()
	}
	if p.FileName != "" {
		b.WriteString(fmt.Sprintf("File: %s\nReport: %s\n\n", p.FileName, p.ID))
	}

	if p.Preview != nil {
		b.WriteString("[DATASET PREVIEW]\n")
		writeTable(&b, p.Preview.Columns, p.Preview.Rows)
		b.WriteString("\n")
	}
	if p.Shape != nil {
		b.WriteString("[DATASET INFORMATION]\n")
		b.WriteString(fmt.Sprintf("Number of rows: %d\n", p.Shape.Rows))
		b.WriteString(fmt.Sprintf("Number of columns: %d\n", p.Shape.Cols))
		if p.Info != nil {
			b.WriteString("```\n" + p.Info.Text() + "```\n")
		}
		b.WriteString("\n")
	}
	if p.Missing != nil {
		b.WriteString("[MISSING VALUES]\n")
		for _, m := range p.Missing {
			b.WriteString(fmt.Sprintf("- %s: %d\n", safeName(m.Column), m.Missing))
		}
		b.WriteString("\n")
	}
	if p.Stats != nil {
		b.WriteString("[DESCRIPTIVE STATISTICS]\n")
		if len(p.Stats.Summaries) == 0 {
			b.WriteString("No numeric columns to describe.\n\n")
		} else {
			header := []string{"statistic"}
			for _, s := range p.Stats.Summaries {
				header = append(header, s.Column)
			}
			rows := make([][]string, len(analysis.SummaryLabels))
			for i, label := range analysis.SummaryLabels {
				rows[i] = []string{label}
				for _, s := range p.Stats.Summaries {
					rows[i] = append(rows[i], formatStat(s.Values()[i]))
				}
			}
			writeTable(&b, header, rows)
			b.WriteString("\n")
		}
	}
	if p.Heatmap != nil {
		writeCorrelations(&b, p.Heatmap.Matrix)
	}
	if p.Histogram != nil {
		d := p.Histogram.Dist
		b.WriteString(fmt.Sprintf("[%s DISTRIBUTION]\n", strings.ToUpper(d.Column)))
		b.WriteString(fmt.Sprintf("- values: %d in %d buckets", d.N, len(d.Bins)))
		if len(d.Bins) > 0 {
			b.WriteString(fmt.Sprintf(" over [%.4g, %.4g]", d.Bins[0].Min, d.Bins[len(d.Bins)-1].Max))
		}
		b.WriteString("\n")
		if d.N > 0 {
			top := 0
			for i, bin := range d.Bins {
				if bin.Count > d.Bins[top].Count {
					top = i
				}
			}
			b.WriteString(fmt.Sprintf("- fullest bucket: [%.4g, %.4g) with %d values\n", d.Bins[top].Min, d.Bins[top].Max, d.Bins[top].Count))
		}
		b.WriteString("\n")
	}
	if ts := p.TimeSeries; ts != nil {
		b.WriteString(fmt.Sprintf("[TIME SERIES OF %s]\n", strings.ToUpper(ts.ValueColumn)))
		if ts.Notice != "" {
			b.WriteString(ts.Notice + "\n")
		} else {
			b.WriteString(fmt.Sprintf("- points plotted: %d (ordered by %s)\n", ts.Points, ts.TimeColumn))
		}
		if ts.Invalid > 0 {
			b.WriteString(fmt.Sprintf("- unparseable %s values: %d\n", ts.TimeColumn, ts.Invalid))
		}
		b.WriteString("\n")
	}
	if len(p.Recommendations) > 0 {
		b.WriteString("[INSIGHTS AND RECOMMENDATIONS]\n")
		for _, r := range p.Recommendations {
			b.WriteString(fmt.Sprintf("- **%s**: %s\n", r.Topic, r.Text))
		}
	}
	if len(p.Warnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range p.Warnings {
			b.WriteString("- " + w + "\n")
		}
	}
	if msg := p.ErrorMessage(); msg != "" {
		b.WriteString("\n[ERROR]\n" + msg + "\n")
	}
	return b.String()
}

func writeCorrelations(b *strings.Builder, m *analysis.CorrMatrix) {
	if m == nil || len(m.Columns) < 2 {
		return
	}
	type pair struct {
		A, B string
		R    float64
	}
	var pairs []pair
	n := len(m.Columns)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if math.IsNaN(m.Values[i][j]) {
				continue
			}
			pairs = append(pairs, pair{A: m.Columns[i], B: m.Columns[j], R: m.Values[i][j]})
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		ai, aj := math.Abs(pairs[i].R), math.Abs(pairs[j].R)
		if ai == aj {
			return pairs[i].A+pairs[i].B < pairs[j].A+pairs[j].B
		}
		return ai > aj
	})
	if len(pairs) > 10 {
		pairs = pairs[:10]
	}
	b.WriteString("[CORRELATIONS]\n")
	if len(pairs) == 0 {
		b.WriteString("No defined correlations.\n")
	}
	for _, pr := range pairs {
		b.WriteString(fmt.Sprintf("- %s ~ %s: r=%.3f\n", pr.A, pr.B, pr.R))
	}
	b.WriteString("\n")
}

func writeTable(b *strings.Builder, header []string, rows [][]string) {
	b.WriteString("|")
	for _, h := range header {
		b.WriteString(" " + safeName(h) + " |")
	}
	b.WriteString("\n|")
	for range header {
		b.WriteString(" --- |")
	}
	b.WriteString("\n")
	for _, row := range rows {
		b.WriteString("|")
		for i := range header {
			val := ""
			if i < len(row) {
				val = row[i]
			}
			if len(val) > 80 {
				val = val[:77] + "..."
			}
			b.WriteString(" " + safeVal(val) + " |")
		}
		b.WriteString("\n")
	}
}

// formatStat prints a statistic the way a describe table does. Integral values
// keep one decimal and NaN stays visible.
func formatStat(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case v == math.Trunc(v) && math.Abs(v) < 1e15:
		return fmt.Sprintf("%.1f", v)
	default:
		return fmt.Sprintf("%.6g", v)
	}
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return safeVal(s)
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
