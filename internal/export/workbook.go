// Package export writes the derived tables of a dashboard page to a
// spreadsheet.
package export

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/solardash/internal/analysis"
	"github.com/KaramelBytes/solardash/internal/dashboard"
)

const (
	SheetPreview     = "Preview"
	SheetInfo        = "Info"
	SheetMissing     = "Missing"
	SheetDescribe    = "Describe"
	SheetCorrelation = "Correlation"
	SheetFigures     = "Figures"

	figureRows  = 25
	figureScale = 0.6
)

// ErrNothingToExport is returned for pages that never got past parsing.
var ErrNothingToExport = errors.New("page has no tables to export")

// Workbook writes one sheet per table the page holds, plus a Figures sheet
// when any figure was rendered, and encodes the workbook to w.
func Workbook(p *dashboard.Page, w io.Writer) error {
	if p == nil || p.Preview == nil {
		return ErrNothingToExport
	}
	f := excelize.NewFile()
	defer f.Close()
	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#DDEBF7"}},
	})
	if err != nil {
		return fmt.Errorf("header style: %w", err)
	}
	x := &book{f: f, header: header}

	if err := f.SetSheetName("Sheet1", SheetPreview); err != nil {
		return err
	}
	rows := make([][]any, len(p.Preview.Rows))
	for i, r := range p.Preview.Rows {
		rows[i] = texts(r)
	}
	if err := x.table(SheetPreview, texts(p.Preview.Columns), rows); err != nil {
		return err
	}

	if p.Info != nil {
		rows := make([][]any, len(p.Info.Columns))
		for i, c := range p.Info.Columns {
			rows[i] = []any{c.Position, c.Name, c.NonNull, string(c.Kind)}
		}
		if err := x.table(SheetInfo, []any{"#", "Column", "Non-Null Count", "Dtype"}, rows); err != nil {
			return err
		}
	}
	if p.Missing != nil {
		rows := make([][]any, len(p.Missing))
		for i, m := range p.Missing {
			rows[i] = []any{m.Column, m.Missing}
		}
		if err := x.table(SheetMissing, []any{"Column", "Missing"}, rows); err != nil {
			return err
		}
	}
	if p.Stats != nil {
		if err := x.describe(p.Stats.Summaries); err != nil {
			return err
		}
	}
	if p.Heatmap != nil && p.Heatmap.Matrix != nil {
		m := p.Heatmap.Matrix
		head := append([]any{""}, texts(m.Columns)...)
		rows := make([][]any, len(m.Columns))
		for i, name := range m.Columns {
			rows[i] = append([]any{name}, numbers(m.Values[i])...)
		}
		if err := x.table(SheetCorrelation, head, rows); err != nil {
			return err
		}
	}
	if err := x.figures(p); err != nil {
		return err
	}

	f.SetActiveSheet(0)
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

type book struct {
	f      *excelize.File
	header int
}

// table writes head on row 1 and rows below it, creating the sheet if needed.
func (x *book) table(sheet string, head []any, rows [][]any) error {
	if idx, _ := x.f.GetSheetIndex(sheet); idx < 0 {
		if _, err := x.f.NewSheet(sheet); err != nil {
			return fmt.Errorf("new sheet %s: %w", sheet, err)
		}
	}
	all := append([][]any{head}, rows...)
	for i, r := range all {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		r := r
		if err := x.f.SetSheetRow(sheet, cell, &r); err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+1, err)
		}
	}
	if len(head) == 0 {
		return nil
	}
	last, err := excelize.ColumnNumberToName(len(head))
	if err != nil {
		return err
	}
	if err := x.f.SetCellStyle(sheet, "A1", last+"1", x.header); err != nil {
		return err
	}
	if err := x.f.SetColWidth(sheet, "A", last, 16); err != nil {
		return err
	}
	return x.f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
}

func (x *book) describe(sums []analysis.Summary) error {
	if len(sums) == 0 {
		return x.table(SheetDescribe, []any{"No numeric columns to describe."}, nil)
	}
	head := []any{"statistic"}
	for _, s := range sums {
		head = append(head, s.Column)
	}
	rows := make([][]any, len(analysis.SummaryLabels))
	for i, label := range analysis.SummaryLabels {
		rows[i] = []any{label}
		for _, s := range sums {
			if i == 0 {
				rows[i] = append(rows[i], s.Count)
				continue
			}
			rows[i] = append(rows[i], cellFloat(s.Values()[i]))
		}
	}
	return x.table(SheetDescribe, head, rows)
}

func (x *book) figures(p *dashboard.Page) error {
	type figure struct {
		name string
		png  []byte
	}
	var figs []figure
	if p.Heatmap != nil && len(p.Heatmap.PNG) > 0 {
		figs = append(figs, figure{"Correlation Heatmap", p.Heatmap.PNG})
	}
	if p.Histogram != nil && len(p.Histogram.PNG) > 0 {
		figs = append(figs, figure{"Distribution of " + p.Histogram.Dist.Column, p.Histogram.PNG})
	}
	if p.TimeSeries != nil && len(p.TimeSeries.PNG) > 0 {
		figs = append(figs, figure{"Time Series of " + p.TimeSeries.ValueColumn, p.TimeSeries.PNG})
	}
	if len(figs) == 0 {
		return nil
	}
	if _, err := x.f.NewSheet(SheetFigures); err != nil {
		return fmt.Errorf("new sheet %s: %w", SheetFigures, err)
	}
	for i, fig := range figs {
		cell, err := excelize.CoordinatesToCellName(1, 1+i*figureRows)
		if err != nil {
			return err
		}
		err = x.f.AddPictureFromBytes(SheetFigures, cell, &excelize.Picture{
			Extension: ".png",
			File:      fig.png,
			Format:    &excelize.GraphicOptions{AltText: fig.name, ScaleX: figureScale, ScaleY: figureScale},
		})
		if err != nil {
			return fmt.Errorf("add %s: %w", fig.name, err)
		}
	}
	return nil
}

func texts(in []string) []any {
	out := make([]any, len(in))
	for i, s := range in {
		out[i] = s
	}
	return out
}

func numbers(in []float64) []any {
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = cellFloat(v)
	}
	return out
}

// cellFloat maps undefined values to an empty cell.
func cellFloat(v float64) any {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}
