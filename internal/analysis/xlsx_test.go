package analysis

import (
	"bytes"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"
)

func workbookBytes(t *testing.T, sheets map[string][][]any) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	first := true
	for name, rows := range sheets {
		if first {
			if err := f.SetSheetName("Sheet1", name); err != nil {
				t.Fatalf("rename: %v", err)
			}
			first = false
		} else if _, err := f.NewSheet(name); err != nil {
			t.Fatalf("new sheet: %v", err)
		}
		for i, row := range rows {
			cell, _ := excelize.CoordinatesToCellName(1, i+1)
			r := row
			if err := f.SetSheetRow(name, cell, &r); err != nil {
				t.Fatalf("set row: %v", err)
			}
		}
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

func TestLoadXLSXFirstSheet(t *testing.T) {
	b := workbookBytes(t, map[string][][]any{
		"Readings": {
			{"Timestamp", "GHI", "Comments"},
			{"2021-08-09 00:00", 1.5, "ok"},
			{"2021-08-09 00:10", 2.5, ""},
			{"2021-08-09 00:20", "", "late"},
		},
	})
	ds, err := LoadXLSX(bytes.NewReader(b), "solar.xlsx", DefaultOptions())
	if err != nil {
		t.Fatalf("LoadXLSX: %v", err)
	}
	rows, cols := ds.Shape()
	if rows != 3 || cols != 3 {
		t.Fatalf("shape = %dx%d, want 3x3", rows, cols)
	}
	ghi, ok := ds.Column("GHI")
	if !ok || !ghi.Kind.Numeric() {
		t.Fatalf("GHI should be numeric, got %+v", ghi)
	}
	if ghi.Missing() != 1 {
		t.Fatalf("GHI missing = %d, want 1", ghi.Missing())
	}
}

func TestLoadXLSXSheetSelection(t *testing.T) {
	b := workbookBytes(t, map[string][][]any{
		"Only": {{"A", "B"}, {1, 2}, {3, 4}},
	})
	opt := DefaultOptions()
	opt.Sheet = "only"
	ds, err := LoadXLSX(bytes.NewReader(b), "x.xlsx", opt)
	if err != nil {
		t.Fatalf("LoadXLSX: %v", err)
	}
	if ds.Rows() != 2 {
		t.Fatalf("rows = %d", ds.Rows())
	}

	opt.Sheet = "Missing"
	_, err = LoadXLSX(bytes.NewReader(b), "x.xlsx", opt)
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want *ParseError", err)
	}
}

func TestLoadXLSXMaxRows(t *testing.T) {
	b := workbookBytes(t, map[string][][]any{
		"S": {{"A"}, {1}, {2}, {3}, {4}},
	})
	opt := DefaultOptions()
	opt.MaxRows = 2
	ds, err := LoadXLSX(bytes.NewReader(b), "x.xlsx", opt)
	if err != nil {
		t.Fatalf("LoadXLSX: %v", err)
	}
	if ds.Rows() != 2 || ds.Truncated != 2 {
		t.Fatalf("rows=%d truncated=%d", ds.Rows(), ds.Truncated)
	}
	if len(ds.Warnings) != 1 {
		t.Fatalf("warnings = %v", ds.Warnings)
	}
}

func TestLoadXLSXNotAWorkbook(t *testing.T) {
	_, err := LoadXLSX(bytes.NewReader([]byte("Timestamp,GHI\n")), "x.xlsx", DefaultOptions())
	var pe *ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want *ParseError", err)
	}
}
