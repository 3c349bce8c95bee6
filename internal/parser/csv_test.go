package parser_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/solardash/internal/analysis"
	"github.com/KaramelBytes/solardash/internal/parser"
)

func TestParseFileCSV(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "sierraleone-bumbuna.csv")
	content := "Timestamp,GHI,DNI,DHI,Tamb\n" +
		"2021-10-30 00:01,-0.7,-0.1,-0.8,21.9\n" +
		"2021-10-30 00:02,-0.7,-0.1,-0.8,21.9\n" +
		"2021-10-30 00:03,-0.7,,-0.8,21.9\n"
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	ds, err := parser.ParseFile(p, analysis.DefaultOptions())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if ds.Name != "sierraleone-bumbuna.csv" {
		t.Fatalf("name = %q", ds.Name)
	}
	rows, cols := ds.Shape()
	if rows != 3 || cols != 5 {
		t.Fatalf("shape = (%d, %d)", rows, cols)
	}
	dni, _ := ds.Column("DNI")
	if dni.Missing() != 1 {
		t.Fatalf("DNI missing = %d", dni.Missing())
	}
}

func TestParseUploadTSV(t *testing.T) {
	ds, err := parser.ParseUpload("togo.TSV", strings.NewReader("GHI\tTamb\n1\t2\n"), analysis.DefaultOptions())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if _, cols := ds.Shape(); cols != 2 {
		t.Fatalf("cols = %d", cols)
	}
}

func TestParseUploadUnsupported(t *testing.T) {
	_, err := parser.ParseUpload("notes.docx", strings.NewReader("x"), analysis.DefaultOptions())
	var pe *analysis.ParseError
	if !errors.As(err, &pe) {
		t.Fatalf("err = %v, want *analysis.ParseError", err)
	}
	if !errors.Is(err, parser.ErrUnsupported) {
		t.Fatalf("err = %v, want ErrUnsupported", err)
	}
}

func TestParseUploadXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	rows := [][]any{{"Timestamp", "GHI"}, {"2021-10-30 00:01", 3.5}, {"2021-10-30 00:02", 4}}
	for i, row := range rows {
		r := row
		if err := f.SetSheetRow("Sheet1", "A"+string(rune('1'+i)), &r); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write: %v", err)
	}
	ds, err := parser.ParseUpload("readings.XLSX", &buf, analysis.DefaultOptions())
	if err != nil {
		t.Fatalf("ParseUpload: %v", err)
	}
	if ds.Rows() != 2 {
		t.Fatalf("rows = %d", ds.Rows())
	}
	if c, ok := ds.Column("GHI"); !ok || !c.Kind.Numeric() {
		t.Fatalf("GHI not numeric")
	}
}
