package analysis

import (
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/xuri/excelize/v2"
)

// LoadXLSX decodes one worksheet of a workbook into a Dataset. The first row
// is the header. opt.Sheet picks the worksheet by name (case-insensitive);
// empty means the first sheet. Cells are read with their display formatting.
func LoadXLSX(src io.Reader, name string, opt Options) (*Dataset, error) {
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, &ParseError{Err: fmt.Errorf("open xlsx: %w", err)}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &ParseError{Err: ErrNoColumns}
	}
	sheet := sheets[0]
	if opt.Sheet != "" {
		sheet = ""
		for _, s := range sheets {
			if strings.EqualFold(s, opt.Sheet) {
				sheet = s
				break
			}
		}
		if sheet == "" {
			return nil, &ParseError{Err: fmt.Errorf("sheet %q not found; available sheets: %s", opt.Sheet, strings.Join(sheets, ", "))}
		}
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, &ParseError{Err: fmt.Errorf("read sheet %s: %w", sheet, err)}
	}
	if len(rows) == 0 {
		return nil, &ParseError{Line: 1, Err: ErrNoColumns}
	}
	ds, err := newDataset(name, rows[0])
	if err != nil {
		return nil, err
	}
	maxRows := opt.MaxRows
	if maxRows <= 0 {
		maxRows = math.MaxInt
	}
	ncol := len(ds.Columns)
	for i, rec := range rows[1:] {
		if len(rec) > ncol {
			// trailing blank cells past the header are not data
			extra := rec[ncol:]
			if strings.TrimSpace(strings.Join(extra, "")) != "" {
				return nil, &ParseError{Line: i + 2, Err: fmt.Errorf("expected %d fields, saw %d", ncol, len(rec))}
			}
			rec = rec[:ncol]
		}
		ds.addRow(rec, maxRows)
	}
	ds.finish(opt)
	return ds, nil
}
