package parser

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/solardash/internal/analysis"
)

type xlsxParser struct{}

func (xlsxParser) CanParse(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), ".xlsx")
}

func (xlsxParser) Parse(r io.Reader, name string, opt analysis.Options) (*analysis.Dataset, error) {
	return analysis.LoadXLSX(r, filepath.Base(name), opt)
}
