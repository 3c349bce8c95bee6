package parser

import (
	"io"
	"path/filepath"
	"strings"

	"github.com/KaramelBytes/solardash/internal/analysis"
)

type csvParser struct{}

func (csvParser) CanParse(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), ".csv")
}

// Parse honors an explicit delimiter in opt and falls back to comma.
func (csvParser) Parse(r io.Reader, name string, opt analysis.Options) (*analysis.Dataset, error) {
	if opt.Delimiter == 0 {
		opt.Delimiter = ','
	}
	return analysis.LoadCSV(r, filepath.Base(name), opt)
}

type tsvParser struct{}

func (tsvParser) CanParse(filename string) bool {
	return strings.EqualFold(filepath.Ext(filename), ".tsv")
}

func (tsvParser) Parse(r io.Reader, name string, opt analysis.Options) (*analysis.Dataset, error) {
	opt.Delimiter = '\t'
	return analysis.LoadCSV(r, filepath.Base(name), opt)
}
