package parser

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/KaramelBytes/solardash/internal/analysis"
)

// Parser decodes one upload format into a Dataset.
type Parser interface {
	CanParse(filename string) bool
	Parse(r io.Reader, name string, opt analysis.Options) (*analysis.Dataset, error)
}

var registry []Parser

// Register adds a parser implementation to the registry.
func Register(p Parser) {
	registry = append(registry, p)
}

// ParseUpload selects a parser based on filename and decodes the content.
// Unsupported formats are reported as *analysis.ParseError wrapping ErrUnsupported.
func ParseUpload(name string, r io.Reader, opt analysis.Options) (*analysis.Dataset, error) {
	for _, p := range registry {
		if p.CanParse(name) {
			return p.Parse(r, name, opt)
		}
	}
	return nil, &analysis.ParseError{Err: fmt.Errorf("%w: %s", ErrUnsupported, name)}
}

// ParseFile opens a file on disk and decodes it with ParseUpload.
func ParseFile(path string, opt analysis.Options) (*analysis.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()
	return ParseUpload(path, f, opt)
}

func init() {
	// Register default parsers
	Register(csvParser{})
	Register(tsvParser{})
	Register(xlsxParser{})
}

// ErrUnsupported indicates a format is not supported yet.
var ErrUnsupported = errors.New("unsupported file format (expected .csv, .tsv or .xlsx)")
