package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/KaramelBytes/solardash/internal/analysis"
	"github.com/KaramelBytes/solardash/internal/dashboard"
	"github.com/KaramelBytes/solardash/internal/export"
	"github.com/KaramelBytes/solardash/internal/server"
	"github.com/KaramelBytes/solardash/internal/utils"
)

// loadFlags are the dataset loading flags shared by analyze and analyze-batch.
type loadFlags struct {
	delimiter   string
	decimal     string
	thousands   string
	previewRows int
	maxRows     int
	sheet       string
}

func (lf *loadFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&lf.delimiter, "delimiter", "", "CSV delimiter: ',' | ';' | 'tab' (default by extension)")
	fs.StringVar(&lf.decimal, "decimal", "", "decimal separator for numbers: '.'|'comma'")
	fs.StringVar(&lf.thousands, "thousands", "", "thousands separator for numbers: ','|'.'|'space'")
	fs.IntVar(&lf.previewRows, "preview-rows", 0, "number of preview rows (overrides preview_rows)")
	fs.IntVar(&lf.maxRows, "max-rows", 0, "maximum rows to load (overrides max_rows; 0 = config)")
	fs.StringVar(&lf.sheet, "sheet", "", "worksheet to read from .xlsx inputs (default first sheet)")
}

// options starts from the configuration and applies the flags on top.
func (lf *loadFlags) options() (analysis.Options, error) {
	opt := cfg.AnalysisOptions()
	if lf.previewRows > 0 {
		opt.PreviewRows = lf.previewRows
	}
	if lf.maxRows > 0 {
		opt.MaxRows = lf.maxRows
	}
	opt.Sheet = lf.sheet
	if lf.delimiter != "" {
		switch lf.delimiter {
		case ",":
			opt.Delimiter = ','
		case "\t", "tab":
			opt.Delimiter = '\t'
		case ";":
			opt.Delimiter = ';'
		case "|":
			opt.Delimiter = '|'
		default:
			return opt, fmt.Errorf("unsupported --delimiter: %s", lf.delimiter)
		}
	}
	switch strings.ToLower(strings.TrimSpace(lf.decimal)) {
	case ",", "comma":
		opt.DecimalSeparator = ','
	case ".", "dot":
		opt.DecimalSeparator = '.'
	case "":
	default:
		return opt, fmt.Errorf("unsupported --decimal: %s (use '.'|'comma')", lf.decimal)
	}
	switch strings.ToLower(strings.TrimSpace(lf.thousands)) {
	case ",":
		opt.ThousandsSeparator = ','
	case ".":
		opt.ThousandsSeparator = '.'
	case "space", " ":
		opt.ThousandsSeparator = ' '
	case "":
	default:
		return opt, fmt.Errorf("unsupported --thousands: %s (use ','|'.'|'space')", lf.thousands)
	}
	if opt.DecimalSeparator != 0 && opt.DecimalSeparator == opt.ThousandsSeparator {
		return opt, fmt.Errorf("--decimal and --thousands must differ")
	}
	return opt, nil
}

var (
	anaLoad       loadFlags
	anaOutputPath string
	anaFormat     string
	anaXLSXPath   string
)

// formatExt maps a report format to its file extension.
var formatExt = map[string]string{
	"markdown": ".md",
	"html":     ".html",
	"json":     ".json",
}

func renderReport(p *dashboard.Page, format string) ([]byte, error) {
	switch format {
	case "markdown":
		return []byte(p.Markdown()), nil
	case "html":
		var buf bytes.Buffer
		if err := server.WritePage(&buf, p); err != nil {
			return nil, fmt.Errorf("render html: %w", err)
		}
		return buf.Bytes(), nil
	case "json":
		return utils.PrettyJSON(p.Summary())
	}
	return nil, fmt.Errorf("unsupported --format: %s (use markdown, html or json)", format)
}

func writeWorkbook(p *dashboard.Page, path string) error {
	var buf bytes.Buffer
	if err := export.Workbook(p, &buf); err != nil {
		return err
	}
	return utils.SafeWriteFile(path, buf.Bytes())
}

// renderFile runs the dashboard over one file on disk.
func renderFile(cmd *cobra.Command, path string, opt dashboard.Options) (*dashboard.Page, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return dashboard.New(opt, logger).Render(cmd.Context(), filepath.Base(path), f), nil
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Render the dashboard for one CSV, TSV or XLSX file offline",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format := strings.ToLower(anaFormat)
		if _, ok := formatExt[format]; !ok {
			return fmt.Errorf("unsupported --format: %s (use markdown, html or json)", anaFormat)
		}
		opt, err := anaLoad.options()
		if err != nil {
			return err
		}
		// figures only show up in html pages and workbooks
		noFigures := format != "html" && anaXLSXPath == ""
		p, err := renderFile(cmd, args[0], dashboard.Options{Analysis: opt, NoFigures: noFigures})
		if err != nil {
			return err
		}
		if p.ParseFailed() {
			return p.Err
		}

		out, err := renderReport(p, format)
		if err != nil {
			return err
		}
		if anaOutputPath != "" {
			if err := utils.SafeWriteFile(anaOutputPath, out); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote analysis to %s\n", anaOutputPath)
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
		}
		if anaXLSXPath != "" {
			if err := writeWorkbook(p, anaXLSXPath); err != nil {
				return fmt.Errorf("write workbook: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote workbook to %s\n", anaXLSXPath)
		}
		for _, w := range p.Warnings {
			fmt.Fprintf(cmd.ErrOrStderr(), "⚠ Warning: %s\n", w)
		}
		if p.Err != nil {
			return fmt.Errorf("render stopped: %w", p.Err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "optional path to write the report (stdout if omitted)")
	analyzeCmd.Flags().StringVarP(&anaFormat, "format", "f", "markdown", "report format: markdown | html | json")
	analyzeCmd.Flags().StringVar(&anaXLSXPath, "xlsx", "", "also write the derived tables and figures to this .xlsx path")
	anaLoad.register(analyzeCmd.Flags())
}
