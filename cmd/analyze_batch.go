package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/solardash/internal/dashboard"
	"github.com/KaramelBytes/solardash/internal/utils"
)

var (
	abLoad   loadFlags
	abOutDir string
	abFormat string
	abXLSX   bool
	abQuiet  bool
)

var analyzeBatchCmd = &cobra.Command{
	Use:   "analyze-batch <files...>",
	Short: "Render one report per CSV, TSV or XLSX file with progress",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var files []string
		seen := map[string]struct{}{}
		for _, arg := range args {
			matches, _ := filepath.Glob(arg)
			if len(matches) == 0 {
				// treat as literal path if exists
				if _, err := os.Stat(arg); err == nil {
					matches = []string{arg}
				}
			}
			for _, m := range matches {
				if _, ok := seen[m]; ok {
					continue
				}
				seen[m] = struct{}{}
				files = append(files, m)
			}
		}
		if len(files) == 0 {
			return fmt.Errorf("no input files matched")
		}
		sort.Strings(files)

		format := strings.ToLower(abFormat)
		ext, ok := formatExt[format]
		if !ok {
			return fmt.Errorf("unsupported --format: %s (use markdown, html or json)", abFormat)
		}
		opt, err := abLoad.options()
		if err != nil {
			return err
		}
		if err := utils.EnsureDir(abOutDir); err != nil {
			return fmt.Errorf("create out dir: %w", err)
		}
		dopt := dashboard.Options{Analysis: opt, NoFigures: format != "html" && !abXLSX}

		out := cmd.OutOrStdout()
		total := len(files)
		failed := 0
		for i, path := range files {
			if !abQuiet {
				fmt.Fprintf(out, "[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			p, err := renderFile(cmd, path, dopt)
			if err != nil {
				return err
			}
			if p.ParseFailed() {
				failed++
				fmt.Fprintf(cmd.ErrOrStderr(), "✗ %s: %s\n", path, p.ErrorMessage())
				continue
			}
			body, err := renderReport(p, format)
			if err != nil {
				return err
			}
			outFile := uniquePath(utils.ReportPath(path, abOutDir, ext))
			if outFile != utils.ReportPath(path, abOutDir, ext) && !abQuiet {
				fmt.Fprintf(out, "⚠ Detected existing report, writing to %s to avoid overwrite.\n", filepath.Base(outFile))
			}
			if err := utils.SafeWriteFile(outFile, body); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			if abXLSX {
				book := strings.TrimSuffix(outFile, ext) + ".xlsx"
				if err := writeWorkbook(p, book); err != nil {
					return fmt.Errorf("write workbook: %w", err)
				}
			}
			if p.Err != nil {
				failed++
				fmt.Fprintf(cmd.ErrOrStderr(), "✗ %s: %s\n", path, p.ErrorMessage())
				continue
			}
			if !abQuiet {
				fmt.Fprintf(out, "✓ Wrote %s\n", outFile)
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d files could not be fully analyzed", failed, total)
		}
		return nil
	},
}

// uniquePath appends __2, __3, … before the extension until path is free.
func uniquePath(path string) string {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return path
	}
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	for idx := 2; ; idx++ {
		cand := fmt.Sprintf("%s__%d%s", base, idx, ext)
		if _, err := os.Stat(cand); os.IsNotExist(err) {
			return cand
		}
	}
}

func init() {
	rootCmd.AddCommand(analyzeBatchCmd)
	analyzeBatchCmd.Flags().StringVar(&abOutDir, "out-dir", "reports", "directory for the generated reports")
	analyzeBatchCmd.Flags().StringVarP(&abFormat, "format", "f", "html", "report format: markdown | html | json")
	analyzeBatchCmd.Flags().BoolVar(&abXLSX, "xlsx", false, "also write a workbook next to each report")
	analyzeBatchCmd.Flags().BoolVar(&abQuiet, "quiet", false, "suppress progress and non-essential output")
	abLoad.register(analyzeBatchCmd.Flags())
}
