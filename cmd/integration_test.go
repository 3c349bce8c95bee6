package cmd

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/xuri/excelize/v2"
)

// resetFlags restores every flag of c and its subcommands to its default so
// bound variables do not leak between invocations.
func resetFlags(c *cobra.Command) {
	reset := func(fs *pflag.FlagSet) {
		fs.VisitAll(func(fl *pflag.Flag) {
			_ = fl.Value.Set(fl.DefValue)
			fl.Changed = false
		})
	}
	reset(c.Flags())
	reset(c.PersistentFlags())
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

// execute runs the root command with args and returns its stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out, errOut bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&errOut)
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	}()
	err := rootCmd.Execute()
	return out.String(), err
}

// runCmd is a helper to execute the root command with args.
func runCmd(t *testing.T, args ...string) string {
	t.Helper()
	out, err := execute(t, args...)
	if err != nil {
		t.Fatalf("command %v failed: %v", args, err)
	}
	return out
}

func writeSolarCSV(t *testing.T, path string, rows int) {
	t.Helper()
	var b strings.Builder
	b.WriteString("Timestamp,GHI,DNI,Tamb\n")
	start := time.Date(2021, 8, 9, 6, 0, 0, 0, time.UTC)
	for i := 0; i < rows; i++ {
		ts := start.Add(time.Duration(i) * time.Hour)
		fmt.Fprintf(&b, "%s,%.1f,%.1f,%.1f\n", ts.Format("2006-01-02 15:04"), float64(i%12)*70, float64(i%9)*40, 24+float64(i%5))
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
}

func TestCLI_AnalyzeMarkdown(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	in := filepath.Join(home, "solar.csv")
	writeSolarCSV(t, in, 48)
	outPath := filepath.Join(home, "reports", "solar.md")

	out := runCmd(t, "analyze", in, "-o", outPath)
	if !strings.Contains(out, "✓ Wrote analysis to") {
		t.Fatalf("unexpected output: %q", out)
	}
	b, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	body := string(b)
	for _, want := range []string{
		"[DATASET PREVIEW]",
		"[DATASET INFORMATION]",
		"Number of rows: 48",
		"[MISSING VALUES]",
		"[DESCRIPTIVE STATISTICS]",
		"[CORRELATIONS]",
		"[GHI DISTRIBUTION]",
		"[TIME SERIES OF GHI]",
		"[INSIGHTS AND RECOMMENDATIONS]",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("report missing %q", want)
		}
	}
	if strings.Contains(body, "[ERROR]") {
		t.Fatalf("unexpected error section:\n%s", body)
	}
}

func TestCLI_AnalyzeToStdout(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	in := filepath.Join(home, "solar.csv")
	writeSolarCSV(t, in, 10)
	out := runCmd(t, "analyze", in, "--format", "json")
	if !strings.Contains(out, `"file_name": "solar.csv"`) {
		t.Fatalf("json summary missing file name:\n%s", out)
	}
}

func TestCLI_AnalyzeHTMLAndWorkbook(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	in := filepath.Join(home, "solar.csv")
	writeSolarCSV(t, in, 30)
	htmlPath := filepath.Join(home, "solar.html")
	xlsxPath := filepath.Join(home, "solar.xlsx")

	runCmd(t, "analyze", in, "-f", "html", "-o", htmlPath, "--xlsx", xlsxPath)

	b, err := os.ReadFile(htmlPath)
	if err != nil {
		t.Fatalf("read html: %v", err)
	}
	if n := strings.Count(string(b), "data:image/png;base64,"); n != 3 {
		t.Fatalf("embedded figures = %d, want 3", n)
	}
	if strings.Contains(string(b), `type="file"`) {
		t.Fatalf("offline page should not carry the upload form")
	}

	f, err := excelize.OpenFile(xlsxPath)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()
	if idx, _ := f.GetSheetIndex("Describe"); idx < 0 {
		t.Fatalf("workbook missing Describe sheet: %v", f.GetSheetList())
	}
}

func TestCLI_AnalyzeUnsupportedFormat(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	in := filepath.Join(home, "solar.csv")
	writeSolarCSV(t, in, 5)
	if _, err := execute(t, "analyze", in, "-f", "pdf"); err == nil {
		t.Fatalf("expected error for unsupported format")
	}
}

func TestCLI_AnalyzeParseError(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	in := filepath.Join(home, "notes.docx")
	if err := os.WriteFile(in, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, err := execute(t, "analyze", in)
	if err == nil || !strings.Contains(err.Error(), "parse error") {
		t.Fatalf("err = %v, want parse error", err)
	}
}

func TestCLI_ConfigSetAndShow(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	runCmd(t, "config", "set", "preview_rows", "8")
	runCmd(t, "config", "set", "delimiter", "tab")
	if _, err := os.Stat(filepath.Join(home, ".solardash", "config.yaml")); err != nil {
		t.Fatalf("config not saved: %v", err)
	}
	out := runCmd(t, "config", "show")
	if !strings.Contains(out, "preview_rows: 8") {
		t.Fatalf("show missing preview_rows:\n%s", out)
	}
	if !strings.Contains(out, `delimiter: "\\t"`) {
		t.Fatalf("show missing delimiter:\n%s", out)
	}
	if _, err := execute(t, "config", "set", "log_level", "loud"); err == nil {
		t.Fatalf("expected invalid log_level to fail")
	}
	if _, err := execute(t, "config", "set", "nope", "1"); err == nil {
		t.Fatalf("expected unknown key to fail")
	}
}
