package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSafeWriteFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	if err := EnsureDir(dir); err != nil {
		t.Fatalf("EnsureDir: %v", err)
	}
	path := filepath.Join(dir, "report.md")
	if err := SafeWriteFile(path, []byte("one")); err != nil {
		t.Fatalf("first write: %v", err)
	}
	if err := SafeWriteFile(path, []byte("two")); err != nil {
		t.Fatalf("second write: %v", err)
	}
	b, err := os.ReadFile(path)
	if err != nil || string(b) != "two" {
		t.Fatalf("read back %q, %v", b, err)
	}
	if _, err := os.Stat(path + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temp file left behind: %v", err)
	}
}

func TestPrettyJSON(t *testing.T) {
	b, err := PrettyJSON(map[string]int{"rows": 3})
	if err != nil {
		t.Fatalf("PrettyJSON: %v", err)
	}
	if !strings.Contains(string(b), "\n  \"rows\": 3") {
		t.Fatalf("unexpected output: %s", b)
	}
}

func TestReportPath(t *testing.T) {
	got := ReportPath(filepath.Join("data", "site.a.csv"), "out", ".html")
	if want := filepath.Join("out", "site.a.html"); got != want {
		t.Fatalf("ReportPath = %q, want %q", got, want)
	}
}
