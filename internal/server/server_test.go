package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/KaramelBytes/solardash/internal/analysis"
	"github.com/KaramelBytes/solardash/internal/dashboard"
)

func solarCSV(rows int) string {
	var b strings.Builder
	b.WriteString("Timestamp,GHI,Tamb\n")
	start := time.Date(2022, 3, 1, 6, 0, 0, 0, time.UTC)
	for i := 0; i < rows; i++ {
		fmt.Fprintf(&b, "%s,%d,%d\n", start.Add(time.Duration(i)*time.Minute).Format("2006-01-02 15:04"), i*3%40, 18+i%5)
	}
	return b.String()
}

func newServer(maxBytes int64) *Server {
	return New(Options{
		Dashboard:      dashboard.Options{Analysis: analysis.DefaultOptions()},
		MaxUploadBytes: maxBytes,
	}, nil)
}

// post sends a multipart form; an empty filename sends the form without a file.
func post(t *testing.T, h http.Handler, path, filename, body string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if filename != "" {
		fw, err := mw.CreateFormFile(formField, filename)
		require.NoError(t, err)
		_, err = io.WriteString(fw, body)
		require.NoError(t, err)
	} else {
		require.NoError(t, mw.WriteField("note", "empty"))
	}
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestIndexShowsPrompt(t *testing.T) {
	h := newServer(0).Handler()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, dashboard.Prompt)
	assert.Contains(t, body, `name="dataset"`)
	assert.NotContains(t, body, "Dataset Preview")
}

func TestUploadRendersSections(t *testing.T) {
	h := newServer(0).Handler()
	rec := post(t, h, "/", "solar.csv", solarCSV(30))
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	order := []string{
		"Solar Farm Data Analysis",
		"Dataset Preview",
		"Number of rows: 30",
		"Number of columns: 3",
		"Data columns (total 3 columns):",
		"Missing Values",
		"Descriptive Statistics",
		"Correlation Heatmap",
		"Global Horizontal Irradiance (GHI) Distribution",
		"Time Series Analysis of GHI",
		"Insights and Recommendations",
	}
	last := -1
	for _, s := range order {
		i := strings.Index(body, s)
		require.Greater(t, i, last, s)
		last = i
	}
	assert.Equal(t, 3, strings.Count(body, "data:image/png;base64,"))
	assert.NotContains(t, body, dashboard.Prompt)
}

func TestUploadWithoutFileShowsPrompt(t *testing.T) {
	rec := post(t, newServer(0).Handler(), "/", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), dashboard.Prompt)
}

func TestUploadParseErrorIsReadable(t *testing.T) {
	rec := post(t, newServer(0).Handler(), "/", "bad.csv", "A,B\n1,2,3\n")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Could not read the uploaded file")
}

func TestUploadTooLarge(t *testing.T) {
	rec := post(t, newServer(64).Handler(), "/", "solar.csv", solarCSV(50))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestSummaryEndpoint(t *testing.T) {
	h := newServer(0).Handler()
	rec := post(t, h, "/api/summary", "solar.csv", solarCSV(12))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var got dashboard.Summary
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.NotNil(t, got.Rows)
	assert.Equal(t, 12, *got.Rows)
	require.Len(t, got.Missing, 3)
	assert.Equal(t, dashboard.MissingSummary{Column: "GHI", Missing: 0}, got.Missing[1])
	require.NotNil(t, got.Histogram)
	assert.Len(t, got.Histogram.Bins, analysis.HistogramBins)
	require.NotNil(t, got.TimeSeries)
	assert.Equal(t, 12, got.TimeSeries.Points)
}

func TestSummaryStatuses(t *testing.T) {
	h := newServer(0).Handler()

	rec := post(t, h, "/api/summary", "notes.txt", "hi")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Could not read the uploaded file")

	rec = post(t, h, "/api/summary", "sites.csv", "Site\nnorth\n")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "no numeric columns")

	rec = post(t, h, "/api/summary", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportEndpoint(t *testing.T) {
	h := newServer(0).Handler()
	rec := post(t, h, "/export.xlsx", "solar.csv", solarCSV(10))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxMediaType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), `filename="solar.xlsx"`)
	f, err := excelize.OpenReader(rec.Body)
	require.NoError(t, err)
	defer f.Close()
	assert.Contains(t, f.GetSheetList(), "Describe")

	rec = post(t, h, "/export.xlsx", "", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = post(t, h, "/export.xlsx", "bad.csv", "A\n1,2\n")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHealthz(t *testing.T) {
	rec := httptest.NewRecorder()
	newServer(0).Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestWritePageStandalone(t *testing.T) {
	c := dashboard.New(dashboard.Options{NoFigures: true}, nil)
	p := c.Render(context.Background(), "ab.csv", strings.NewReader("A,B\n1,2\n2,1\n"))
	var buf bytes.Buffer
	require.NoError(t, WritePage(&buf, p))
	out := buf.String()
	assert.NotContains(t, out, "<form")
	assert.Contains(t, out, "Descriptive Statistics")
	assert.NotContains(t, out, "Time Series Analysis")
	assert.NotContains(t, out, "Distribution</h2>")
}
