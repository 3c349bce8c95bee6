package dashboard

import (
	"errors"

	"github.com/google/uuid"

	"github.com/KaramelBytes/solardash/internal/analysis"
)

const (
	Title       = "Solar Farm Data Analysis"
	Description = "This app performs analysis on solar radiation data and provides insights."
	Prompt      = "Please upload a dataset to begin analysis."
)

// Recommendation is one bullet of the closing insights block.
type Recommendation struct {
	Topic string `json:"topic"`
	Text  string `json:"text"`
}

// Recommendations is the static insights block shown at the end of every
// completed page. It does not depend on the data.
var Recommendations = []Recommendation{
	{Topic: "Regions with High GHI", Text: "Focus on areas with high GHI values for solar farm installations."},
	{Topic: "Impact of Weather Variables", Text: "Analyze the impact of relative humidity, wind speed, and temperature on solar efficiency."},
	{Topic: "Cleaning Events", Text: "Investigate the effect of cleaning events on module efficiency."},
}

// Preview is the leading rows of the dataset as display strings.
type Preview struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// Shape is the row and column count of the dataset.
type Shape struct {
	Rows, Cols int
}

// Statistics holds the descriptive statistics section. Summaries is empty
// when the dataset has no numeric columns.
type Statistics struct {
	Summaries []analysis.Summary
}

type Heatmap struct {
	Matrix *analysis.CorrMatrix
	PNG    []byte
}

type Histogram struct {
	Dist *analysis.Distribution
	PNG  []byte
}

// TimeSeries is the time-ordered value chart. Notice is set instead of PNG
// when there is nothing to plot against the time column.
type TimeSeries struct {
	TimeColumn  string
	ValueColumn string
	Points      int
	Invalid     int
	PNG         []byte
	Notice      string
}

// Page is the result of one render. Sections are nil until the step that
// produces them has run; a failed render keeps the sections produced before
// the failure.
type Page struct {
	ID          string
	Title       string
	Description string
	FileName    string
	// Prompt is set, and nothing else is, when no file was supplied.
	Prompt string

	Preview         *Preview
	Shape           *Shape
	Info            *analysis.Info
	Missing         []analysis.MissingCount
	Stats           *Statistics
	Heatmap         *Heatmap
	Histogram       *Histogram
	TimeSeries      *TimeSeries
	Recommendations []Recommendation

	Warnings []string
	Err      error
}

func newPage(name string) *Page {
	return &Page{
		ID:          uuid.NewString(),
		Title:       Title,
		Description: Description,
		FileName:    name,
	}
}

// ParseFailed reports whether the upload could not be read at all.
func (p *Page) ParseFailed() bool {
	var pe *analysis.ParseError
	return errors.As(p.Err, &pe)
}

// ErrorMessage renders Err for display, or "" when the render succeeded.
func (p *Page) ErrorMessage() string {
	if p.Err == nil {
		return ""
	}
	if p.ParseFailed() {
		return "Could not read the uploaded file: " + p.Err.Error()
	}
	return "Rendering stopped: " + p.Err.Error()
}

// Complete reports whether every step ran.
func (p *Page) Complete() bool {
	return p.Err == nil && p.Recommendations != nil
}
