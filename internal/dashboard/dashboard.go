// Package dashboard turns one uploaded dataset into a Page of derived tables
// and figures.
package dashboard

import (
	"context"
	"fmt"
	"io"
	"time"

	"go.uber.org/zap"

	"github.com/KaramelBytes/solardash/internal/analysis"
	"github.com/KaramelBytes/solardash/internal/parser"
	"github.com/KaramelBytes/solardash/internal/plots"
)

const (
	ValueColumn = "GHI"
	TimeColumn  = "Timestamp"
)

// Options configures a Controller.
type Options struct {
	Analysis analysis.Options
	// NoFigures skips PNG rendering. Every table is still computed and every
	// error still stops the render.
	NoFigures bool
}

// Controller renders uploads into pages. It holds no per-render state and is
// safe for concurrent use.
type Controller struct {
	opt Options
	log *zap.Logger
}

// New returns a Controller. A nil logger discards output.
func New(opt Options, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	if opt.Analysis.PreviewRows <= 0 {
		opt.Analysis.PreviewRows = analysis.DefaultOptions().PreviewRows
	}
	return &Controller{opt: opt, log: log}
}

type step struct {
	name string
	run  func(c *Controller, ds *analysis.Dataset, p *Page) error
}

// steps run in this order after a successful parse; the first error ends the
// render.
var steps = []step{
	{"preview", (*Controller).preview},
	{"shape", (*Controller).shape},
	{"info", (*Controller).info},
	{"missing values", (*Controller).missing},
	{"descriptive statistics", (*Controller).describe},
	{"correlation heatmap", (*Controller).heatmap},
	{"distribution", (*Controller).histogram},
	{"time series", (*Controller).timeSeries},
	{"recommendations", (*Controller).recommendations},
}

// Render parses r as the file called name and builds the page. A nil r
// yields a page holding only the upload prompt. Render never returns nil;
// failures are recorded in Page.Err.
func (c *Controller) Render(ctx context.Context, name string, r io.Reader) *Page {
	p := newPage(name)
	if r == nil {
		p.Prompt = Prompt
		return p
	}
	log := c.log.With(zap.String("report_id", p.ID), zap.String("file", name))
	start := time.Now()
	defer func() {
		fields := []zap.Field{zap.Duration("took", time.Since(start))}
		if p.Shape != nil {
			fields = append(fields, zap.Int("rows", p.Shape.Rows), zap.Int("cols", p.Shape.Cols))
		}
		if p.Err != nil {
			log.Warn("render stopped", append(fields, zap.Error(p.Err))...)
			return
		}
		log.Info("render complete", fields...)
	}()

	if err := ctx.Err(); err != nil {
		p.Err = err
		return p
	}
	ds, err := parser.ParseUpload(name, r, c.opt.Analysis)
	if err != nil {
		p.Err = err
		return p
	}
	p.Warnings = append(p.Warnings, ds.Warnings...)

	for _, s := range steps {
		if err := ctx.Err(); err != nil {
			p.Err = err
			return p
		}
		t := time.Now()
		if err := s.run(c, ds, p); err != nil {
			p.Err = fmt.Errorf("%s: %w", s.name, err)
			return p
		}
		log.Debug("step done", zap.String("step", s.name), zap.Duration("took", time.Since(t)))
	}
	return p
}

func (c *Controller) preview(ds *analysis.Dataset, p *Page) error {
	p.Preview = &Preview{Columns: ds.Names(), Rows: ds.Head(c.opt.Analysis.PreviewRows)}
	return nil
}

func (c *Controller) shape(ds *analysis.Dataset, p *Page) error {
	rows, cols := ds.Shape()
	p.Shape = &Shape{Rows: rows, Cols: cols}
	return nil
}

func (c *Controller) info(ds *analysis.Dataset, p *Page) error {
	p.Info = ds.Info()
	return nil
}

func (c *Controller) missing(ds *analysis.Dataset, p *Page) error {
	p.Missing = ds.MissingCounts()
	return nil
}

func (c *Controller) describe(ds *analysis.Dataset, p *Page) error {
	p.Stats = &Statistics{Summaries: ds.Describe()}
	return nil
}

func (c *Controller) heatmap(ds *analysis.Dataset, p *Page) error {
	m, err := ds.Correlate()
	if err != nil {
		return err
	}
	h := &Heatmap{Matrix: m}
	if !c.opt.NoFigures {
		if h.PNG, err = plots.Heatmap(m); err != nil {
			return err
		}
	}
	p.Heatmap = h
	return nil
}

func (c *Controller) histogram(ds *analysis.Dataset, p *Page) error {
	if _, ok := ds.Column(ValueColumn); !ok {
		return nil
	}
	dist, err := ds.Distribution(ValueColumn, analysis.HistogramBins)
	if err != nil {
		return err
	}
	h := &Histogram{Dist: dist}
	if !c.opt.NoFigures {
		if h.PNG, err = plots.Histogram(dist); err != nil {
			return err
		}
	}
	p.Histogram = h
	return nil
}

func (c *Controller) timeSeries(ds *analysis.Dataset, p *Page) error {
	if _, ok := ds.Column(TimeColumn); !ok {
		return nil
	}
	invalid, err := ds.SetTimeIndex(TimeColumn)
	if err != nil {
		return err
	}
	ts := &TimeSeries{TimeColumn: TimeColumn, ValueColumn: ValueColumn, Invalid: invalid}
	if invalid > 0 {
		p.Warnings = append(p.Warnings, fmt.Sprintf("%d %s values could not be parsed and were set to NaT", invalid, TimeColumn))
	}
	if _, ok := ds.Column(ValueColumn); !ok {
		ts.Notice = fmt.Sprintf("Column %s not found; there is no series to plot over %s.", ValueColumn, TimeColumn)
		p.TimeSeries = ts
		return nil
	}
	pts, err := ds.TimeSeries(TimeColumn, ValueColumn)
	if err != nil {
		return err
	}
	ts.Points = len(pts)
	if !c.opt.NoFigures {
		if ts.PNG, err = plots.TimeSeries(ValueColumn, pts); err != nil {
			return err
		}
	}
	p.TimeSeries = ts
	return nil
}

func (c *Controller) recommendations(_ *analysis.Dataset, p *Page) error {
	p.Recommendations = append([]Recommendation(nil), Recommendations...)
	return nil
}
