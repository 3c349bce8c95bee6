package server

import (
	"encoding/base64"
	"fmt"
	"html/template"
	"io"
	"math"

	"github.com/KaramelBytes/solardash/internal/analysis"
	"github.com/KaramelBytes/solardash/internal/dashboard"
)

var funcMap = template.FuncMap{
	"pngURI": func(b []byte) template.URL {
		return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(b))
	},
	"fmtStat": func(v float64) string {
		switch {
		case math.IsNaN(v):
			return "NaN"
		case v == math.Trunc(v) && math.Abs(v) < 1e15:
			return fmt.Sprintf("%.1f", v)
		default:
			return fmt.Sprintf("%.6g", v)
		}
	},
	"summaryLabels": func() []string { return analysis.SummaryLabels },
}

// view is the template data of the page.
type view struct {
	Page *dashboard.Page
	// Form adds the upload form; static reports leave it out.
	Form        bool
	MaxUploadMB int64
}

var tmplPage = template.Must(template.New("page").Funcs(funcMap).Parse(tmplBase + tmplContent))

// WritePage renders p as a standalone HTML document with figures inlined.
func WritePage(w io.Writer, p *dashboard.Page) error {
	return tmplPage.ExecuteTemplate(w, "base", view{Page: p})
}

const tmplBase = `
{{define "base"}}<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width,initial-scale=1">
<title>{{.Page.Title}}</title>
<style>
*{box-sizing:border-box;margin:0;padding:0}
body{font-family:system-ui,sans-serif;background:#0d1117;color:#c9d1d9;font-size:14px;line-height:1.5}
nav{background:#161b22;border-bottom:1px solid #30363d;padding:8px 16px;display:flex;gap:16px;align-items:center}
nav .brand{color:#f0f6fc;font-weight:700;font-size:15px}
main{padding:16px;max-width:1240px;margin:0 auto}
h1{font-size:22px;font-weight:700;color:#f0f6fc;margin-bottom:4px}
h2{font-size:13px;font-weight:600;color:#8b949e;text-transform:uppercase;letter-spacing:.06em;margin:20px 0 8px}
.desc{color:#8b949e;margin-bottom:16px}
.cards{display:flex;gap:12px;flex-wrap:wrap;margin-bottom:12px}
.card{background:#161b22;border:1px solid #30363d;border-radius:6px;padding:12px 16px;min-width:160px}
.card .val{font-size:22px;font-weight:700;color:#f0f6fc}
.card .lbl{font-size:11px;color:#8b949e;margin-top:2px}
.section{background:#161b22;border:1px solid #30363d;border-radius:6px;margin-bottom:16px;overflow-x:auto}
.section-hdr{padding:8px 12px;border-bottom:1px solid #30363d;font-size:11px;font-weight:600;color:#8b949e;text-transform:uppercase;letter-spacing:.05em;background:#0d1117}
table{width:100%;border-collapse:collapse;font-size:12px}
th{text-align:left;padding:6px 10px;border-bottom:1px solid #30363d;color:#8b949e;font-weight:600;font-size:11px}
td{padding:5px 10px;border-bottom:1px solid #21262d;font-family:monospace}
pre{padding:10px 12px;font-family:monospace;font-size:12px;white-space:pre}
figure{padding:12px;text-align:center}
figure img{max-width:100%;background:#fff;border-radius:4px}
form{display:flex;gap:8px;align-items:center;flex-wrap:wrap;padding:12px}
button{background:#1f6feb;border:0;border-radius:4px;color:#fff;padding:6px 12px;cursor:pointer}
.dim{color:#8b949e}
.info{background:#1f6feb22;border:1px solid #1f6feb;border-radius:6px;padding:10px 12px;color:#58a6ff}
.warn{color:#f59e0b}
.err{background:#f8717122;border:1px solid #f87171;border-radius:6px;padding:10px 12px;color:#f87171;margin-top:16px}
ul{padding:10px 12px 10px 30px}
</style>
</head>
<body>
<nav><span class="brand">solardash</span>{{with .Page.ID}}<span class="dim">report {{.}}</span>{{end}}</nav>
<main>
<h1>{{.Page.Title}}</h1>
<p class="desc">{{.Page.Description}}</p>
{{if .Form}}
<div class="section">
  <div class="section-hdr">Upload your dataset (CSV format)</div>
  <form method="post" action="/" enctype="multipart/form-data">
    <input type="file" name="dataset" accept=".csv,.tsv,.xlsx,text/csv">
    <button type="submit">Analyze</button>
    <button type="submit" formaction="/export.xlsx">Download XLSX</button>
    <span class="dim">limit {{.MaxUploadMB}} MB</span>
  </form>
</div>
{{end}}
{{template "content" .}}
</main>
</body>
</html>
{{end}}
`

const tmplContent = `
{{define "content"}}{{with .Page}}
{{if .Prompt}}<p class="info">{{.Prompt}}</p>{{end}}

{{with .Preview}}
<h2>Dataset Preview</h2>
<div class="section"><table>
<tr><th></th>{{range .Columns}}<th>{{.}}</th>{{end}}</tr>
{{range $i, $row := .Rows}}<tr><th>{{$i}}</th>{{range $row}}<td>{{.}}</td>{{end}}</tr>{{end}}
</table></div>
{{end}}

{{with .Shape}}
<h2>Dataset Information</h2>
<div class="cards">
  <div class="card"><div class="val">{{.Rows}}</div><div class="lbl">Number of rows: {{.Rows}}</div></div>
  <div class="card"><div class="val">{{.Cols}}</div><div class="lbl">Number of columns: {{.Cols}}</div></div>
</div>
{{end}}
{{with .Info}}<div class="section"><pre>{{.Text}}</pre></div>{{end}}

{{with .Missing}}
<h2>Missing Values</h2>
<div class="section"><table>
<tr><th>Column</th><th>Missing</th></tr>
{{range .}}<tr><td>{{.Column}}</td><td>{{.Missing}}</td></tr>{{end}}
</table></div>
{{end}}

{{with .Stats}}
<h2>Descriptive Statistics</h2>
<div class="section">
{{if .Summaries}}<table>
<tr><th></th>{{range .Summaries}}<th>{{.Column}}</th>{{end}}</tr>
{{range $i, $label := summaryLabels}}<tr><th>{{$label}}</th>{{range $.Page.Stats.Summaries}}<td>{{fmtStat (index .Values $i)}}</td>{{end}}</tr>{{end}}
</table>{{else}}<p class="info">No numeric columns to describe.</p>{{end}}
</div>
{{end}}

{{if .Heatmap}}
<h2>Exploratory Data Analysis</h2>
<h2>Correlation Heatmap</h2>
<div class="section">{{if .Heatmap.PNG}}<figure><img alt="Correlation Heatmap" src="{{pngURI .Heatmap.PNG}}"></figure>{{end}}</div>
{{end}}

{{with .Histogram}}
<h2>Global Horizontal Irradiance ({{.Dist.Column}}) Distribution</h2>
<div class="section">{{if .PNG}}<figure><img alt="Distribution of {{.Dist.Column}}" src="{{pngURI .PNG}}"></figure>{{end}}</div>
{{end}}

{{with .TimeSeries}}
<h2>Time Series Analysis of {{.ValueColumn}}</h2>
<div class="section">
{{if .Notice}}<p class="info">{{.Notice}}</p>{{end}}
{{if .PNG}}<figure><img alt="Time Series of {{.ValueColumn}}" src="{{pngURI .PNG}}"></figure>{{end}}
</div>
{{end}}

{{with .Recommendations}}
<h2>Insights and Recommendations</h2>
<div class="section"><ul>
{{range .}}<li><strong>{{.Topic}}</strong>: {{.Text}}</li>{{end}}
</ul></div>
{{end}}

{{range .Warnings}}<p class="warn">⚠ {{.}}</p>{{end}}
{{with .ErrorMessage}}<p class="err">{{.}}</p>{{end}}
{{end}}{{end}}
`
