package report

import (
	"alcyxob/coach-analytics/internal/export"
	"bytes"
	"html/template"

	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"
)

// markdown renders section summaries. Raw HTML in the input is escaped
// because WithUnsafe is not set.
var markdown = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

var emailTemplate = template.Must(template.New("email").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
</head>
<body style="margin:0;padding:24px;background:#f4f6fa;font-family:Helvetica,Arial,sans-serif;color:#1a1a1a;">
<table role="presentation" width="100%" cellpadding="0" cellspacing="0" style="max-width:640px;margin:0 auto;background:#ffffff;border-radius:8px;">
<tr><td style="padding:24px;">
<h1 style="font-size:22px;margin:0 0 16px;">{{.Title}}</h1>
{{range .Sections}}
<div class="section" id="{{.ID}}" style="margin-bottom:24px;">
<h2 style="font-size:18px;color:#143c78;border-bottom:1px solid #dde3ee;padding-bottom:4px;">{{.Title}}</h2>
{{if .Placeholder}}<p style="color:#888;font-style:italic;">{{$.PlaceholderText}}</p>{{end}}
{{if .Summary}}{{.Summary}}{{end}}
{{range .Groups}}
<h3 style="font-size:15px;margin:12px 0 6px;">{{.Title}}</h3>
{{if .Metrics}}<table role="presentation" width="100%" cellpadding="4" cellspacing="0" style="font-size:14px;">
{{range .Metrics}}<tr><td>{{.Label}}</td><td style="text-align:right;font-weight:bold;">{{.Value}}</td></tr>
{{end}}</table>{{end}}
{{range .Details}}<p style="font-size:13px;margin:4px 0;">{{.}}</p>
{{end}}{{end}}
</div>
{{end}}
<p style="font-size:12px;color:#888;border-top:1px solid #dde3ee;padding-top:8px;">{{.Footer}}</p>
</td></tr>
</table>
</body>
</html>
`))

type emailMetric struct {
	Label string
	Value string
}

type emailGroup struct {
	Title   string
	Metrics []emailMetric
	Details []string
}

type emailSection struct {
	ID          string
	Title       string
	Summary     template.HTML
	Placeholder bool
	Groups      []emailGroup
}

type emailView struct {
	Title           string
	Sections        []emailSection
	Footer          string
	PlaceholderText string
}

func renderEmail(doc Document) (export.Blob, error) {
	view := emailView{Title: doc.Title, Footer: doc.Footer, PlaceholderText: placeholderText}
	for _, s := range doc.Sections {
		es := emailSection{ID: s.ID, Title: s.Title, Placeholder: s.Placeholder}
		if s.Summary != "" {
			var md bytes.Buffer
			if err := markdown.Convert([]byte(s.Summary), &md); err != nil {
				return export.Blob{}, err
			}
			es.Summary = template.HTML(md.String()) // goldmark output, raw HTML escaped
		}
		for _, g := range s.Groups {
			eg := emailGroup{Title: g.Title, Details: g.Details}
			for _, m := range g.Metrics {
				eg.Metrics = append(eg.Metrics, emailMetric{Label: m.Label, Value: m.Display()})
			}
			es.Groups = append(es.Groups, eg)
		}
		view.Sections = append(view.Sections, es)
	}

	var buf bytes.Buffer
	if err := emailTemplate.Execute(&buf, view); err != nil {
		return export.Blob{}, err
	}
	return export.Blob{Data: buf.Bytes(), MIMEType: export.MIMEHTML}, nil
}
