package report

import (
	"alcyxob/coach-analytics/internal/export"
	"encoding/json"
)

// renderDashboard emits the document as JSON for the dashboard pages.
func renderDashboard(doc Document) (export.Blob, error) {
	if doc.Sections == nil {
		doc.Sections = []Section{}
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return export.Blob{}, err
	}
	return export.Blob{Data: data, MIMEType: export.MIMEJSON}, nil
}
