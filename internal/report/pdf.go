package report

import (
	"alcyxob/coach-analytics/internal/export"
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
	"go.uber.org/zap"
)

const (
	pdfMargin     = 15.0
	pdfLineHeight = 6.0
	labelWidth    = 110.0
)

// renderPDF lays out doc and collects the PDF as it is written, chunk by
// chunk. It returns only once the writer has finished and the last chunk is
// in.
func (r *Renderer) renderPDF(ctx context.Context, doc Document) (export.Blob, error) {
	pdf := buildPDF(doc, r.pdfCompression)
	if err := pdf.Error(); err != nil {
		return export.Blob{}, err
	}

	pr, pw := io.Pipe()
	go func() {
		pw.CloseWithError(pdf.Output(pw))
	}()

	var out bytes.Buffer
	buf := make([]byte, r.chunkSize)
	chunks := 0
	for {
		if err := ctx.Err(); err != nil {
			pr.CloseWithError(err) // Unblocks the writer goroutine
			return export.Blob{}, err
		}
		n, err := pr.Read(buf)
		if n > 0 {
			out.Write(buf[:n])
			chunks++
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return export.Blob{}, err
		}
	}

	r.logger.Debug("PDF assembled", zap.Int("chunks", chunks), zap.Int("bytes", out.Len()))
	return export.Blob{Data: out.Bytes(), MIMEType: export.MIMEPDF}, nil
}

func buildPDF(doc Document, compress bool) *fpdf.Fpdf {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(compress)
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin+5)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetTitle(doc.Title, true)
	pdf.SetCreator("coach-analytics", true)
	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-pdfMargin)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(128, 128, 128)
		pdf.CellFormat(0, 10, tr(doc.Footer), "", 0, "L", false, 0, "")
		pdf.SetX(pdfMargin)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "R", false, 0, "")
	})

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetTextColor(20, 20, 20)
	pdf.CellFormat(0, 10, tr(doc.Title), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	for _, s := range doc.Sections {
		pdf.SetFont("Helvetica", "B", 14)
		pdf.SetTextColor(20, 60, 120)
		pdf.CellFormat(0, 9, tr(s.Title), "B", 1, "L", false, 0, "")
		pdf.Ln(1)
		pdf.SetTextColor(20, 20, 20)

		if s.Placeholder {
			pdf.SetFont("Helvetica", "I", 10)
			pdf.MultiCell(0, pdfLineHeight, placeholderText, "", "L", false)
		}
		if s.Summary != "" {
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, pdfLineHeight, tr(s.Summary), "", "L", false)
		}
		for _, g := range s.Groups {
			pdf.Ln(1)
			pdf.SetFont("Helvetica", "B", 11)
			pdf.CellFormat(0, 7, tr(g.Title), "", 1, "L", false, 0, "")
			pdf.SetFont("Helvetica", "", 10)
			for i, m := range g.Metrics {
				pdf.SetFillColor(242, 245, 250)
				fill := i%2 == 0
				pdf.CellFormat(labelWidth, pdfLineHeight, tr(m.Label), "", 0, "L", fill, 0, "")
				pdf.CellFormat(0, pdfLineHeight, m.Display(), "", 1, "R", fill, 0, "")
			}
			for _, d := range g.Details {
				pdf.MultiCell(0, pdfLineHeight, tr(d), "", "L", false)
			}
		}
		pdf.Ln(4)
	}
	return pdf
}
