package web

import (
	"bufio"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/querydeck/scribe/internal/store"
)

// writeReportPDF renders a stored report as a minimal PDF: the query as the
// title, the report text with basic heading layout, and the source URLs as
// clickable links. This is intentionally simple and not full Markdown layout.
func writeReportPDF(w io.Writer, rep store.Report) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.MultiCell(0, 8, rep.Query, "", "L", false)
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 6, rep.Timestamp.Format("2006-01-02 15:04 UTC"), "", 1, "L", false, 0, "")
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "", 11)

	scanner := bufio.NewScanner(strings.NewReader(rep.ReportContent))
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			pdf.Ln(5)
			continue
		}
		if strings.HasPrefix(line, "#") {
			i := 0
			for i < len(line) && line[i] == '#' {
				i++
			}
			text := strings.TrimSpace(line[i:])
			if text == "" {
				continue
			}
			size := 14.0
			if i >= 2 {
				size = 12.0
			}
			pdf.SetFont("Helvetica", "B", size)
			pdf.CellFormat(0, 8, text, "", 1, "L", false, 0, "")
			pdf.SetFont("Helvetica", "", 11)
			continue
		}
		pdf.MultiCell(0, 5, line, "", "L", false)
	}

	if len(rep.Sources) > 0 {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 8, "Sources", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		for _, u := range rep.Sources {
			pdf.WriteLinkString(5, u, u)
			pdf.Ln(6)
		}
	}

	return pdf.Output(w)
}
