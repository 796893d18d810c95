package main

import (
	"fmt"
	"strconv"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfPageWidth  = 210 // A4 width in mm
	pdfMargin     = 10  // Margin in mm
	pdfLineHeight = 6   // Row height in mm
	pdfFontSize   = 9
	pdfNameWidth  = 80 // Source column width in mm
)

// writePDFReport renders the count table as a PDF: one row per counted
// source, the selected metric columns, and a totals row when more than
// one source was requested.
func writePDFReport(results []Result, summary Summary, metrics []Metric, outputPath string) error {
	logVerbose("Generating PDF report at %s", outputPath)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.AddPage()

	usable := float64(pdfPageWidth - 2*pdfMargin)
	colWidth := (usable - pdfNameWidth) / float64(len(metrics))

	// Header
	pdf.SetFont("Helvetica", "B", pdfFontSize)
	pdf.CellFormat(pdfNameWidth, pdfLineHeight, "Source", "B", 0, "L", false, 0, "")
	for _, m := range metrics {
		pdf.CellFormat(colWidth, pdfLineHeight, m.Label(), "B", 0, "R", false, 0, "")
	}
	pdf.Ln(-1)

	// Rows
	pdf.SetFont("Courier", "", pdfFontSize)
	for _, res := range results {
		if res.Err != nil {
			continue
		}
		name := res.Name
		if res.Stdin {
			name = "(standard input)"
		}
		pdf.CellFormat(pdfNameWidth, pdfLineHeight, name, "", 0, "L", false, 0, "")
		for _, m := range metrics {
			pdf.CellFormat(colWidth, pdfLineHeight, strconv.FormatInt(m.Of(res.Counts), 10), "", 0, "R", false, 0, "")
		}
		pdf.Ln(-1)
	}

	// Totals
	if len(results) > 1 {
		pdf.SetFont("Helvetica", "B", pdfFontSize)
		pdf.CellFormat(pdfNameWidth, pdfLineHeight, "total", "T", 0, "L", false, 0, "")
		for _, m := range metrics {
			pdf.CellFormat(colWidth, pdfLineHeight, strconv.FormatInt(m.Of(summary.Total), 10), "T", 0, "R", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if summary.Failed > 0 {
		pdf.Ln(pdfLineHeight / 2)
		pdf.SetFont("Helvetica", "", pdfFontSize)
		pdf.CellFormat(usable, pdfLineHeight, fmt.Sprintf("Sources failed to process: %d", summary.Failed), "", 0, "L", false, 0, "")
		pdf.Ln(-1)
	}

	if err := pdf.OutputFileAndClose(outputPath); err != nil {
		return fmt.Errorf("failed to save PDF to %s: %w", outputPath, err)
	}
	logVerbose("Saved PDF report to %s", outputPath)
	return nil
}
