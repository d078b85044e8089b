package services

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/Lllllllleong/tmpcompliance/internal/models"
)

// TimestampLayout formats the report timestamp.
const TimestampLayout = "2006-01-02 15:04:05"

// ReportMeta carries the non-classification fields of a report.
type ReportMeta struct {
	Timestamp time.Time
	Filename  string
}

// FormatReport renders the report body as plain text.
func FormatReport(meta ReportMeta, res models.ClassificationResult) string {
	var sb strings.Builder
	sb.WriteString("Traffic Management Plan Analysis Report\n")
	fmt.Fprintf(&sb, "Timestamp: %s\n", meta.Timestamp.Format(TimestampLayout))
	fmt.Fprintf(&sb, "Filename: %s\n\n", meta.Filename)
	sb.WriteString("Summary:\n")
	sb.WriteString("- This report analyzes the uploaded PDF to determine if it is a Traffic Management Plan (TMP).\n")
	sb.WriteString("- It checks for compliance with TCAWS standards by identifying key indicators.\n\n")
	fmt.Fprintf(&sb, "Is this a Traffic Management Plan? %s\n\n", yesNo(res.IsTMP))
	sb.WriteString("TCAWS Compliance Indicators Found:\n")
	if len(res.Matched) == 0 {
		sb.WriteString("- None found\n")
	}
	for _, hit := range res.Matched {
		fmt.Fprintf(&sb, "- %s\n", hit)
	}
	fmt.Fprintf(&sb, "\nCompliance Score: %d%%\n", res.Score)
	return sb.String()
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// ReportLayout places the report text on its single page. Coordinates are
// in points with the origin at the top-left corner of the page.
type ReportLayout struct {
	PageSize    string
	FontFamily  string
	FontSize    float64
	LineSpacing float64
	X, Y        float64
	Width       float64
	Height      float64
}

// DefaultReportLayout is an A4 page with a 12pt Helvetica text box spanning
// (50,50)-(550,800).
func DefaultReportLayout() ReportLayout {
	return ReportLayout{
		PageSize:    "A4",
		FontFamily:  "Helvetica",
		FontSize:    12,
		LineSpacing: 1.2,
		X:           50,
		Y:           50,
		Width:       500,
		Height:      750,
	}
}

// RenderReport lays text out in the layout's box on a single page. There is
// no pagination: text beyond the box is clipped.
func RenderReport(text string, layout ReportLayout, createdAt time.Time) ([]byte, error) {
	pdf := fpdf.New("P", "pt", layout.PageSize, "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	pdf.SetCreationDate(createdAt)
	pdf.SetTitle("Traffic Management Plan Analysis Report", false)
	pdf.SetCreator("tmpcompliance", false)
	pdf.AddPage()
	pdf.SetFont(layout.FontFamily, "", layout.FontSize)

	// Core fonts are cp1252; translate so accented filenames survive.
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.ClipRect(layout.X, layout.Y, layout.Width, layout.Height, false)
	pdf.SetXY(layout.X, layout.Y)
	pdf.MultiCell(layout.Width, layout.FontSize*layout.LineSpacing, tr(text), "", "L", false)
	pdf.ClipEnd()

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write report pdf: %w", err)
	}
	return buf.Bytes(), nil
}
