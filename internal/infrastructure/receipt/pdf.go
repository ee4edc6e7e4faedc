package receipt

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/jung-kurt/gofpdf/v2"
	"github.com/riskibarqy/league-auction/internal/domain/registration"
)

const (
	pageWidth  = 190.0
	labelWidth = 60.0
)

// PDFRenderer prints a registration confirmation grouped by form section.
type PDFRenderer struct {
	title    string
	location *time.Location
}

func NewPDFRenderer(title string, location *time.Location) *PDFRenderer {
	if title == "" {
		title = "Tournament Registration"
	}
	if location == nil {
		location = time.UTC
	}
	return &PDFRenderer{title: title, location: location}
}

// Render implements usecase.ReceiptRenderer.
func (r *PDFRenderer) Render(ctx context.Context, item registration.Registration, sections []registration.SectionSummary) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.SetTitle(r.title, true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(pageWidth, 10, tr(r.title), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(pageWidth, 6, tr(fmt.Sprintf("Registration ID: %s", item.ID)), "", 1, "C", false, 0, "")
	if !item.CreatedAt.IsZero() {
		submitted := item.CreatedAt.In(r.location).Format("02-Jan-2006 03:04 PM")
		pdf.CellFormat(pageWidth, 6, "Submitted: "+submitted, "", 1, "C", false, 0, "")
	}
	pdf.Ln(4)

	for _, section := range sections {
		pdf.SetFillColor(240, 240, 240)
		pdf.SetFont("Arial", "B", 12)
		pdf.CellFormat(pageWidth, 8, tr(section.Title), "1", 1, "L", true, 0, "")

		pdf.SetFont("Arial", "", 10)
		for _, line := range section.Lines {
			value := line.Value
			if value == "" {
				value = "-"
			}
			pdf.CellFormat(labelWidth, 7, tr(line.Label), "LB", 0, "L", false, 0, "")
			pdf.CellFormat(pageWidth-labelWidth, 7, tr(value), "RB", 1, "L", false, 0, "")
		}
		pdf.Ln(3)
	}

	pdf.SetFont("Arial", "I", 9)
	pdf.MultiCell(pageWidth, 5, "Please keep this receipt for check-in. Payment is verified against the transaction id above.", "", "L", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, errors.Wrap(err, "render registration receipt")
	}
	return buf.Bytes(), nil
}
