package report

import (
	"bytes"
	"fmt"

	"github.com/go-pdf/fpdf"

	"rentledger/internal/core"
)

// Letter-page layout constants. Y coordinates grow upward from the page
// bottom; the renderer flips them when drawing.
const (
	pageHeight  = 792.0
	topY        = 750.0
	bottomY     = 50.0
	leftX       = 50.0
	titleStep   = 30.0
	lineStep    = 20.0
	sectionStep = 30.0
)

// PDFLine is one positioned string of the report.
type PDFLine struct {
	Page int
	Y    float64
	Text string
}

// PDFInput carries everything the report shows.
type PDFInput struct {
	Filter    core.Filter
	Totals    core.Totals
	Vacancy   float64
	Summaries []core.ApartmentSummary
}

// LayoutPDF computes every line of the report with its page and cursor
// position. Only the per-apartment section can overflow a page: the
// preamble is short enough to always fit, so overflow is checked after
// each summary line and nowhere else.
func LayoutPDF(in PDFInput) []PDFLine {
	page := 1
	y := topY
	var lines []PDFLine

	put := func(text string, step float64) {
		lines = append(lines, PDFLine{Page: page, Y: y, Text: text})
		y -= step
	}

	put("Rental Report", titleStep)
	if in.Filter.HasPeriod() {
		put(fmt.Sprintf("Period: %s/%s", in.Filter.Month, in.Filter.Year), lineStep)
	}
	if in.Filter.HasApartment() {
		put(fmt.Sprintf("Apartment: %s", in.Filter.Apartment), lineStep)
	}
	put(fmt.Sprintf("Total Income: $ %s", in.Totals.Income.Fixed2()), lineStep)
	put(fmt.Sprintf("Total Expenses: $ %s", in.Totals.Expense.Fixed2()), lineStep)
	put(fmt.Sprintf("Balance: $ %s", in.Totals.Balance.Fixed2()), sectionStep)
	put(fmt.Sprintf("Vacancy Rate: %.2f%%", in.Vacancy), sectionStep)
	put("Summary by Apartment:", lineStep)

	for _, s := range in.Summaries {
		put(fmt.Sprintf("%s: Income $%s, Expenses $%s, %s",
			s.Apartment, s.Income.Fixed2(), s.Expense.Fixed2(), s.Status), lineStep)
		if y < bottomY {
			page++
			y = topY
		}
	}
	return lines
}

// RenderPDF draws the layout with fpdf and returns the document bytes.
func RenderPDF(in PDFInput) ([]byte, error) {
	lines := LayoutPDF(in)

	doc := fpdf.New("P", "pt", "Letter", "")
	doc.SetFont("Helvetica", "", 12)
	page := 0
	for _, line := range lines {
		for page < line.Page {
			doc.AddPage()
			page++
		}
		doc.Text(leftX, pageHeight-line.Y, line.Text)
	}
	if page == 0 {
		doc.AddPage()
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
