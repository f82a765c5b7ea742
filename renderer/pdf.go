package renderer

import (
	"fmt"
	"io"
	"time"

	"github.com/etnz/oneshot"
	"github.com/go-pdf/fpdf"
)

const (
	pdfMarginLeft   = 20.0
	pdfMarginTop    = 20.0
	pdfMarginRight  = 20.0
	pdfContentWidth = 210.0 - pdfMarginLeft - pdfMarginRight
)

// WriteSplitPDF writes the split panel of res as a one page A4 document.
func WriteSplitPDF(w io.Writer, res oneshot.SplitResult, now time.Time) error {
	s := NewSplit(res)
	r := &pdfSplitReport{pdf: fpdf.New("P", "mm", "A4", "")}
	r.pdf.SetMargins(pdfMarginLeft, pdfMarginTop, pdfMarginRight)
	r.pdf.SetTitle("Optimal Split", true)
	r.pdf.AddPage()

	r.pdf.SetFont("Arial", "B", 20)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(pdfContentWidth, 12, "Optimal Split for "+s.TotalIncome.String(), "", 1, "L", false, 0, "")
	r.pdf.SetFont("Arial", "I", 10)
	r.pdf.SetTextColor(80, 80, 80)
	r.pdf.CellFormat(pdfContentWidth, 6, fmt.Sprintf("Generated: %s", now.Format("2 January 2006")), "", 1, "L", false, 0, "")
	r.pdf.Ln(6)

	widths := []float64{50, 30, 45, 45}
	r.drawSectionHeader("Allocation")
	r.drawTableHeader([]string{"Schedule", "Share", "Income", "Tax"}, widths)
	r.drawTableRow([]string{"Individual", s.IndividualShare.String(), s.IndividualIncome.String(), s.IndividualTax.String()}, widths, false)
	r.drawTableRow([]string{"SBC", s.SBCShare.String(), s.SBCIncome.String(), s.SBCTax.String()}, widths, false)
	r.drawTableRow([]string{"Total", "", s.TotalIncome.String(), s.TotalTax.String()}, widths, true)
	r.pdf.Ln(4)
	r.pdf.SetFont("Arial", "B", 12)
	r.pdf.SetTextColor(50, 50, 50)
	r.pdf.CellFormat(pdfContentWidth, 8, "Effective tax rate: "+s.EffectiveRate.String(), "", 1, "L", false, 0, "")
	r.pdf.Ln(6)

	widths = []float64{80, 45, 45}
	r.drawSectionHeader("Compared to a Single Schedule")
	r.drawTableHeader([]string{"Everything as", "Tax", "Savings"}, widths)
	r.drawTableRow([]string{"Individual", s.AllIndividualTax.String(), s.SavingsVsIndividual.String()}, widths, false)
	r.drawTableRow([]string{"SBC", s.AllSBCTax.String(), s.SavingsVsSBC.String()}, widths, false)

	r.pdf.Ln(10)
	r.pdf.SetFont("Arial", "I", 8)
	r.pdf.SetTextColor(120, 120, 120)
	r.pdf.MultiCell(pdfContentWidth, 4, "Figures are computed from the configured tax schedules. This is not financial advice.", "", "L", false)

	return r.pdf.Output(w)
}

type pdfSplitReport struct {
	pdf *fpdf.Fpdf
}

func (r *pdfSplitReport) drawSectionHeader(title string) {
	r.pdf.SetFont("Arial", "B", 14)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(pdfContentWidth, 9, title, "", 1, "L", false, 0, "")
	r.pdf.SetDrawColor(0, 51, 102)
	r.pdf.Line(pdfMarginLeft, r.pdf.GetY(), pdfMarginLeft+pdfContentWidth, r.pdf.GetY())
	r.pdf.Ln(3)
}

func (r *pdfSplitReport) drawTableHeader(headers []string, widths []float64) {
	r.pdf.SetFillColor(0, 51, 102)
	r.pdf.SetTextColor(255, 255, 255)
	r.pdf.SetFont("Arial", "B", 10)
	for i, header := range headers {
		align := "L"
		if i > 0 {
			align = "R"
		}
		r.pdf.CellFormat(widths[i], 7, header, "1", 0, align, true, 0, "")
	}
	r.pdf.Ln(-1)
}

func (r *pdfSplitReport) drawTableRow(cells []string, widths []float64, isBold bool) {
	r.pdf.SetFillColor(250, 250, 250)
	r.pdf.SetTextColor(50, 50, 50)
	if isBold {
		r.pdf.SetFont("Arial", "B", 10)
		r.pdf.SetFillColor(240, 240, 240)
	} else {
		r.pdf.SetFont("Arial", "", 10)
	}
	for i, cell := range cells {
		align := "L"
		if i > 0 {
			align = "R"
		}
		r.pdf.CellFormat(widths[i], 6, cell, "1", 0, align, true, 0, "")
	}
	r.pdf.Ln(-1)
}
