package receipt

import (
	"fmt"
	"io"
	"strconv"

	"github.com/go-pdf/fpdf"
)

const dateLayout = "2006-01-02 15:04"

// PDFRenderer draws a single-page A4 receipt.
type PDFRenderer struct {
	StoreName string
}

func NewPDFRenderer(storeName string) *PDFRenderer {
	return &PDFRenderer{StoreName: storeName}
}

func (p *PDFRenderer) ContentType() string {
	return "application/pdf"
}

func (p *PDFRenderer) Render(w io.Writer, r Receipt) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Receipt #%d", r.OrderID), true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, tr(p.StoreName), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 7, fmt.Sprintf("Receipt for order #%d", r.OrderID), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.CellFormat(0, 6, tr("Customer: "+r.CustomerName), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, tr("Email: "+r.CustomerEmail), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 6, "Date: "+r.CreatedAt.Format(dateLayout), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	widths := []float64{90, 25, 35, 40}
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(230, 230, 230)
	for i, h := range []string{"Product", "Qty", "Unit price", "Subtotal"} {
		align := "R"
		if i == 0 {
			align = "L"
		}
		pdf.CellFormat(widths[i], 8, h, "1", 0, align, true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 11)
	for _, l := range r.Lines {
		pdf.CellFormat(widths[0], 7, tr(l.ProductName), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 7, strconv.Itoa(l.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[2], 7, l.UnitPrice.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 7, l.Subtotal.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(widths[0]+widths[1]+widths[2], 9, "Total", "1", 0, "R", false, 0, "")
	pdf.CellFormat(widths[3], 9, r.Total.StringFixed(2), "1", 1, "R", false, 0, "")

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("build receipt pdf: %w", err)
	}
	return pdf.Output(w)
}
