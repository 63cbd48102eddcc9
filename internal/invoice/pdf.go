package invoice

import (
	"fmt"
	"os"
	"path/filepath"

	"dailydairy-backend/internal/models"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
)

// invoiceLine is one subscription row on the printed invoice.
type invoiceLine struct {
	Product  string
	Variant  string
	Period   int
	TotalQty float64
	Rate     float64
	Amount   float64
}

// WritePDF renders the invoice to <dir>/<uuid>.pdf and returns the path.
func WritePDF(dir string, inv *models.Invoice, order *models.ProductOrder, memberName string, subs []models.Subscription) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}

	lines := make([]invoiceLine, 0, len(subs))
	for _, s := range subs {
		lines = append(lines, invoiceLine{
			Product:  s.Product.Name,
			Variant:  s.Variant.Name,
			Period:   s.Period,
			TotalQty: s.TotalQty,
			Rate:     s.Rate,
			Amount:   s.Amount,
		})
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, "Daily Dairy - Tax Invoice")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Invoice No: %s", inv.InvoiceNo))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Order No: %s", order.OrderNo))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Billed To: %s", memberName))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", inv.GeneratedAt.Format("2006-01-02")))
	pdf.Ln(10)

	// table header
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(60, 8, "Product", "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 8, "Variant", "1", 0, "L", false, 0, "")
	pdf.CellFormat(20, 8, "Days", "1", 0, "R", false, 0, "")
	pdf.CellFormat(25, 8, "Qty", "1", 0, "R", false, 0, "")
	pdf.CellFormat(25, 8, "Rate", "1", 0, "R", false, 0, "")
	pdf.CellFormat(30, 8, "Amount", "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, l := range lines {
		pdf.CellFormat(60, 8, l.Product, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 8, l.Variant, "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 8, fmt.Sprintf("%d", l.Period), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 8, fmt.Sprintf("%.2f", l.TotalQty), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 8, fmt.Sprintf("%.2f", l.Rate), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 8, fmt.Sprintf("%.2f", l.Amount), "1", 1, "R", false, 0, "")
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(160, 8, "Total", "", 0, "R", false, 0, "")
	pdf.CellFormat(30, 8, fmt.Sprintf("%.2f", order.TotalAmount), "1", 1, "R", false, 0, "")
	pdf.CellFormat(160, 8, "Wallet Applied", "", 0, "R", false, 0, "")
	pdf.CellFormat(30, 8, fmt.Sprintf("%.2f", order.WalletAmountUsed), "1", 1, "R", false, 0, "")
	pdf.CellFormat(160, 8, "Payable", "", 0, "R", false, 0, "")
	pdf.CellFormat(30, 8, fmt.Sprintf("%.2f", order.PayableAmount), "1", 1, "R", false, 0, "")

	path := filepath.Join(dir, uuid.NewString()+".pdf")
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", err
	}
	return path, nil
}
