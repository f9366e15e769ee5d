// Package receipt renders a PDF receipt from a materialized order. It reads
// only the order's frozen line items, never the live catalog, so rendering is
// idempotent and side-effect-free.
package receipt

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"

	"craftstore/internal/entity"
)

// Render produces the PDF bytes for an order.
func Render(order *entity.Order) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, fmt.Sprintf("Receipt - Order #%d", order.ID))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Date: %s", order.CreatedAt.Format("2006-01-02 15:04")))
	pdf.Ln(6)
	pdf.Cell(0, 6, fmt.Sprintf("Payment: %s", order.PaymentMethod))
	pdf.Ln(6)
	if order.Address != "" {
		pdf.Cell(0, 6, fmt.Sprintf("Deliver to: %s", order.Address))
		pdf.Ln(6)
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(80, 7, "Item", "1", 0, "L", false, 0, "")
	pdf.CellFormat(25, 7, "Unit", "1", 0, "R", false, 0, "")
	pdf.CellFormat(25, 7, "Price", "1", 0, "R", false, 0, "")
	pdf.CellFormat(15, 7, "Qty", "1", 0, "R", false, 0, "")
	pdf.CellFormat(30, 7, "Total", "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, it := range order.Items {
		lineTotal := it.EffectivePrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
		pdf.CellFormat(80, 7, fmt.Sprintf("%s (%s)", it.ProductName, it.VariantLabel), "1", 0, "L", false, 0, "")
		pdf.CellFormat(25, 7, it.UnitPrice.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(25, 7, it.EffectivePrice.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(15, 7, fmt.Sprintf("%d", it.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(30, 7, lineTotal.StringFixed(2), "1", 1, "R", false, 0, "")
	}

	pdf.Ln(4)
	totalRow(pdf, "Subtotal", order.Subtotal.StringFixed(2), false)
	totalRow(pdf, "Discount", "-"+order.Discount.StringFixed(2), false)
	totalRow(pdf, "Delivery", order.DeliveryCost.StringFixed(2), false)
	totalRow(pdf, "Total", order.Total.StringFixed(2), true)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func totalRow(pdf *gofpdf.Fpdf, label, amount string, bold bool) {
	if bold {
		pdf.SetFont("Helvetica", "B", 10)
	} else {
		pdf.SetFont("Helvetica", "", 10)
	}
	pdf.CellFormat(145, 6, label, "", 0, "R", false, 0, "")
	pdf.CellFormat(30, 6, amount, "", 1, "R", false, 0, "")
}
