package services

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"backoffice/internal/domain/models"
	"backoffice/internal/repositories"
	"backoffice/internal/utils"

	"github.com/phpdave11/gofpdf"
)

// ExportService renders order data as CSV and per-order invoice PDFs.
type ExportService struct {
	Repo      repositories.OrderRepository
	RequestID string
}

// OrdersCSV renders every non-archived order. One header row, one row per
// order, date truncated to the calendar day, customer name always quoted.
func (s ExportService) OrdersCSV() ([]byte, string, error) {
	orders, err := s.Repo.ListForExport()
	if err != nil {
		return nil, "", err
	}

	var buf bytes.Buffer
	buf.WriteString("Order ID,Order Number,Customer Name,Customer Email,Total Amount,Status,Date\n")
	for _, o := range orders {
		buf.WriteString(fmt.Sprintf("%d,%s,%q,%s,%s,%s,%s\n",
			o.ID,
			o.OrderNumber,
			o.CustomerName,
			o.CustomerEmail,
			utils.FormatAmount(o.TotalAmount),
			o.FulfillmentStatus,
			utils.FormatDate(o.CreatedAt),
		))
	}

	utils.LogEvent(s.RequestID, "export", "orders_csv", fmt.Sprintf("rows=%d", len(orders)))
	filename := fmt.Sprintf("orders_%s.csv", time.Now().Format("20060102"))
	return buf.Bytes(), filename, nil
}

// OrderInvoice builds a one-page invoice PDF for a single order.
func (s ExportService) OrderInvoice(orderID int64) ([]byte, string, error) {
	order, err := s.Repo.GetByID(orderID)
	if err != nil {
		return nil, "", err
	}

	utils.LogEvent(s.RequestID, "export", "order_invoice", fmt.Sprintf("order_id=%d", orderID))
	return buildInvoicePDF(order)
}

func buildInvoicePDF(o models.Order) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Invoice", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "INVOICE")
	pdf.Ln(12)

	invNo := fmt.Sprintf("INV-%d-%s", o.ID, safeFilenamePart(o.OrderNumber))
	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, "Invoice No : "+invNo)
	pdf.Ln(7)
	pdf.Cell(0, 7, "Date       : "+time.Now().Format("2006-01-02 15:04"))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Billed to:")
	pdf.Ln(7)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 7, fmt.Sprintf("Name  : %s", safe(o.CustomerName, "-")))
	pdf.Ln(7)
	pdf.Cell(0, 7, fmt.Sprintf("Email : %s", safe(o.CustomerEmail, "-")))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Details:")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	desc := fmt.Sprintf("Order %s placed %s (%s / %s)",
		safe(o.OrderNumber, "-"),
		utils.FormatDate(o.CreatedAt),
		safe(o.FulfillmentStatus, "-"),
		safe(o.PaymentStatus, "-"),
	)
	pdf.MultiCell(0, 6, desc, "", "", false)
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 8, "Total: "+utils.FormatMoney(o.TotalAmount))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Generated by the back office. Amounts are shown in store currency.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("INVOICE_%d_%s.pdf", o.ID, safeFilenamePart(o.OrderNumber))
	return buf.Bytes(), filename, nil
}

func safe(v, fallback string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return fallback
	}
	return v
}

func safeFilenamePart(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "NA"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "_", "\\", "_", ":", "_", "*", "_", "?", "_", "\"", "_", "<", "_", ">", "_", "|", "_")
	s = replacer.Replace(s)
	if len(s) > 40 {
		s = s[:40]
	}
	return s
}
