package services

import (
	"strings"
	"testing"
	"time"

	"backoffice/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestOrdersCSV_HeaderAndRowShape(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	created := time.Date(2026, 8, 14, 15, 30, 0, 0, time.UTC)
	mock.ExpectQuery("FROM orders WHERE archived = 0").
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "order_number", "customer_id", "customer_name", "customer_email",
			"total_amount", "fulfillment_status", "payment_status",
			"carrier", "tracking_number", "estimated_delivery", "archived",
			"created_at", "updated_at",
		}).AddRow(1, "ORD-1001", 5, "Ada Lovelace", "ada@example.com", 500.0, "shipped", "paid", "", "", "", 0, created, created))

	svc := ExportService{Repo: repositories.OrderRepository{DB: db}}
	data, filename, err := svc.OrdersCSV()
	if err != nil {
		t.Fatalf("csv: %v", err)
	}
	if !strings.HasSuffix(filename, ".csv") {
		t.Fatalf("bad filename %q", filename)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected header + 1 row, got %d lines", len(lines))
	}
	if lines[0] != "Order ID,Order Number,Customer Name,Customer Email,Total Amount,Status,Date" {
		t.Fatalf("bad header: %q", lines[0])
	}
	want := `1,ORD-1001,"Ada Lovelace",ada@example.com,500,shipped,2026-08-14`
	if lines[1] != want {
		t.Fatalf("bad row:\n got %q\nwant %q", lines[1], want)
	}
}

func TestOrderInvoice_ProducesPDF(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	expectGetOrder(mock, 1, "delivered", "paid")

	svc := ExportService{Repo: repositories.OrderRepository{DB: db}}
	data, filename, err := svc.OrderInvoice(1)
	if err != nil {
		t.Fatalf("invoice: %v", err)
	}
	if len(data) == 0 || !strings.HasPrefix(string(data[:4]), "%PDF") {
		t.Fatal("output is not a PDF")
	}
	if !strings.HasSuffix(filename, ".pdf") {
		t.Fatalf("bad filename %q", filename)
	}
}
