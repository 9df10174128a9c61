package services

import (
	"testing"
	"time"

	"backoffice/internal/domain"
	"backoffice/internal/domain/models"
	"backoffice/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
)

func orderRow(mock sqlmock.Sqlmock, id int64, fulfillment, payment string) *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "order_number", "customer_id", "customer_name", "customer_email",
		"total_amount", "fulfillment_status", "payment_status",
		"carrier", "tracking_number", "estimated_delivery", "archived",
		"created_at", "updated_at",
	}).AddRow(id, "ORD-1001", 5, "Ada Lovelace", "ada@example.com",
		500.0, fulfillment, payment, "", "", "", 0, now, now)
}

func expectGetOrder(mock sqlmock.Sqlmock, id int64, fulfillment, payment string) {
	mock.ExpectQuery("SELECT(.|\n)+FROM orders(.|\n)+WHERE id=\\?").
		WithArgs(id).
		WillReturnRows(orderRow(mock, id, fulfillment, payment))
}

func newOrderService(t *testing.T) (OrderService, sqlmock.Sqlmock, func()) {
	t.Helper()
	conn, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	svc := OrderService{
		Repo:     repositories.OrderRepository{DB: conn},
		PageSize: 20,
		MaxPage:  100,
		Actor:    "ops@example.com",
	}
	return svc, mock, func() { conn.Close() }
}

func TestCancelOrder_SetsStatusAndNoteAtomically(t *testing.T) {
	svc, mock, done := newOrderService(t)
	defer done()

	expectGetOrder(mock, 1, domain.FulfillmentPending, domain.PaymentPaid)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE orders SET fulfillment_status").
		WithArgs(domain.FulfillmentCancelled, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO order_notes").
		WithArgs(int64(1), "Order cancelled: wrong size", "ops@example.com").
		WillReturnResult(sqlmock.NewResult(10, 1))
	mock.ExpectCommit()

	expectGetOrder(mock, 1, domain.FulfillmentCancelled, domain.PaymentPaid)

	order, err := svc.Cancel(1, "wrong size")
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if order.FulfillmentStatus != domain.FulfillmentCancelled {
		t.Fatalf("status not cancelled: %s", order.FulfillmentStatus)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCancelOrder_IllegalFromShipped(t *testing.T) {
	svc, mock, done := newOrderService(t)
	defer done()

	expectGetOrder(mock, 1, domain.FulfillmentShipped, domain.PaymentPaid)

	_, err := svc.Cancel(1, "changed mind")
	if !domain.IsTransition(err) {
		t.Fatalf("expected transition error, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("no mutation may run on an illegal transition: %v", err)
	}
}

func TestRefundOrder_CreatesCompletedRefundAndNote(t *testing.T) {
	svc, mock, done := newOrderService(t)
	defer done()

	expectGetOrder(mock, 1, domain.FulfillmentDelivered, domain.PaymentPaid)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO refunds").
		WithArgs(int64(1), sqlmock.AnyArg(), 100.0, "damaged").
		WillReturnResult(sqlmock.NewResult(3, 1))
	mock.ExpectExec("UPDATE orders SET payment_status").
		WithArgs(domain.PaymentRefunded, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO order_notes").
		WithArgs(int64(1), "Refund processed: damaged (Amount: 100)", "ops@example.com").
		WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectCommit()

	refund, err := svc.Refund(1, 100, "damaged")
	if err != nil {
		t.Fatalf("refund: %v", err)
	}
	if refund.Amount != 100 || refund.Status != "completed" {
		t.Fatalf("bad refund: %+v", refund)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRefundOrder_RejectedWhenUnpaid(t *testing.T) {
	svc, mock, done := newOrderService(t)
	defer done()

	expectGetOrder(mock, 1, domain.FulfillmentPending, domain.PaymentPending)

	_, err := svc.Refund(1, 50, "goodwill")
	if !domain.IsTransition(err) {
		t.Fatalf("expected transition error, got %v", err)
	}
}

func TestRefundOrder_RejectsNonPositiveAmount(t *testing.T) {
	svc, _, done := newOrderService(t)
	defer done()

	if _, err := svc.Refund(1, 0, "zero"); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateFulfillmentStatus_EndToEnd(t *testing.T) {
	svc, mock, done := newOrderService(t)
	defer done()

	expectGetOrder(mock, 2, domain.FulfillmentConfirmed, domain.PaymentPaid)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE orders SET fulfillment_status").
		WithArgs(domain.FulfillmentShipped, int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO order_notes").
		WithArgs(int64(2), "Fulfillment status changed: confirmed -> shipped", "ops@example.com").
		WillReturnResult(sqlmock.NewResult(12, 1))
	mock.ExpectCommit()

	expectGetOrder(mock, 2, domain.FulfillmentShipped, domain.PaymentPaid)

	order, err := svc.UpdateFulfillmentStatus(2, domain.FulfillmentShipped)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if order.FulfillmentStatus != domain.FulfillmentShipped {
		t.Fatalf("subsequent get must observe shipped, got %s", order.FulfillmentStatus)
	}
}

func TestUpdateFulfillmentStatus_UnknownStatus(t *testing.T) {
	svc, _, done := newOrderService(t)
	defer done()

	if _, err := svc.UpdateFulfillmentStatus(1, "teleported"); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateTracking_ForcesShipped(t *testing.T) {
	svc, mock, done := newOrderService(t)
	defer done()

	expectGetOrder(mock, 3, domain.FulfillmentConfirmed, domain.PaymentPaid)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE orders").
		WithArgs(domain.FulfillmentShipped, "DHL", "TRK-9", "2026-09-01", int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO order_notes").
		WithArgs(int64(3), "Tracking updated: DHL TRK-9", "ops@example.com").
		WillReturnResult(sqlmock.NewResult(13, 1))
	mock.ExpectCommit()

	expectGetOrder(mock, 3, domain.FulfillmentShipped, domain.PaymentPaid)

	order, err := svc.UpdateTracking(3, models.TrackingInfo{
		Carrier:           "DHL",
		TrackingNumber:    "TRK-9",
		EstimatedDelivery: "2026-09-01",
	})
	if err != nil {
		t.Fatalf("tracking: %v", err)
	}
	if order.FulfillmentStatus != domain.FulfillmentShipped {
		t.Fatalf("tracking must force shipped, got %s", order.FulfillmentStatus)
	}
}

func TestBulkAction_UnknownAction(t *testing.T) {
	svc, _, done := newOrderService(t)
	defer done()

	if _, err := svc.BulkAction("mark_as_lost", []int64{1}); !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestBulkAction_FirstFailureAborts(t *testing.T) {
	svc, mock, done := newOrderService(t)
	defer done()

	// first order transitions fine
	expectGetOrder(mock, 1, domain.FulfillmentConfirmed, domain.PaymentPaid)
	mock.ExpectBegin()
	mock.ExpectExec("UPDATE orders SET fulfillment_status").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO order_notes").
		WillReturnResult(sqlmock.NewResult(14, 1))
	mock.ExpectCommit()
	expectGetOrder(mock, 1, domain.FulfillmentShipped, domain.PaymentPaid)

	// second order is already cancelled: transition table rejects, call aborts
	expectGetOrder(mock, 2, domain.FulfillmentCancelled, domain.PaymentPaid)

	processed, err := svc.BulkAction(BulkMarkShipped, []int64{1, 2, 3})
	if err == nil {
		t.Fatal("expected abort on first failure")
	}
	if processed != 1 {
		t.Fatalf("expected 1 processed before abort, got %d", processed)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("order 3 must never be touched: %v", err)
	}
}

func TestFlagOrder_RowPlusNote(t *testing.T) {
	svc, mock, done := newOrderService(t)
	defer done()

	expectGetOrder(mock, 4, domain.FulfillmentPending, domain.PaymentPending)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO flagged_orders").
		WithArgs(int64(4), "possible fraud", "ops@example.com").
		WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectExec("INSERT INTO order_notes").
		WithArgs(int64(4), "Order flagged: possible fraud", "ops@example.com").
		WillReturnResult(sqlmock.NewResult(15, 1))
	mock.ExpectCommit()

	flag, err := svc.Flag(4, "possible fraud")
	if err != nil {
		t.Fatalf("flag: %v", err)
	}
	if flag.Reason != "possible fraud" {
		t.Fatalf("bad flag: %+v", flag)
	}
}
