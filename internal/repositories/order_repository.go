package repositories

import (
	"database/sql"
	"errors"
	"strings"

	intconfig "backoffice/internal/config"
	"backoffice/internal/domain"
	"backoffice/internal/domain/models"
	"backoffice/internal/pagination"
)

type OrderRepository struct {
	DB *sql.DB
}

func (r OrderRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const orderColumns = `
	id,
	COALESCE(order_number,''),
	COALESCE(customer_id,0),
	COALESCE(customer_name,''),
	COALESCE(customer_email,''),
	COALESCE(total_amount,0),
	COALESCE(fulfillment_status,''),
	COALESCE(payment_status,''),
	COALESCE(carrier,''),
	COALESCE(tracking_number,''),
	COALESCE(estimated_delivery,''),
	COALESCE(archived,0),
	created_at,
	updated_at`

func scanOrder(row interface{ Scan(...any) error }) (models.Order, error) {
	var o models.Order
	err := row.Scan(
		&o.ID,
		&o.OrderNumber,
		&o.CustomerID,
		&o.CustomerName,
		&o.CustomerEmail,
		&o.TotalAmount,
		&o.FulfillmentStatus,
		&o.PaymentStatus,
		&o.Carrier,
		&o.TrackingNumber,
		&o.EstimatedDelivery,
		&o.Archived,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	return o, err
}

// GetByID fetches one order by primary key.
func (r OrderRepository) GetByID(id int64) (models.Order, error) {
	if id <= 0 {
		return models.Order{}, domain.NewValidationError("id", "invalid order id")
	}
	o, err := scanOrder(r.db().QueryRow(`SELECT `+orderColumns+` FROM orders WHERE id=? LIMIT 1`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Order{}, domain.NotFoundError{Resource: "order"}
		}
		return models.Order{}, err
	}
	return o, nil
}

// List applies the order filters plus pagination and returns one page with
// the total row count from the same WHERE clause.
func (r OrderRepository) List(filter models.OrderFilter, opts pagination.Options) ([]models.Order, int, error) {
	conds := []string{}
	args := []any{}

	add := func(cond string, vals ...any) {
		conds = append(conds, cond)
		args = append(args, vals...)
	}

	if filter.FulfillmentStatus != "" {
		add("fulfillment_status = ?", filter.FulfillmentStatus)
	}
	if filter.PaymentStatus != "" {
		add("payment_status = ?", filter.PaymentStatus)
	}
	if filter.CustomerID > 0 {
		add("customer_id = ?", filter.CustomerID)
	}
	if filter.DateFrom != "" {
		add("DATE(created_at) >= ?", filter.DateFrom)
	}
	if filter.DateTo != "" {
		add("DATE(created_at) <= ?", filter.DateTo)
	}
	if filter.MinAmount != nil {
		add("total_amount >= ?", *filter.MinAmount)
	}
	if filter.MaxAmount != nil {
		add("total_amount <= ?", *filter.MaxAmount)
	}
	if filter.Search != "" {
		like := "%" + filter.Search + "%"
		add("(order_number LIKE ? OR customer_name LIKE ? OR customer_email LIKE ?)", like, like, like)
	}
	if !filter.IncludeArchived {
		add("archived = 0")
	}

	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	var total int
	if err := r.db().QueryRow(`SELECT COUNT(*) FROM orders`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + orderColumns + ` FROM orders` + where +
		` ORDER BY ` + opts.SortBy + ` ` + opts.SortOrder + ` LIMIT ? OFFSET ?`
	rows, err := r.db().Query(query, append(args, opts.Limit, opts.Offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, o)
	}
	return orders, total, rows.Err()
}

// mutateWithNote runs the primary order mutation and its audit note insert in
// one transaction, so a note failure rolls the mutation back.
func (r OrderRepository) mutateWithNote(orderID int64, noteText, actor string, fn func(tx *sql.Tx) error) error {
	tx, err := r.db().Begin()
	if err != nil {
		return err
	}

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if _, err := tx.Exec(`
		INSERT INTO order_notes (order_id, text, created_by, created_at)
		VALUES (?, ?, ?, NOW())
	`, orderID, noteText, actor); err != nil {
		_ = tx.Rollback()
		return err
	}

	return tx.Commit()
}

// SetFulfillmentStatus overwrites the fulfillment status, stamps updated_at,
// and appends the audit note atomically.
func (r OrderRepository) SetFulfillmentStatus(orderID int64, status, noteText, actor string) error {
	return r.mutateWithNote(orderID, noteText, actor, func(tx *sql.Tx) error {
		_, err := tx.Exec(`UPDATE orders SET fulfillment_status=?, updated_at=NOW() WHERE id=?`, status, orderID)
		return err
	})
}

// SetPaymentStatus mirrors SetFulfillmentStatus for the payment axis.
func (r OrderRepository) SetPaymentStatus(orderID int64, status, noteText, actor string) error {
	return r.mutateWithNote(orderID, noteText, actor, func(tx *sql.Tx) error {
		_, err := tx.Exec(`UPDATE orders SET payment_status=?, updated_at=NOW() WHERE id=?`, status, orderID)
		return err
	})
}

// SetTracking persists carrier details and forces the shipped status.
func (r OrderRepository) SetTracking(orderID int64, info models.TrackingInfo, noteText, actor string) error {
	return r.mutateWithNote(orderID, noteText, actor, func(tx *sql.Tx) error {
		_, err := tx.Exec(`
			UPDATE orders
			SET fulfillment_status=?, carrier=?, tracking_number=?, estimated_delivery=?, updated_at=NOW()
			WHERE id=?
		`, domain.FulfillmentShipped, info.Carrier, info.TrackingNumber, info.EstimatedDelivery, orderID)
		return err
	})
}

// CreateRefund inserts the refund row, flips payment status to refunded, and
// appends the note, all in one transaction.
func (r OrderRepository) CreateRefund(orderID int64, reference string, amount float64, reason, noteText, actor string) (models.Refund, error) {
	refund := models.Refund{
		OrderID:   orderID,
		Reference: reference,
		Amount:    amount,
		Reason:    reason,
		Status:    "completed",
	}
	err := r.mutateWithNote(orderID, noteText, actor, func(tx *sql.Tx) error {
		res, err := tx.Exec(`
			INSERT INTO refunds (order_id, reference, amount, reason, status, created_at)
			VALUES (?, ?, ?, ?, 'completed', NOW())
		`, orderID, reference, amount, reason)
		if err != nil {
			return err
		}
		refund.ID, _ = res.LastInsertId()

		_, err = tx.Exec(`UPDATE orders SET payment_status=?, updated_at=NOW() WHERE id=?`, domain.PaymentRefunded, orderID)
		return err
	})
	if err != nil {
		return models.Refund{}, err
	}
	return refund, nil
}

// CreateFlag records a review flag plus its note. Informational only.
func (r OrderRepository) CreateFlag(orderID int64, reason, noteText, actor string) (models.FlaggedOrder, error) {
	flag := models.FlaggedOrder{OrderID: orderID, Reason: reason, FlaggedBy: actor}
	err := r.mutateWithNote(orderID, noteText, actor, func(tx *sql.Tx) error {
		res, err := tx.Exec(`
			INSERT INTO flagged_orders (order_id, reason, flagged_by, created_at)
			VALUES (?, ?, ?, NOW())
		`, orderID, reason, actor)
		if err != nil {
			return err
		}
		flag.ID, _ = res.LastInsertId()
		return nil
	})
	if err != nil {
		return models.FlaggedOrder{}, err
	}
	return flag, nil
}

// SetArchived toggles listing visibility, orthogonal to both status axes.
func (r OrderRepository) SetArchived(orderID int64, archived bool, noteText, actor string) error {
	return r.mutateWithNote(orderID, noteText, actor, func(tx *sql.Tx) error {
		_, err := tx.Exec(`UPDATE orders SET archived=?, updated_at=NOW() WHERE id=?`, archived, orderID)
		return err
	})
}

// AddNote appends a standalone audit note.
func (r OrderRepository) AddNote(orderID int64, text, actor string) (models.OrderNote, error) {
	res, err := r.db().Exec(`
		INSERT INTO order_notes (order_id, text, created_by, created_at)
		VALUES (?, ?, ?, NOW())
	`, orderID, text, actor)
	if err != nil {
		return models.OrderNote{}, err
	}
	id, _ := res.LastInsertId()
	return models.OrderNote{ID: id, OrderID: orderID, Text: text, CreatedBy: actor}, nil
}

// ListNotes returns the audit trail most-recent-first.
func (r OrderRepository) ListNotes(orderID int64) ([]models.OrderNote, error) {
	rows, err := r.db().Query(`
		SELECT id, order_id, COALESCE(text,''), COALESCE(created_by,''), created_at
		FROM order_notes
		WHERE order_id=?
		ORDER BY created_at DESC, id DESC
	`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := []models.OrderNote{}
	for rows.Next() {
		var n models.OrderNote
		if err := rows.Scan(&n.ID, &n.OrderID, &n.Text, &n.CreatedBy, &n.CreatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

// ListForExport streams every non-archived order ordered by creation time for
// CSV rendering.
func (r OrderRepository) ListForExport() ([]models.Order, error) {
	rows, err := r.db().Query(`SELECT ` + orderColumns + ` FROM orders WHERE archived = 0 ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}
