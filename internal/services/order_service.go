package services

import (
	"fmt"
	"strings"

	"backoffice/internal/domain"
	"backoffice/internal/domain/models"
	"backoffice/internal/pagination"
	"backoffice/internal/repositories"
	"backoffice/internal/utils"

	"github.com/google/uuid"
)

// OrderSortFields is the allowlist for order listings.
var OrderSortFields = []string{"created_at", "updated_at", "total_amount", "order_number"}

// Bulk actions accepted by BulkAction.
const (
	BulkMarkShipped   = "mark_as_shipped"
	BulkMarkDelivered = "mark_as_delivered"
	BulkMarkCancelled = "mark_as_cancelled"
)

// OrderService drives the order lifecycle: status transitions, cancellation,
// refunds, tracking, flags, notes and archiving. Every mutation carries an
// audit note written in the same transaction as the primary change.
type OrderService struct {
	Repo      repositories.OrderRepository
	PageSize  int
	MaxPage   int
	RequestID string
	Actor     string
}

func (s OrderService) actor() string {
	if strings.TrimSpace(s.Actor) != "" {
		return s.Actor
	}
	return "system"
}

// List applies filters plus pagination and returns one page of orders.
func (s OrderService) List(filter models.OrderFilter, q pagination.Query) ([]models.Order, pagination.Meta, error) {
	opts, err := pagination.Resolve(q, pagination.Defaults{
		PageSize:          s.PageSize,
		MaxPageSize:       s.MaxPage,
		SortBy:            "created_at",
		AllowedSortFields: OrderSortFields,
	})
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	orders, total, err := s.Repo.List(filter, opts)
	if err != nil {
		return nil, pagination.Meta{}, err
	}
	return orders, pagination.MetaFor(opts, total), nil
}

func (s OrderService) Get(id int64) (models.Order, error) {
	return s.Repo.GetByID(id)
}

// UpdateFulfillmentStatus moves an order along the delivery axis. The
// transition table rejects any jump it does not list.
func (s OrderService) UpdateFulfillmentStatus(id int64, status string) (models.Order, error) {
	if !domain.IsFulfillmentStatus(status) {
		return models.Order{}, domain.NewValidationError("fulfillmentStatus", "unknown fulfillment status: "+status)
	}

	order, err := s.Repo.GetByID(id)
	if err != nil {
		return models.Order{}, err
	}
	if err := domain.CheckFulfillmentTransition(order.FulfillmentStatus, status); err != nil {
		return models.Order{}, err
	}

	note := fmt.Sprintf("Fulfillment status changed: %s -> %s", order.FulfillmentStatus, status)
	if err := s.Repo.SetFulfillmentStatus(id, status, note, s.actor()); err != nil {
		return models.Order{}, err
	}
	utils.LogEvent(s.RequestID, "orders", "fulfillment_status", fmt.Sprintf("order_id=%d status=%s", id, status))
	return s.Repo.GetByID(id)
}

// UpdatePaymentStatus moves an order along the payment axis.
func (s OrderService) UpdatePaymentStatus(id int64, status string) (models.Order, error) {
	if !domain.IsPaymentStatus(status) {
		return models.Order{}, domain.NewValidationError("paymentStatus", "unknown payment status: "+status)
	}

	order, err := s.Repo.GetByID(id)
	if err != nil {
		return models.Order{}, err
	}
	if err := domain.CheckPaymentTransition(order.PaymentStatus, status); err != nil {
		return models.Order{}, err
	}

	note := fmt.Sprintf("Payment status changed: %s -> %s", order.PaymentStatus, status)
	if err := s.Repo.SetPaymentStatus(id, status, note, s.actor()); err != nil {
		return models.Order{}, err
	}
	utils.LogEvent(s.RequestID, "orders", "payment_status", fmt.Sprintf("order_id=%d status=%s", id, status))
	return s.Repo.GetByID(id)
}

// UpdateTracking persists carrier details and forces the shipped status. An
// already-shipped order may have its tracking corrected in place.
func (s OrderService) UpdateTracking(id int64, info models.TrackingInfo) (models.Order, error) {
	if strings.TrimSpace(info.Carrier) == "" {
		return models.Order{}, domain.NewValidationError("carrier", "carrier is required")
	}
	if strings.TrimSpace(info.TrackingNumber) == "" {
		return models.Order{}, domain.NewValidationError("trackingNumber", "trackingNumber is required")
	}

	order, err := s.Repo.GetByID(id)
	if err != nil {
		return models.Order{}, err
	}
	if order.FulfillmentStatus != domain.FulfillmentShipped {
		if err := domain.CheckFulfillmentTransition(order.FulfillmentStatus, domain.FulfillmentShipped); err != nil {
			return models.Order{}, err
		}
	}

	note := fmt.Sprintf("Tracking updated: %s %s", info.Carrier, info.TrackingNumber)
	if err := s.Repo.SetTracking(id, info, note, s.actor()); err != nil {
		return models.Order{}, err
	}
	utils.LogEvent(s.RequestID, "orders", "tracking", fmt.Sprintf("order_id=%d carrier=%s", id, info.Carrier))
	return s.Repo.GetByID(id)
}

// Cancel sets the order cancelled and records the reason. Payment capture and
// inventory holds are not touched here.
func (s OrderService) Cancel(id int64, reason string) (models.Order, error) {
	if strings.TrimSpace(reason) == "" {
		return models.Order{}, domain.NewValidationError("reason", "reason is required")
	}

	order, err := s.Repo.GetByID(id)
	if err != nil {
		return models.Order{}, err
	}
	if err := domain.CheckFulfillmentTransition(order.FulfillmentStatus, domain.FulfillmentCancelled); err != nil {
		return models.Order{}, err
	}

	note := "Order cancelled: " + reason
	if err := s.Repo.SetFulfillmentStatus(id, domain.FulfillmentCancelled, note, s.actor()); err != nil {
		return models.Order{}, err
	}
	utils.LogEvent(s.RequestID, "orders", "cancel", fmt.Sprintf("order_id=%d", id))
	return s.Repo.GetByID(id)
}

// Refund writes a completed refund and flips the payment status. No gateway
// round trip; the amount is not capped against the order total.
func (s OrderService) Refund(id int64, amount float64, reason string) (models.Refund, error) {
	if amount <= 0 {
		return models.Refund{}, domain.NewValidationError("amount", "amount must be greater than zero")
	}
	if strings.TrimSpace(reason) == "" {
		return models.Refund{}, domain.NewValidationError("reason", "reason is required")
	}

	order, err := s.Repo.GetByID(id)
	if err != nil {
		return models.Refund{}, err
	}
	if err := domain.CheckPaymentTransition(order.PaymentStatus, domain.PaymentRefunded); err != nil {
		return models.Refund{}, err
	}

	reference := "RF-" + strings.ToUpper(uuid.NewString()[:8])
	note := fmt.Sprintf("Refund processed: %s (Amount: %s)", reason, utils.FormatAmount(amount))
	refund, err := s.Repo.CreateRefund(id, reference, amount, reason, note, s.actor())
	if err != nil {
		return models.Refund{}, err
	}
	utils.LogEvent(s.RequestID, "orders", "refund", fmt.Sprintf("order_id=%d amount=%s", id, utils.FormatAmount(amount)))
	return refund, nil
}

// BulkAction fans one fulfillment change out across many orders. Best effort:
// the first failure aborts the call with no per-order outcome reporting.
func (s OrderService) BulkAction(action string, orderIDs []int64) (int, error) {
	var target string
	switch action {
	case BulkMarkShipped:
		target = domain.FulfillmentShipped
	case BulkMarkDelivered:
		target = domain.FulfillmentDelivered
	case BulkMarkCancelled:
		target = domain.FulfillmentCancelled
	default:
		return 0, domain.NewValidationError("action", "unknown bulk action: "+action)
	}
	if len(orderIDs) == 0 {
		return 0, domain.NewValidationError("orderIds", "orderIds is required")
	}

	processed := 0
	for _, id := range orderIDs {
		if _, err := s.UpdateFulfillmentStatus(id, target); err != nil {
			return processed, err
		}
		processed++
	}
	utils.LogEvent(s.RequestID, "orders", "bulk_action", fmt.Sprintf("action=%s count=%d", action, processed))
	return processed, nil
}

// AddNote appends a manual audit note.
func (s OrderService) AddNote(id int64, text string) (models.OrderNote, error) {
	if strings.TrimSpace(text) == "" {
		return models.OrderNote{}, domain.NewValidationError("note", "note is required")
	}
	if _, err := s.Repo.GetByID(id); err != nil {
		return models.OrderNote{}, err
	}
	return s.Repo.AddNote(id, text, s.actor())
}

// Notes returns the audit trail most-recent-first.
func (s OrderService) Notes(id int64) ([]models.OrderNote, error) {
	if _, err := s.Repo.GetByID(id); err != nil {
		return nil, err
	}
	return s.Repo.ListNotes(id)
}

// Flag marks an order for manual review. Purely informational; no hold is
// placed.
func (s OrderService) Flag(id int64, reason string) (models.FlaggedOrder, error) {
	if strings.TrimSpace(reason) == "" {
		return models.FlaggedOrder{}, domain.NewValidationError("reason", "reason is required")
	}
	if _, err := s.Repo.GetByID(id); err != nil {
		return models.FlaggedOrder{}, err
	}
	note := "Order flagged: " + reason
	flag, err := s.Repo.CreateFlag(id, reason, note, s.actor())
	if err != nil {
		return models.FlaggedOrder{}, err
	}
	utils.LogEvent(s.RequestID, "orders", "flag", fmt.Sprintf("order_id=%d", id))
	return flag, nil
}

// Archive toggles listing visibility without touching either status axis.
func (s OrderService) Archive(id int64, archived bool) (models.Order, error) {
	if _, err := s.Repo.GetByID(id); err != nil {
		return models.Order{}, err
	}
	note := "Order archived"
	if !archived {
		note = "Order unarchived"
	}
	if err := s.Repo.SetArchived(id, archived, note, s.actor()); err != nil {
		return models.Order{}, err
	}
	return s.Repo.GetByID(id)
}
