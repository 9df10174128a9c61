package domain

// Fulfillment statuses.
const (
	FulfillmentPending   = "pending"
	FulfillmentConfirmed = "confirmed"
	FulfillmentShipped   = "shipped"
	FulfillmentDelivered = "delivered"
	FulfillmentCancelled = "cancelled"
	FulfillmentReturned  = "returned"
)

// Payment statuses.
const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentFailed   = "failed"
	PaymentRefunded = "refunded"
)

// fulfillmentTransitions is the allowed (from -> to) table for the physical
// delivery axis. Cancelled and returned are terminal.
var fulfillmentTransitions = map[string][]string{
	FulfillmentPending:   {FulfillmentConfirmed, FulfillmentCancelled},
	FulfillmentConfirmed: {FulfillmentShipped, FulfillmentCancelled},
	FulfillmentShipped:   {FulfillmentDelivered},
	FulfillmentDelivered: {FulfillmentReturned},
	FulfillmentCancelled: {},
	FulfillmentReturned:  {},
}

// paymentTransitions is the allowed table for the payment axis, independent of
// fulfillment. Refunded is terminal; a failed capture may be retried.
var paymentTransitions = map[string][]string{
	PaymentPending:  {PaymentPaid, PaymentFailed},
	PaymentPaid:     {PaymentRefunded},
	PaymentFailed:   {PaymentPending},
	PaymentRefunded: {},
}

// IsFulfillmentStatus reports whether s names a known fulfillment status.
func IsFulfillmentStatus(s string) bool {
	_, ok := fulfillmentTransitions[s]
	return ok
}

// IsPaymentStatus reports whether s names a known payment status.
func IsPaymentStatus(s string) bool {
	_, ok := paymentTransitions[s]
	return ok
}

// CheckFulfillmentTransition validates a requested fulfillment change against
// the transition table. Setting the current status again is rejected too.
func CheckFulfillmentTransition(from, to string) error {
	return checkTransition("fulfillment", fulfillmentTransitions, from, to)
}

// CheckPaymentTransition validates a requested payment change.
func CheckPaymentTransition(from, to string) error {
	return checkTransition("payment", paymentTransitions, from, to)
}

func checkTransition(axis string, table map[string][]string, from, to string) error {
	allowed, ok := table[from]
	if !ok {
		return TransitionError{Axis: axis, From: from, To: to}
	}
	for _, next := range allowed {
		if next == to {
			return nil
		}
	}
	return TransitionError{Axis: axis, From: from, To: to}
}
