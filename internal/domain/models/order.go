package models

import "time"

// Order is the back-office view of a customer order. Orders are created by the
// storefront; the back office only transitions them.
type Order struct {
	ID                int64      `json:"id"`
	OrderNumber       string     `json:"orderNumber"`
	CustomerID        int64      `json:"customerId"`
	CustomerName      string     `json:"customerName"`
	CustomerEmail     string     `json:"customerEmail"`
	TotalAmount       float64    `json:"totalAmount"`
	FulfillmentStatus string     `json:"fulfillmentStatus"`
	PaymentStatus     string     `json:"paymentStatus"`
	Carrier           string     `json:"carrier,omitempty"`
	TrackingNumber    string     `json:"trackingNumber,omitempty"`
	EstimatedDelivery string     `json:"estimatedDelivery,omitempty"`
	Archived          bool       `json:"archived"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// OrderNote is one append-only audit entry attached to an order.
type OrderNote struct {
	ID        int64     `json:"id"`
	OrderID   int64     `json:"orderId"`
	Text      string    `json:"text"`
	CreatedBy string    `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}

// Refund records a processed refund. No gateway round trip is modeled; rows are
// written with status "completed".
type Refund struct {
	ID        int64     `json:"id"`
	OrderID   int64     `json:"orderId"`
	Reference string    `json:"reference"`
	Amount    float64   `json:"amount"`
	Reason    string    `json:"reason"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// FlaggedOrder marks an order for manual review. Informational only.
type FlaggedOrder struct {
	ID        int64     `json:"id"`
	OrderID   int64     `json:"orderId"`
	Reason    string    `json:"reason"`
	FlaggedBy string    `json:"flaggedBy"`
	CreatedAt time.Time `json:"createdAt"`
}

// TrackingInfo is the payload accepted by the tracking update endpoint.
type TrackingInfo struct {
	Carrier           string `json:"carrier"`
	TrackingNumber    string `json:"trackingNumber"`
	EstimatedDelivery string `json:"estimatedDelivery"`
}

// OrderFilter narrows order listings.
type OrderFilter struct {
	FulfillmentStatus string
	PaymentStatus     string
	DateFrom          string
	DateTo            string
	MinAmount         *float64
	MaxAmount         *float64
	CustomerID        int64
	Search            string
	IncludeArchived   bool
}
