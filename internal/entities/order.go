package entities

import (
	"errors"
	"time"
)

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "PENDING"
	PaymentPaid    PaymentStatus = "PAID"
	PaymentFailed  PaymentStatus = "FAILED"
)

// Address is the shipping address captured during checkout. Field names on
// the wire follow the Order Service contract.
type Address struct {
	Line1      string `json:"line_1" validate:"required"`
	Line2      string `json:"line_2,omitempty"`
	City       string `json:"city" validate:"required"`
	State      string `json:"state" validate:"required"`
	PostalCode string `json:"zip_code" validate:"required"`
	Phone      string `json:"phone" validate:"required,intl_phone"`
}

// OrderItem is one ordered line as the Order Service reports it back.
type OrderItem struct {
	Product  Product `json:"product"`
	Variant  Variant `json:"variant"`
	Quantity int     `json:"quantity"`
}

// Order is owned by the Order Service; this side only references it by id
// and requests payment-status transitions.
type Order struct {
	ID              string        `json:"id"`
	Items           []OrderItem   `json:"items"`
	ShippingAddress Address       `json:"shipping_address"`
	PaymentStatus   PaymentStatus `json:"payment_status"`
	OrderStatus     string        `json:"order_status,omitempty"`
	CreatedAt       time.Time     `json:"created_at"`
}

// OrderDraft is the payload for order creation: the snapshot lines that
// survived stock re-validation plus the captured shipping address.
type OrderDraft struct {
	Lines           []SnapshotLine
	ShippingAddress Address
}

var ErrOrderNotFound = errors.New("order not found")
