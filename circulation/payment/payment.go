// Package payment is the boundary to the opaque payment gateway that settles fines.
//
// The engine only needs "charge this amount for this fine, once": a Gateway must treat repeated
// charges with the same idempotency key as one charge and return the same Receipt.
package payment

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrPaymentDeclined is returned when the gateway refuses the charge.
var ErrPaymentDeclined = errors.New("payment declined")

// Charge is one request to collect money for fines.
type Charge struct {
	IdempotencyKey string
	UserID         string
	Amount         decimal.Decimal
	Token          string // opaque card or session token; empty for payments at the desk
}

// Receipt confirms a collected charge.
type Receipt struct {
	Reference string
	Amount    decimal.Decimal
	ChargedAt time.Time
}

// Gateway collects payments.
type Gateway interface {
	Charge(ctx context.Context, charge Charge) (Receipt, error)
}
