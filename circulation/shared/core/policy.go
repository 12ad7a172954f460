package core

import (
	"time"

	"github.com/shopspring/decimal"
)

// Policy holds the configurable circulation rules.
type Policy struct {
	LoanPeriod             time.Duration
	MaxOpenLoans           int
	PickupWindow           time.Duration
	DailyFineRate          decimal.Decimal
	LostThresholdDays      int
	LostWarningLeadDays    int
	LostItemFee            decimal.Decimal
	MaxReservationDuration time.Duration
	DueSoonLead            time.Duration
	RoomExpiringLead       time.Duration
}

// DefaultPolicy returns the library's standard rules.
func DefaultPolicy() Policy {
	return Policy{
		LoanPeriod:             14 * 24 * time.Hour,
		MaxOpenLoans:           5,
		PickupWindow:           3 * 24 * time.Hour,
		DailyFineRate:          decimal.RequireFromString("0.25"),
		LostThresholdDays:      28,
		LostWarningLeadDays:    7,
		LostItemFee:            decimal.RequireFromString("20.00"),
		MaxReservationDuration: 2 * time.Hour,
		DueSoonLead:            2 * 24 * time.Hour,
		RoomExpiringLead:       15 * time.Minute,
	}
}
