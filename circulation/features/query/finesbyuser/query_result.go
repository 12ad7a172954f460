package finesbyuser

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/finepolicy"
)

// FineInfo is one fine of the account.
type FineInfo struct {
	FineID      string
	LoanID      string
	ItemID      string
	Reason      string
	DaysOverdue int
	Amount      decimal.Decimal
	Outstanding decimal.Decimal
	Status      finepolicy.FineStatus
	AssessedAt  time.Time
	SettledAt   time.Time
}

// FineAccount is the query result.
type FineAccount struct {
	UserID           string
	Fines            []FineInfo
	TotalOutstanding decimal.Decimal
	Locked           bool
}
