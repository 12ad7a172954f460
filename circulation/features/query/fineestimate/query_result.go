package fineestimate

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/finepolicy"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/ledger"
)

// Estimate is the fine of one loan: the accrued estimate while the loan is open,
// the assessed fine once it was returned late or lost.
type Estimate struct {
	LoanID      string
	UserID      string
	FineID      string
	LoanStatus  ledger.LoanStatus
	DueAt       time.Time
	DaysOverdue int
	Amount      decimal.Decimal
	Outstanding decimal.Decimal
	Assessed    bool
	FineStatus  finepolicy.FineStatus
	WillBeLost  bool
}
