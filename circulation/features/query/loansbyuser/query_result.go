package loansbyuser

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/ledger"
)

// LoanInfo is one loan as shown to its borrower.
type LoanInfo struct {
	LoanID        string
	CopyID        string
	ItemID        string
	Title         string
	Author        string
	Status        ledger.LoanStatus
	CheckedOutAt  time.Time
	DueAt         time.Time
	ReturnedAt    time.Time
	Overdue       bool
	DaysOverdue   int
	EstimatedFine decimal.Decimal
}

// LoansOfUser is the query result.
type LoansOfUser struct {
	UserID string
	Loans  []LoanInfo
	Count  int
	Open   int
}
