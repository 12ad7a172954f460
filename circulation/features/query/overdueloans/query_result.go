package overdueloans

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoanInfo is one open loan with its overdue state at query time.
type LoanInfo struct {
	LoanID        string
	CopyID        string
	ItemID        string
	UserID        string
	CheckedOutAt  time.Time
	DueAt         time.Time
	Overdue       bool
	DaysOverdue   int
	EstimatedFine decimal.Decimal
	LostWarning   bool
	Lost          bool
}

// OpenLoans is the query result, ordered by due date.
type OpenLoans struct {
	Loans []LoanInfo
	Count int
}
