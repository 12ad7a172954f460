// Package overdueloans implements the list of open loans that the overdue and reminder sweeps
// and the circulation desk work from.
package overdueloans

import (
	"slices"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/finepolicy"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/ledger"
	"github.com/AntonStoeckl/library-circulation-engine/eventstore"
)

// ProjectOpenLoans lists active loans ordered by due date, earliest first.
//
//	INCLUDES: LostWarning when the loan entered the warning period, Lost when it passed the threshold
//	EXCLUDES: loans that are not overdue if OverdueOnly is set
func ProjectOpenLoans(history core.DomainEvents, query Query, calculator finepolicy.Calculator) OpenLoans {
	result := OpenLoans{Loans: make([]LoanInfo, 0)}

	for _, loan := range ledger.ProjectLoans(history).Active() {
		overdue := query.Now.After(loan.DueAt)
		if query.OverdueOnly && !overdue {
			continue
		}

		result.Loans = append(result.Loans, LoanInfo{
			LoanID:        loan.LoanID,
			CopyID:        loan.CopyID,
			ItemID:        loan.ItemID,
			UserID:        loan.UserID,
			CheckedOutAt:  loan.CheckedOutAt,
			DueAt:         loan.DueAt,
			Overdue:       overdue,
			DaysOverdue:   calculator.DaysOverdue(loan.DueAt, query.Now),
			EstimatedFine: calculator.EstimateFine(loan.DueAt, query.Now),
			LostWarning:   calculator.NeedsLostWarning(loan.DueAt, query.Now),
			Lost:          calculator.IsLost(loan.DueAt, query.Now),
		})
	}

	slices.SortStableFunc(result.Loans, func(a, b LoanInfo) int {
		return a.DueAt.Compare(b.DueAt)
	})
	result.Count = len(result.Loans)

	return result
}

// BuildEventFilter creates the filter for all loans.
func BuildEventFilter() eventstore.Filter {
	return ledger.AllLoansFilter()
}
