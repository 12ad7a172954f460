// Package fineestimate implements the fine estimate of a single loan.
package fineestimate

import (
	"github.com/shopspring/decimal"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/finepolicy"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/ledger"
	"github.com/AntonStoeckl/library-circulation-engine/eventstore"
)

// ProjectEstimate returns the fine of the loan. The boolean is false for unknown loans.
func ProjectEstimate(history core.DomainEvents, query Query, calculator finepolicy.Calculator) (Estimate, bool) {
	loanID := query.LoanID.String()

	loan, ok := ledger.ProjectLoans(history).Loan(loanID)
	if !ok {
		return Estimate{}, false
	}

	fineID := core.FineIDForLoan(query.LoanID).String()
	estimate := Estimate{
		LoanID:     loanID,
		UserID:     loan.UserID,
		FineID:     fineID,
		LoanStatus: loan.Status,
		DueAt:      loan.DueAt,
	}

	if fine, assessed := finepolicy.ProjectAccount(history).Fine(fineID); assessed {
		estimate.Assessed = true
		estimate.DaysOverdue = fine.DaysOverdue
		estimate.Amount = fine.Assessed
		estimate.Outstanding = fine.Outstanding()
		estimate.FineStatus = fine.Status

		return estimate, true
	}

	if !loan.IsActive() {
		estimate.Amount = decimal.Zero
		estimate.Outstanding = decimal.Zero

		return estimate, true
	}

	estimate.DaysOverdue = calculator.DaysOverdue(loan.DueAt, query.Now)
	estimate.Amount = calculator.EstimateFine(loan.DueAt, query.Now)
	estimate.Outstanding = estimate.Amount
	estimate.WillBeLost = calculator.NeedsLostWarning(loan.DueAt, query.Now)

	return estimate, true
}

// BuildEventFilter creates the filter for the loan and its fine.
func BuildEventFilter(query Query) eventstore.Filter {
	return ledger.LoanFilter(query.LoanID.String()).
		Or(finepolicy.FineFilter(core.FineIDForLoan(query.LoanID).String()))
}
