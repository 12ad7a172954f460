// Package markloanlost implements the escalation of a long overdue loan to lost.
package markloanlost

import (
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/finepolicy"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/ledger"
	"github.com/AntonStoeckl/library-circulation-engine/eventstore"
)

// Decide marks the loan lost once it is overdue beyond the lost threshold.
//
//	THEN: LoanMarkedLost and the lost-item FineAssessed are generated
//	THEN: LoanMarkedLost.LocksAccount is true if the user was not locked before
//	IDEMPOTENCY: the loan is no longer active, or not yet past the threshold
//	ERROR: loan_not_found
func Decide(history core.DomainEvents, command Command, calculator finepolicy.Calculator) core.DecisionResult {
	loanID := command.LoanID.String()

	loan, ok := ledger.ProjectLoans(history).Loan(loanID)
	if !ok {
		return core.RejectedDecision(core.ErrLoanNotFound)
	}

	if !loan.IsActive() || !calculator.IsLost(loan.DueAt, command.OccurredAt) {
		return core.IdempotentDecision()
	}

	wasLocked := finepolicy.ProjectAccount(history).Locked()

	return core.SuccessDecision(
		core.BuildLoanMarkedLost(
			loanID,
			loan.CopyID,
			loan.ItemID,
			loan.UserID,
			loan.DueAt,
			calculator.DaysOverdue(loan.DueAt, command.OccurredAt),
			!wasLocked,
			command.OccurredAt,
		),
		calculator.AssessLost(
			core.FineIDForLoan(command.LoanID).String(),
			loanID,
			loan.UserID,
			loan.ItemID,
			loan.DueAt,
			command.OccurredAt,
		),
	)
}

// BuildEventFilter creates the filter for the loan and the fine account of its borrower.
func BuildEventFilter(command Command, userID string) eventstore.Filter {
	filter := ledger.LoanFilter(command.LoanID.String())
	if userID == "" {
		return filter
	}

	return filter.Or(finepolicy.AccountFilter(userID))
}
