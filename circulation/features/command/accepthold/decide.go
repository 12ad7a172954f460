// Package accepthold implements AcceptReadyHold: the checkout of the copy a ready hold reserves.
package accepthold

import (
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/finepolicy"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/holdqueue"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/ledger"
	"github.com/AntonStoeckl/library-circulation-engine/eventstore"
)

// Decide fulfils the hold and lends the reserved copy.
//
//	THEN: HoldFulfilled and CopyCheckedOut are generated
//	ERROR: hold_not_found, not_owner, hold_not_ready (also once the pickup window has lapsed),
//	       account_locked, loan_limit_exceeded
//	IDEMPOTENCY: the hold was already fulfilled with this LoanID
func Decide(history core.DomainEvents, command Command, policy core.Policy) core.DecisionResult {
	holdID, userID := command.HoldID.String(), command.UserID.String()

	itemID, known := holdqueue.ItemOfHold(history, holdID)
	if !known {
		return fail(command, core.ErrHoldNotFound)
	}

	hold, _ := holdqueue.Project(itemID, history).Hold(holdID)

	if hold.UserID != userID {
		return fail(command, core.ErrNotOwner)
	}

	loans := ledger.ProjectLoans(history)
	if hold.Status == holdqueue.HoldFulfilled {
		if loan, ok := loans.Loan(command.LoanID.String()); ok && loan.CopyID == hold.CopyID {
			return core.IdempotentDecision()
		}
	}

	if hold.Status != holdqueue.HoldReady || !command.OccurredAt.Before(hold.ExpiresAt) {
		return fail(command, core.ErrHoldNotReady)
	}

	if finepolicy.ProjectAccount(history).Locked() {
		return fail(command, core.ErrAccountLocked)
	}

	if loans.OpenLoansOf(userID) >= policy.MaxOpenLoans {
		return fail(command, core.ErrLoanLimitExceeded)
	}

	loanID := command.LoanID.String()

	return core.SuccessDecision(
		core.BuildHoldFulfilled(holdID, itemID, userID, hold.CopyID, loanID, command.OccurredAt),
		core.BuildCopyCheckedOut(loanID, hold.CopyID, itemID, userID, command.OccurredAt.Add(policy.LoanPeriod), command.OccurredAt),
	)
}

func fail(command Command, err *core.Error) core.DecisionResult {
	return core.ErrorDecision(
		core.BuildHoldRequestFailed(command.HoldID.String(), command.UserID.String(), core.HoldActionAccept, err, command.OccurredAt),
		err,
	)
}

// BuildEventFilter creates the filter for the hold, its item's queue and the user's eligibility.
func BuildEventFilter(command Command, itemID string) eventstore.Filter {
	filter := holdqueue.HoldFilter(command.HoldID.String()).
		Or(ledger.BorrowerFilter(command.UserID.String()))

	if itemID == "" {
		return filter
	}

	return filter.Or(holdqueue.ItemFilter(itemID))
}
