package returncopy

import (
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/finepolicy"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/holdqueue"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/ledger"
	"github.com/AntonStoeckl/library-circulation-engine/eventstore"
)

// Decide closes the loan.
//
//	GIVEN: an active loan with LoanID
//	WHEN: ReturnCopy is received
//	THEN: CopyReturned is generated
//	THEN: FineAssessed follows if the copy came back after its due date
//	THEN: HoldPromoted follows if a hold is queued for the item, reserving the returned copy
//	ERROR: loan_not_found if the loan is unknown
//	ERROR: already_returned if the loan is returned or lost
func Decide(
	history core.DomainEvents,
	command Command,
	calculator finepolicy.Calculator,
	policy core.Policy,
) core.DecisionResult {

	loanID := command.LoanID.String()

	loan, ok := ledger.ProjectLoans(history).Loan(loanID)
	if !ok {
		return core.ErrorDecision(core.BuildReturningCopyFailed(loanID, core.ErrLoanNotFound, command.OccurredAt), core.ErrLoanNotFound)
	}

	if !loan.IsActive() {
		return core.ErrorDecision(core.BuildReturningCopyFailed(loanID, core.ErrAlreadyReturned, command.OccurredAt), core.ErrAlreadyReturned)
	}

	returned := core.BuildCopyReturned(loanID, loan.CopyID, loan.ItemID, loan.UserID, loan.DueAt, command.OccurredAt)
	additional := make(core.DomainEvents, 0)

	fine, assessed := calculator.AssessOnReturn(
		core.FineIDForLoan(command.LoanID).String(),
		loanID,
		loan.UserID,
		loan.ItemID,
		loan.DueAt,
		command.OccurredAt,
	)
	if assessed {
		additional = append(additional, fine)
	}

	queue := holdqueue.Project(loan.ItemID, history)
	queue.Apply(returned)
	additional = append(additional, queue.PromoteWaiting(command.OccurredAt, policy.PickupWindow)...)

	return core.SuccessDecision(returned, additional...)
}

// BuildEventFilter creates the filter for the loan, the queue of its item and the loan's fine.
// itemID is empty while the loan is unknown.
func BuildEventFilter(command Command, itemID string) eventstore.Filter {
	filter := ledger.LoanFilter(command.LoanID.String()).
		Or(finepolicy.FineFilter(core.FineIDForLoan(command.LoanID).String()))

	if itemID == "" {
		return filter
	}

	return filter.Or(holdqueue.ItemFilter(itemID))
}
