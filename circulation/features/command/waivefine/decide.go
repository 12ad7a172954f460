// Package waivefine implements waiving a fine by staff.
package waivefine

import (
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/finepolicy"
	"github.com/AntonStoeckl/library-circulation-engine/eventstore"
)

// Decide waives the outstanding balance of the fine.
//
//	THEN: FineWaived with the outstanding amount is generated, UnlocksAccount is set if the lock is lifted
//	ERROR: fine_not_found, fine_already_settled
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	account := finepolicy.ProjectAccount(history)

	fine, ok := account.Fine(command.FineID.String())
	if !ok {
		return core.RejectedDecision(core.ErrFineNotFound)
	}

	if !fine.IsOpen() {
		return core.RejectedDecision(core.ErrFineAlreadySettled)
	}

	wasLocked := account.Locked()
	waived := core.BuildFineWaived(fine.FineID, fine.LoanID, fine.UserID, fine.Outstanding(), command.StaffID.String(), false, command.OccurredAt)
	account.Apply(waived)

	if wasLocked && !account.Locked() {
		waived = core.BuildFineWaived(fine.FineID, fine.LoanID, fine.UserID, fine.Outstanding(), command.StaffID.String(), true, command.OccurredAt)
	}

	return core.SuccessDecision(waived)
}

// BuildEventFilter creates the filter for the fine and the fine account of its user.
func BuildEventFilter(command Command, userID string) eventstore.Filter {
	filter := finepolicy.FineFilter(command.FineID.String())
	if userID == "" {
		return filter
	}

	return filter.Or(finepolicy.AccountFilter(userID))
}
