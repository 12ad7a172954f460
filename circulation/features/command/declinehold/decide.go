// Package declinehold implements DeclineReadyHold, which also withdraws queued holds.
package declinehold

import (
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/holdqueue"
	"github.com/AntonStoeckl/library-circulation-engine/eventstore"
)

// Decide cancels the hold. A copy reserved by a ready hold passes to the next queued hold.
//
//	THEN: HoldCancelled, followed by HoldPromoted if a reserved copy was released and a hold is queued
//	ERROR: hold_not_found, not_owner, hold_not_active
func Decide(history core.DomainEvents, command Command, policy core.Policy) core.DecisionResult {
	holdID, userID := command.HoldID.String(), command.UserID.String()

	itemID, known := holdqueue.ItemOfHold(history, holdID)
	if !known {
		return fail(command, core.ErrHoldNotFound)
	}

	queue := holdqueue.Project(itemID, history)
	hold, _ := queue.Hold(holdID)

	if hold.UserID != userID {
		return fail(command, core.ErrNotOwner)
	}

	if !hold.IsActive() {
		return fail(command, core.ErrHoldNotActive)
	}

	releasedCopyID := ""
	if hold.Status == holdqueue.HoldReady {
		releasedCopyID = hold.CopyID
	}

	cancelled := core.BuildHoldCancelled(holdID, itemID, userID, releasedCopyID, command.OccurredAt)
	queue.Apply(cancelled)

	return core.SuccessDecision(cancelled, queue.PromoteWaiting(command.OccurredAt, policy.PickupWindow)...)
}

func fail(command Command, err *core.Error) core.DecisionResult {
	return core.ErrorDecision(
		core.BuildHoldRequestFailed(command.HoldID.String(), command.UserID.String(), core.HoldActionDecline, err, command.OccurredAt),
		err,
	)
}

// BuildEventFilter creates the filter for the hold and its item's queue.
func BuildEventFilter(command Command, itemID string) eventstore.Filter {
	filter := holdqueue.HoldFilter(command.HoldID.String())
	if itemID == "" {
		return filter
	}

	return filter.Or(holdqueue.ItemFilter(itemID))
}
