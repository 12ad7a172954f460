// Package placehold implements the PlaceHold use case of the holds queue.
package placehold

import (
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/finepolicy"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/holdqueue"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/ledger"
	"github.com/AntonStoeckl/library-circulation-engine/eventstore"
)

// Decide queues the hold at the end of the item's queue.
//
//	THEN: HoldPlaced is generated
//	THEN: HoldPromoted follows if a copy of the item is free
//	ERROR: item_not_found, user_not_found, account_locked, duplicate_hold
//	IDEMPOTENCY: the hold with this HoldID is already placed on the item
func Decide(history core.DomainEvents, command Command, policy core.Policy) core.DecisionResult {
	holdID, itemID, userID := command.HoldID.String(), command.ItemID.String(), command.UserID.String()
	queue := holdqueue.Project(itemID, history)

	if _, ok := queue.Hold(holdID); ok {
		return core.IdempotentDecision()
	}

	if failure := checkFailures(history, queue, userID); failure != nil {
		return core.ErrorDecision(core.BuildPlacingHoldFailed(itemID, userID, failure, command.OccurredAt), failure)
	}

	placed := core.BuildHoldPlaced(holdID, itemID, userID, command.OccurredAt)
	queue.Apply(placed)

	return core.SuccessDecision(placed, queue.PromoteWaiting(command.OccurredAt, policy.PickupWindow)...)
}

func checkFailures(history core.DomainEvents, queue *holdqueue.Queue, userID string) *core.Error {
	if !queue.ItemKnown {
		return core.ErrItemNotFound
	}

	if _, registered := ledger.ProjectUsers(history)[userID]; !registered {
		return core.ErrUserNotFound
	}

	if finepolicy.ProjectAccount(history).Locked() {
		return core.ErrAccountLocked
	}

	if _, active := queue.ActiveHoldOf(userID); active {
		return core.ErrDuplicateHold
	}

	return nil
}

// BuildEventFilter creates the filter for the item's queue and the user's eligibility.
func BuildEventFilter(command Command) eventstore.Filter {
	return holdqueue.ItemFilter(command.ItemID.String()).
		Or(ledger.BorrowerFilter(command.UserID.String()))
}
