// Package promotehold implements PromoteIfPossible as a standalone command.
//
// Return, AddCopy, DeclineHold and ExpireReadyHolds promote in the same append that frees the copy.
// This command repairs items where that did not happen, e.g. after a policy change or a data import.
package promotehold

import (
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/holdqueue"
	"github.com/AntonStoeckl/library-circulation-engine/eventstore"
)

// Decide promotes queued holds in FIFO order while free copies exist.
//
//	ERROR: item_not_found
//	IDEMPOTENCY: no free copy or no queued hold
func Decide(history core.DomainEvents, command Command, policy core.Policy) core.DecisionResult {
	queue := holdqueue.Project(command.ItemID.String(), history)
	if !queue.ItemKnown {
		return core.RejectedDecision(core.ErrItemNotFound)
	}

	promoted := queue.PromoteWaiting(command.OccurredAt, policy.PickupWindow)
	if len(promoted) == 0 {
		return core.IdempotentDecision()
	}

	return core.SuccessDecision(promoted[0], promoted[1:]...)
}

// BuildEventFilter creates the filter for the item's queue.
func BuildEventFilter(command Command) eventstore.Filter {
	return holdqueue.ItemFilter(command.ItemID.String())
}
