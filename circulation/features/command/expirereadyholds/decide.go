// Package expirereadyholds implements the per-item step of SweepExpiredHolds.
package expirereadyholds

import (
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/holdqueue"
	"github.com/AntonStoeckl/library-circulation-engine/eventstore"
)

// Decide expires every ready hold of the item whose pickup window has lapsed and passes each
// released copy to the next queued hold, one hold per copy.
//
//	THEN: HoldExpired per lapsed hold, then HoldPromoted per released copy with a queued hold
//	IDEMPOTENCY: no ready hold has lapsed
func Decide(history core.DomainEvents, command Command, policy core.Policy) core.DecisionResult {
	queue := holdqueue.Project(command.ItemID.String(), history)

	expired := make(core.DomainEvents, 0)
	for _, hold := range queue.ExpiredReadyHolds(command.OccurredAt) {
		event := core.BuildHoldExpired(hold.HoldID, hold.ItemID, hold.UserID, hold.CopyID, command.OccurredAt)
		queue.Apply(event)
		expired = append(expired, event)
	}

	if len(expired) == 0 {
		return core.IdempotentDecision()
	}

	events := append(expired, queue.PromoteWaiting(command.OccurredAt, policy.PickupWindow)...)

	return core.SuccessDecision(events[0], events[1:]...)
}

// BuildEventFilter creates the filter for the item's queue.
func BuildEventFilter(command Command) eventstore.Filter {
	return holdqueue.ItemFilter(command.ItemID.String())
}
