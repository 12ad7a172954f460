// Package addcopy implements the Add Copy use case.
//
// A new copy is a free copy: if holds are queued for the item, the head of the queue is promoted
// in the same append.
package addcopy

import (
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/holdqueue"
	"github.com/AntonStoeckl/library-circulation-engine/eventstore"
)

// Decide adds the copy and promotes the next queued hold if there is one.
//
//	ERROR: item_not_found if the item is not in the catalog
//	ERROR: copy_exists if the copy id belongs to another item
//	IDEMPOTENCY: the copy already belongs to this item
func Decide(history core.DomainEvents, command Command, policy core.Policy) core.DecisionResult {
	itemID, copyID := command.ItemID.String(), command.CopyID.String()

	for _, event := range history {
		if e, ok := event.(core.CopyAddedToCirculation); ok && e.CopyID == copyID {
			if e.ItemID == itemID {
				return core.IdempotentDecision()
			}

			return core.RejectedDecision(core.ErrCopyExists)
		}
	}

	queue := holdqueue.Project(itemID, history)
	if !queue.ItemKnown {
		return core.RejectedDecision(core.ErrItemNotFound)
	}

	added := core.BuildCopyAddedToCirculation(copyID, itemID, command.OccurredAt)
	queue.Apply(added)

	return core.SuccessDecision(added, queue.PromoteWaiting(command.OccurredAt, policy.PickupWindow)...)
}

// BuildEventFilter selects the item's queue and any earlier registration of the copy id.
func BuildEventFilter(command Command) eventstore.Filter {
	return holdqueue.ItemFilter(command.ItemID.String()).Or(
		eventstore.BuildEventFilter().
			Matching().
			AnyEventTypeOf(core.CopyAddedToCirculationEventType).
			AndAnyPredicateOf(eventstore.P("CopyID", command.CopyID.String())).
			Finalize(),
	)
}
