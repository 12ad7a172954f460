package holdqueue

import (
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-engine/eventstore"
)

// EventTypes are the event types that change an item's copies or holds.
var EventTypes = []string{
	core.ItemAddedToCatalogEventType,
	core.CopyAddedToCirculationEventType,
	core.CopyCheckedOutEventType,
	core.CopyReturnedEventType,
	core.LoanMarkedLostEventType,
	core.HoldPlacedEventType,
	core.HoldPromotedEventType,
	core.HoldFulfilledEventType,
	core.HoldCancelledEventType,
	core.HoldExpiredEventType,
}

// ItemFilter selects everything the queue of itemID is projected from. Appending with it serializes
// all writers that change the item's copies or holds.
func ItemFilter(itemID string) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(EventTypes[0], EventTypes[1:]...).
		AndAnyPredicateOf(eventstore.P("ItemID", itemID)).
		Finalize()
}

// HoldFilter selects the events of one hold, failed requests included.
func HoldFilter(holdID string) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.HoldPlacedEventType,
			core.HoldPromotedEventType,
			core.HoldFulfilledEventType,
			core.HoldCancelledEventType,
			core.HoldExpiredEventType,
			core.HoldRequestFailedEventType,
		).
		AndAnyPredicateOf(eventstore.P("HoldID", holdID)).
		Finalize()
}

// PlacedByFilter selects the holds a user placed, the entry point to the queues they wait in.
func PlacedByFilter(userID string) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(core.HoldPlacedEventType).
		AndAnyPredicateOf(eventstore.P("UserID", userID)).
		Finalize()
}

// ItemsFilter selects the queues of several items. itemIDs must not be empty.
func ItemsFilter(itemIDs []string) eventstore.Filter {
	predicates := make([]eventstore.FilterPredicate, 0, len(itemIDs))
	for _, itemID := range itemIDs {
		predicates = append(predicates, eventstore.P("ItemID", itemID))
	}

	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(EventTypes[0], EventTypes[1:]...).
		AndAnyPredicateOf(predicates[0], predicates[1:]...).
		Finalize()
}

// ReadyHoldsFilter selects the promotion lifecycle of all holds, used to find lapsed pickup windows.
func ReadyHoldsFilter() eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.HoldPromotedEventType,
			core.HoldFulfilledEventType,
			core.HoldCancelledEventType,
			core.HoldExpiredEventType,
		).
		Finalize()
}
