// Package addcatalogitem implements the Add Catalog Item use case.
// Catalog search is outside the engine; the item record only anchors copies and holds.
package addcatalogitem

import (
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-engine/eventstore"
)

// Decide adds the item unless its id is taken.
//
//	IDEMPOTENCY: the same item with the same title and author exists
//	ERROR: item_exists if the id exists with other attributes
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	for _, event := range history {
		if e, ok := event.(core.ItemAddedToCatalog); ok && e.ItemID == command.ItemID.String() {
			if e.Title == command.Title && e.Author == command.Author {
				return core.IdempotentDecision()
			}

			return core.RejectedDecision(core.ErrItemExists)
		}
	}

	return core.SuccessDecision(
		core.BuildItemAddedToCatalog(command.ItemID.String(), command.Title, command.Author, command.OccurredAt),
	)
}

// BuildEventFilter selects the catalog entry of the item.
func BuildEventFilter(command Command) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(core.ItemAddedToCatalogEventType).
		AndAnyPredicateOf(eventstore.P("ItemID", command.ItemID.String())).
		Finalize()
}
