// Package holdsbyuser implements the Holds By User query with live queue positions.
package holdsbyuser

import (
	"slices"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/holdqueue"
	"github.com/AntonStoeckl/library-circulation-engine/eventstore"
)

// ItemsOf returns the items the user placed holds on, in first-placed order.
func ItemsOf(placed core.DomainEvents) []string {
	items := make([]string, 0)
	for _, event := range placed {
		if e, ok := event.(core.HoldPlaced); ok && !slices.Contains(items, e.ItemID) {
			items = append(items, e.ItemID)
		}
	}

	return items
}

// ProjectHoldsOfUser projects every queue the user waits in and picks the user's holds.
//
//	INCLUDES: the dense queue position of queued holds and the length of the queue
//	EXCLUDES: fulfilled, cancelled and expired holds if ActiveOnly is set
func ProjectHoldsOfUser(history core.DomainEvents, itemIDs []string, query Query) HoldsOfUser {
	userID := query.UserID.String()
	result := HoldsOfUser{UserID: userID, Holds: make([]HoldInfo, 0)}

	for _, itemID := range itemIDs {
		queue := holdqueue.Project(itemID, history)
		queueLength := len(queue.Queued())

		for _, hold := range queue.Holds() {
			if hold.UserID != userID || (query.ActiveOnly && !hold.IsActive()) {
				continue
			}

			result.Holds = append(result.Holds, HoldInfo{
				HoldID:         hold.HoldID,
				ItemID:         itemID,
				Title:          queue.Title,
				Status:         hold.Status,
				Position:       hold.Position,
				QueueLength:    queueLength,
				PlacedAt:       hold.PlacedAt,
				CopyID:         hold.CopyID,
				AvailableSince: hold.AvailableSince,
				ExpiresAt:      hold.ExpiresAt,
			})
		}
	}

	slices.SortStableFunc(result.Holds, func(a, b HoldInfo) int {
		return b.PlacedAt.Compare(a.PlacedAt)
	})
	result.Count = len(result.Holds)

	return result
}

// BuildEventFilter creates the filter for the queues of the given items.
func BuildEventFilter(itemIDs []string) eventstore.Filter {
	return holdqueue.ItemsFilter(itemIDs)
}
