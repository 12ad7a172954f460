// Package itemqueue implements the staff view of an item's holds queue and copies.
package itemqueue

import (
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/holdqueue"
	"github.com/AntonStoeckl/library-circulation-engine/eventstore"
)

// ProjectItemQueue returns the active holds in queue order: ready holds first, then queued ones
// by position. The boolean is false for items that are not in the catalog.
func ProjectItemQueue(history core.DomainEvents, query Query) (ItemQueue, bool) {
	itemID := query.ItemID.String()
	queue := holdqueue.Project(itemID, history)
	if !queue.ItemKnown {
		return ItemQueue{}, false
	}

	result := ItemQueue{
		ItemID:          itemID,
		Title:           queue.Title,
		TotalCopies:     queue.TotalCopies(),
		AvailableCopies: len(queue.FreeCopies()),
		Copies:          make([]CopyEntry, 0),
		Holds:           make([]HoldEntry, 0),
	}

	var ready, queued []HoldEntry
	for _, hold := range queue.Holds() {
		entry := HoldEntry{
			HoldID:    hold.HoldID,
			UserID:    hold.UserID,
			Status:    hold.Status,
			Position:  hold.Position,
			PlacedAt:  hold.PlacedAt,
			CopyID:    hold.CopyID,
			ExpiresAt: hold.ExpiresAt,
		}

		switch hold.Status {
		case holdqueue.HoldReady:
			ready = append(ready, entry)
		case holdqueue.HoldQueued:
			queued = append(queued, entry)
		}
	}

	result.Holds = append(append(result.Holds, ready...), queued...)
	result.Queued = len(queued)

	for _, copyID := range queue.CopyIDs() {
		c, _ := queue.Copy(copyID)
		result.Copies = append(result.Copies, CopyEntry{CopyID: c.CopyID, Status: c.Status, HeldFor: c.HeldFor})
	}

	return result, true
}

// BuildEventFilter creates the filter for the item's queue.
func BuildEventFilter(query Query) eventstore.Filter {
	return holdqueue.ItemFilter(query.ItemID.String())
}
