// Package holdqueue projects the copies and holds of one item and decides promotions.
//
// Queue order is the order of HoldPlaced events. The displayed queue position is a dense rank
// among queued holds computed on every projection; it is never stored, so cancelling a hold
// out of order leaves no gaps.
package holdqueue

import (
	"time"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
)

type HoldStatus = string

const (
	HoldQueued    HoldStatus = "queued"
	HoldReady     HoldStatus = "ready"
	HoldFulfilled HoldStatus = "fulfilled"
	HoldCancelled HoldStatus = "cancelled"
	HoldExpired   HoldStatus = "expired"
)

type CopyStatus = string

const (
	CopyAvailable CopyStatus = "available"
	CopyOnLoan    CopyStatus = "on_loan"
	CopyLost      CopyStatus = "lost"
	CopyHeld      CopyStatus = "held"
)

// Hold is the projected state of one hold.
type Hold struct {
	HoldID         string
	ItemID         string
	UserID         string
	Status         HoldStatus
	PlacedAt       time.Time
	CopyID         string
	AvailableSince time.Time
	ExpiresAt      time.Time
	ClosedAt       time.Time
	Position       int // 0 unless queued
}

// IsActive reports whether the hold is queued or ready.
func (h Hold) IsActive() bool {
	return h.Status == HoldQueued || h.Status == HoldReady
}

// Copy is the projected state of one copy.
type Copy struct {
	CopyID  string
	Status  CopyStatus
	HeldFor string
}

// Queue is the projected circulation state of one item.
type Queue struct {
	ItemID    string
	ItemKnown bool
	Title     string

	copies    []*Copy
	copyIndex map[string]*Copy
	holds     []*Hold
	holdIndex map[string]*Hold
}

// Project builds the Queue from the item's events in sequence order.
func Project(itemID string, history core.DomainEvents) *Queue {
	q := &Queue{
		ItemID:    itemID,
		copyIndex: make(map[string]*Copy),
		holdIndex: make(map[string]*Hold),
	}

	for _, event := range history {
		q.Apply(event)
	}

	return q
}

// Apply folds one event into the queue. Events of other items are ignored.
func (q *Queue) Apply(event core.DomainEvent) {
	switch e := event.(type) {
	case core.ItemAddedToCatalog:
		if e.ItemID == q.ItemID {
			q.ItemKnown = true
			q.Title = e.Title
		}

	case core.CopyAddedToCirculation:
		if e.ItemID == q.ItemID {
			c := &Copy{CopyID: e.CopyID, Status: CopyAvailable}
			q.copies = append(q.copies, c)
			q.copyIndex[e.CopyID] = c
		}

	case core.CopyCheckedOut:
		q.setCopy(e.CopyID, CopyOnLoan, "")

	case core.CopyReturned:
		q.setCopy(e.CopyID, CopyAvailable, "")

	case core.LoanMarkedLost:
		q.setCopy(e.CopyID, CopyLost, "")

	case core.HoldPlaced:
		if e.ItemID == q.ItemID {
			h := &Hold{HoldID: e.HoldID, ItemID: e.ItemID, UserID: e.UserID, Status: HoldQueued, PlacedAt: e.OccurredAt}
			q.holds = append(q.holds, h)
			q.holdIndex[e.HoldID] = h
		}

	case core.HoldPromoted:
		if h, ok := q.holdIndex[e.HoldID]; ok {
			h.Status = HoldReady
			h.CopyID = e.CopyID
			h.AvailableSince = e.AvailableSince
			h.ExpiresAt = e.ExpiresAt
		}
		q.setCopy(e.CopyID, CopyHeld, e.HoldID)

	case core.HoldFulfilled:
		q.closeHold(e.HoldID, HoldFulfilled, e.OccurredAt)

	case core.HoldCancelled:
		q.closeHold(e.HoldID, HoldCancelled, e.OccurredAt)
		if e.CopyID != "" {
			q.setCopy(e.CopyID, CopyAvailable, "")
		}

	case core.HoldExpired:
		q.closeHold(e.HoldID, HoldExpired, e.OccurredAt)
		q.setCopy(e.CopyID, CopyAvailable, "")
	}
}

func (q *Queue) setCopy(copyID string, status CopyStatus, heldFor string) {
	if c, ok := q.copyIndex[copyID]; ok {
		c.Status = status
		c.HeldFor = heldFor
	}
}

func (q *Queue) closeHold(holdID string, status HoldStatus, at time.Time) {
	if h, ok := q.holdIndex[holdID]; ok {
		h.Status = status
		h.ClosedAt = at
	}
}

// Holds returns all holds in placement order with queue positions of queued holds.
func (q *Queue) Holds() []Hold {
	result := make([]Hold, 0, len(q.holds))
	position := 0

	for _, h := range q.holds {
		hold := *h
		if hold.Status == HoldQueued {
			position++
			hold.Position = position
		}
		result = append(result, hold)
	}

	return result
}

// Queued returns the queued holds in FIFO order with positions 1..n.
func (q *Queue) Queued() []Hold {
	result := make([]Hold, 0)
	for _, h := range q.Holds() {
		if h.Status == HoldQueued {
			result = append(result, h)
		}
	}

	return result
}

// Hold returns one hold with its current position.
func (q *Queue) Hold(holdID string) (Hold, bool) {
	for _, h := range q.Holds() {
		if h.HoldID == holdID {
			return h, true
		}
	}

	return Hold{}, false
}

// ActiveHoldOf returns the user's queued or ready hold on this item.
func (q *Queue) ActiveHoldOf(userID string) (Hold, bool) {
	for _, h := range q.Holds() {
		if h.UserID == userID && h.IsActive() {
			return h, true
		}
	}

	return Hold{}, false
}

// Copy returns one copy.
func (q *Queue) Copy(copyID string) (Copy, bool) {
	c, ok := q.copyIndex[copyID]
	if !ok {
		return Copy{}, false
	}

	return *c, true
}

// CopyIDs returns the ids of all copies in the order they were added.
func (q *Queue) CopyIDs() []string {
	ids := make([]string, 0, len(q.copies))
	for _, c := range q.copies {
		ids = append(ids, c.CopyID)
	}

	return ids
}

// TotalCopies counts the copies of the item, lost ones included.
func (q *Queue) TotalCopies() int {
	return len(q.copies)
}

// FreeCopies returns the ids of available copies in the order they were added.
func (q *Queue) FreeCopies() []string {
	free := make([]string, 0)
	for _, c := range q.copies {
		if c.Status == CopyAvailable {
			free = append(free, c.CopyID)
		}
	}

	return free
}

// PromoteWaiting pairs free copies with queued holds in FIFO order, one hold per copy,
// applies the resulting HoldPromoted events to q and returns them.
func (q *Queue) PromoteWaiting(now time.Time, pickupWindow time.Duration) core.DomainEvents {
	promoted := make(core.DomainEvents, 0)
	free := q.FreeCopies()
	queued := q.Queued()

	for i := 0; i < len(free) && i < len(queued); i++ {
		event := core.BuildHoldPromoted(queued[i].HoldID, q.ItemID, queued[i].UserID, free[i], now, now.Add(pickupWindow))
		q.Apply(event)
		promoted = append(promoted, event)
	}

	return promoted
}

// ExpiredReadyHolds returns ready holds whose pickup window has lapsed at now.
func (q *Queue) ExpiredReadyHolds(now time.Time) []Hold {
	result := make([]Hold, 0)
	for _, h := range q.holds {
		if h.Status == HoldReady && !now.Before(h.ExpiresAt) {
			result = append(result, *h)
		}
	}

	return result
}

// ItemOfHold finds the item a hold was placed on.
func ItemOfHold(history core.DomainEvents, holdID string) (string, bool) {
	for _, event := range history {
		if e, ok := event.(core.HoldPlaced); ok && e.HoldID == holdID {
			return e.ItemID, true
		}
	}

	return "", false
}
