package itemqueue

import (
	"time"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/holdqueue"
)

// HoldEntry is one active hold in queue order.
type HoldEntry struct {
	HoldID    string
	UserID    string
	Status    holdqueue.HoldStatus
	Position  int
	PlacedAt  time.Time
	CopyID    string
	ExpiresAt time.Time
}

// CopyEntry is one copy of the item.
type CopyEntry struct {
	CopyID  string
	Status  holdqueue.CopyStatus
	HeldFor string
}

// ItemQueue is the query result.
type ItemQueue struct {
	ItemID          string
	Title           string
	TotalCopies     int
	AvailableCopies int
	Copies          []CopyEntry
	Holds           []HoldEntry
	Queued          int
}
