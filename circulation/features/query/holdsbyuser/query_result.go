package holdsbyuser

import (
	"time"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/holdqueue"
)

// HoldInfo is one hold as shown to the user who placed it.
type HoldInfo struct {
	HoldID         string
	ItemID         string
	Title          string
	Status         holdqueue.HoldStatus
	Position       int
	QueueLength    int
	PlacedAt       time.Time
	CopyID         string
	AvailableSince time.Time
	ExpiresAt      time.Time
}

// HoldsOfUser is the query result.
type HoldsOfUser struct {
	UserID string
	Holds  []HoldInfo
	Count  int
}
