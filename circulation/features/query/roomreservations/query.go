package roomreservations

import (
	"time"

	"github.com/google/uuid"
)

const (
	queryType = "RoomReservations"
)

// Query represents the intent to see the reservations of a room.
type Query struct {
	RoomID           uuid.UUID
	IncludeCancelled bool
	Now              time.Time
}

// BuildQuery creates a new Query.
func BuildQuery(roomID uuid.UUID, includeCancelled bool, now time.Time) Query {
	return Query{
		RoomID:           roomID,
		IncludeCancelled: includeCancelled,
		Now:              now,
	}
}

// QueryType returns the query type.
func (q Query) QueryType() string {
	return queryType
}
