package roomreservations

import (
	"time"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/roomschedule"
)

// ReservationInfo is one reservation with its status computed at query time.
type ReservationInfo struct {
	ReservationID string
	UserID        string
	StartTime     time.Time
	EndTime       time.Time
	Status        roomschedule.ReservationStatus
}

// RoomReservations is the query result.
type RoomReservations struct {
	RoomID       string
	RoomName     string
	Reservations []ReservationInfo
	Count        int
}
