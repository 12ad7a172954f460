// Package cancelreservation implements the CancelReservation use case of the room scheduler.
package cancelreservation

import (
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/roomschedule"
	"github.com/AntonStoeckl/library-circulation-engine/eventstore"
)

// Decide cancels an active reservation that has not ended.
//
//	ERROR: reservation_not_found if unknown, cancelled or completed
//	ERROR: not_owner if the caller neither owns the reservation nor is staff
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	reservation, ok := roomschedule.Project(history).Reservation(command.ReservationID.String())
	if !ok || !reservation.IsUpcomingOrRunning(command.OccurredAt) {
		return core.RejectedDecision(core.ErrReservationNotFound)
	}

	if reservation.UserID != command.UserID.String() && !command.IsStaff {
		return core.RejectedDecision(core.ErrNotOwner)
	}

	return core.SuccessDecision(
		core.BuildReservationCancelled(
			reservation.ReservationID,
			reservation.RoomID,
			reservation.UserID,
			command.UserID.String(),
			reservation.StartTime,
			reservation.EndTime,
			command.OccurredAt,
		),
	)
}

// BuildEventFilter creates the filter for the reservation and, once known, its room.
func BuildEventFilter(command Command, roomID string) eventstore.Filter {
	filter := roomschedule.ReservationFilter(command.ReservationID.String())
	if roomID == "" {
		return filter
	}

	return filter.Or(roomschedule.RoomFilter(roomID))
}
