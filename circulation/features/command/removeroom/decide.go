// Package removeroom implements the RemoveRoom staff operation (DELETE /rooms/:id).
package removeroom

import (
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/roomschedule"
	"github.com/AntonStoeckl/library-circulation-engine/eventstore"
)

// Decide removes the room.
//
//	ERROR: room_not_found if the room is unknown or already removed
//	ERROR: room_in_use while an active reservation has not ended
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	roomID := command.RoomID.String()
	schedule := roomschedule.Project(history)

	if _, ok := schedule.Room(roomID); !ok {
		return core.RejectedDecision(core.ErrRoomNotFound)
	}

	for _, reservation := range schedule.Reservations(roomID) {
		if reservation.IsUpcomingOrRunning(command.OccurredAt) {
			return core.RejectedDecision(core.ErrRoomInUse)
		}
	}

	return core.SuccessDecision(core.BuildRoomRemoved(roomID, command.OccurredAt))
}

// BuildEventFilter creates the filter for the room and its reservations.
func BuildEventFilter(command Command) eventstore.Filter {
	return roomschedule.RoomFilter(command.RoomID.String())
}
