// Package updateroom implements the UpdateRoom staff operation (PUT /rooms/:id).
// Existing reservations are kept when the hours shrink; the new hours apply to new bookings.
package updateroom

import (
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/roomschedule"
	"github.com/AntonStoeckl/library-circulation-engine/eventstore"
)

// Decide replaces the room's attributes.
//
//	ERROR: room_not_found if the room is unknown or removed
//	ERROR: room_exists if another room in service has the name
//	IDEMPOTENCY: nothing changes
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	if err := command.Validate(); err != nil {
		return core.RejectedDecision(err)
	}

	roomID := command.RoomID.String()
	schedule := roomschedule.Project(history)

	room, ok := schedule.Room(roomID)
	if !ok {
		return core.RejectedDecision(core.ErrRoomNotFound)
	}

	if other, taken := schedule.RoomByName(command.Name); taken && other.RoomID != roomID {
		return core.RejectedDecision(core.ErrRoomExists)
	}

	if room.Name == command.Name && room.Capacity == command.Capacity && room.Hours == command.Hours {
		return core.IdempotentDecision()
	}

	return core.SuccessDecision(
		core.BuildRoomUpdated(roomID, command.Name, command.Capacity, command.Hours, command.OccurredAt),
	)
}

// BuildEventFilter selects the lifecycle events of all rooms, since names are unique across them.
func BuildEventFilter() eventstore.Filter {
	return roomschedule.RoomsFilter()
}
