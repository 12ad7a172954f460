// Package registerroom implements the RegisterRoom staff operation.
package registerroom

import (
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/roomschedule"
	"github.com/AntonStoeckl/library-circulation-engine/eventstore"
)

// Decide registers the room.
//
//	ERROR: room_exists if the id was ever used or another room in service has the name
//	IDEMPOTENCY: the same room with the same attributes is registered
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	if err := command.Validate(); err != nil {
		return core.RejectedDecision(err)
	}

	roomID := command.RoomID.String()
	schedule := roomschedule.Project(history)

	for _, event := range history {
		if e, ok := event.(core.RoomRegistered); ok && e.RoomID == roomID {
			if room, inService := schedule.Room(roomID); inService &&
				room.Name == command.Name && room.Capacity == command.Capacity && room.Hours == command.Hours {
				return core.IdempotentDecision()
			}

			return core.RejectedDecision(core.ErrRoomExists)
		}
	}

	if _, taken := schedule.RoomByName(command.Name); taken {
		return core.RejectedDecision(core.ErrRoomExists)
	}

	return core.SuccessDecision(
		core.BuildRoomRegistered(roomID, command.Name, command.Capacity, command.Hours, command.OccurredAt),
	)
}

// BuildEventFilter selects the lifecycle events of all rooms, since names are unique across them.
func BuildEventFilter() eventstore.Filter {
	return roomschedule.RoomsFilter()
}
