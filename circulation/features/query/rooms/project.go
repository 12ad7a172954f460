// Package rooms implements the list of bookable rooms.
package rooms

import (
	"slices"
	"strings"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/roomschedule"
	"github.com/AntonStoeckl/library-circulation-engine/eventstore"
)

// ProjectRooms lists the rooms in service ordered by name. Removed rooms are excluded.
func ProjectRooms(history core.DomainEvents) Rooms {
	result := Rooms{Rooms: make([]RoomInfo, 0)}

	for _, room := range roomschedule.Project(history).Rooms() {
		result.Rooms = append(result.Rooms, RoomInfo{
			RoomID:   room.RoomID,
			Name:     room.Name,
			Capacity: room.Capacity,
			Hours:    room.Hours,
		})
	}

	slices.SortFunc(result.Rooms, func(a, b RoomInfo) int {
		return strings.Compare(a.Name, b.Name)
	})
	result.Count = len(result.Rooms)

	return result
}

// BuildEventFilter creates the filter for the lifecycle of all rooms.
func BuildEventFilter() eventstore.Filter {
	return roomschedule.RoomsFilter()
}
