// Package roomreservations implements the reservation calendar of one room.
package roomreservations

import (
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/roomschedule"
	"github.com/AntonStoeckl/library-circulation-engine/eventstore"
)

// ProjectRoomReservations lists the room's reservations by start time. Active reservations that
// have ended at query.Now are reported as completed. The boolean is false for unknown or removed rooms.
func ProjectRoomReservations(history core.DomainEvents, query Query) (RoomReservations, bool) {
	roomID := query.RoomID.String()
	schedule := roomschedule.Project(history)

	room, ok := schedule.Room(roomID)
	if !ok {
		return RoomReservations{}, false
	}

	result := RoomReservations{RoomID: roomID, RoomName: room.Name, Reservations: make([]ReservationInfo, 0)}
	for _, reservation := range schedule.Reservations(roomID) {
		status := reservation.ComputedStatus(query.Now)
		if status == roomschedule.ReservationCancelled && !query.IncludeCancelled {
			continue
		}

		result.Reservations = append(result.Reservations, ReservationInfo{
			ReservationID: reservation.ReservationID,
			UserID:        reservation.UserID,
			StartTime:     reservation.StartTime,
			EndTime:       reservation.EndTime,
			Status:        status,
		})
	}
	result.Count = len(result.Reservations)

	return result, true
}

// BuildEventFilter creates the filter for the room and its reservations.
func BuildEventFilter(query Query) eventstore.Filter {
	return roomschedule.RoomFilter(query.RoomID.String())
}
