package roomschedule

import (
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-engine/eventstore"
)

// RoomFilter selects one room and its reservations. Appending with it serializes all bookings of the room.
func RoomFilter(roomID string) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.RoomRegisteredEventType,
			core.RoomUpdatedEventType,
			core.RoomRemovedEventType,
			core.ReservationCreatedEventType,
			core.ReservationCancelledEventType,
		).
		AndAnyPredicateOf(eventstore.P("RoomID", roomID)).
		Finalize()
}

// ReservationFilter selects the events of one reservation.
func ReservationFilter(reservationID string) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(core.ReservationCreatedEventType, core.ReservationCancelledEventType).
		AndAnyPredicateOf(eventstore.P("ReservationID", reservationID)).
		Finalize()
}

// RoomsFilter selects the lifecycle events of all rooms. Room names are unique across it.
func RoomsFilter() eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(core.RoomRegisteredEventType, core.RoomUpdatedEventType, core.RoomRemovedEventType).
		Finalize()
}

// ScheduleFilter selects all rooms and all reservations.
func ScheduleFilter() eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(
			core.RoomRegisteredEventType,
			core.RoomUpdatedEventType,
			core.RoomRemovedEventType,
			core.ReservationCreatedEventType,
			core.ReservationCancelledEventType,
		).
		Finalize()
}
