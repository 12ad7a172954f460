package createreservation

import (
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/roomschedule"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/timewindow"
	"github.com/AntonStoeckl/library-circulation-engine/eventstore"
)

// Decide books the span.
//
//	THEN: ReservationCreated is generated
//	ERROR: invalid_timespan, duration_exceeded, outside_library_hours (rejected, nothing recorded)
//	ERROR: room_not_found, reservation_conflict (recorded as CreatingReservationFailed)
//	IDEMPOTENCY: the reservation with this id already books the same span
func Decide(
	history core.DomainEvents,
	command Command,
	window timewindow.TimeWindow,
	policy core.Policy,
) core.DecisionResult {

	if err := command.Validate(policy.MaxReservationDuration); err != nil {
		return core.RejectedDecision(err)
	}

	reservationID, roomID, userID := command.ReservationID.String(), command.RoomID.String(), command.UserID.String()
	schedule := roomschedule.Project(history)

	if existing, ok := schedule.Reservation(reservationID); ok {
		if existing.RoomID == roomID && existing.UserID == userID &&
			existing.StartTime.Equal(command.StartTime) && existing.EndTime.Equal(command.EndTime) {
			return core.IdempotentDecision()
		}

		return core.RejectedDecision(core.NewError(core.CodeInvalidPayload, "reservation id is already in use"))
	}

	room, ok := schedule.Room(roomID)
	if !ok {
		return fail(command, core.ErrRoomNotFound)
	}

	if !window.Fits(room.Hours, command.StartTime, command.EndTime) {
		return core.RejectedDecision(core.ErrOutsideLibraryHours)
	}

	if len(schedule.Conflicting(roomID, command.StartTime, command.EndTime)) > 0 {
		return fail(command, core.ErrReservationConflict)
	}

	return core.SuccessDecision(
		core.BuildReservationCreated(reservationID, roomID, userID, command.StartTime, command.EndTime, command.OccurredAt),
	)
}

func fail(command Command, err *core.Error) core.DecisionResult {
	return core.ErrorDecision(
		core.BuildCreatingReservationFailed(
			command.RoomID.String(),
			command.UserID.String(),
			command.StartTime,
			command.EndTime,
			err,
			command.OccurredAt,
		),
		err,
	)
}

// BuildEventFilter creates the filter for the room and all of its reservations.
func BuildEventFilter(command Command) eventstore.Filter {
	return roomschedule.RoomFilter(command.RoomID.String())
}
