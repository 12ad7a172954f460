package core

import (
	"time"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/timewindow"
)

const (
	RoomRegisteredEventType            = "RoomRegistered"
	RoomUpdatedEventType               = "RoomUpdated"
	RoomRemovedEventType               = "RoomRemoved"
	ReservationCreatedEventType        = "ReservationCreated"
	CreatingReservationFailedEventType = "CreatingReservationFailed"
	ReservationCancelledEventType      = "ReservationCancelled"
)

// RoomRegistered adds a bookable room.
type RoomRegistered struct {
	RoomID     RoomIDString
	Name       string
	Capacity   int
	Hours      timewindow.WeeklyHours
	OccurredAt time.Time
}

func BuildRoomRegistered(roomID, name string, capacity int, hours timewindow.WeeklyHours, occurredAt time.Time) DomainEvent {
	return RoomRegistered{
		RoomID:     roomID,
		Name:       name,
		Capacity:   capacity,
		Hours:      hours,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

func (e RoomRegistered) IsEventType() string      { return RoomRegisteredEventType }
func (e RoomRegistered) HasOccurredAt() time.Time { return e.OccurredAt }
func (e RoomRegistered) IsErrorEvent() bool       { return false }

// RoomUpdated replaces a room's attributes. Existing reservations are kept.
type RoomUpdated struct {
	RoomID     RoomIDString
	Name       string
	Capacity   int
	Hours      timewindow.WeeklyHours
	OccurredAt time.Time
}

func BuildRoomUpdated(roomID, name string, capacity int, hours timewindow.WeeklyHours, occurredAt time.Time) DomainEvent {
	return RoomUpdated{
		RoomID:     roomID,
		Name:       name,
		Capacity:   capacity,
		Hours:      hours,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

func (e RoomUpdated) IsEventType() string      { return RoomUpdatedEventType }
func (e RoomUpdated) HasOccurredAt() time.Time { return e.OccurredAt }
func (e RoomUpdated) IsErrorEvent() bool       { return false }

// RoomRemoved takes a room out of service.
type RoomRemoved struct {
	RoomID     RoomIDString
	OccurredAt time.Time
}

func BuildRoomRemoved(roomID string, occurredAt time.Time) DomainEvent {
	return RoomRemoved{
		RoomID:     roomID,
		OccurredAt: ToOccurredAt(occurredAt),
	}
}

func (e RoomRemoved) IsEventType() string      { return RoomRemovedEventType }
func (e RoomRemoved) HasOccurredAt() time.Time { return e.OccurredAt }
func (e RoomRemoved) IsErrorEvent() bool       { return false }

// ReservationCreated books [StartTime, EndTime) of a room.
type ReservationCreated struct {
	ReservationID ReservationIDString
	RoomID        RoomIDString
	UserID        UserIDString
	StartTime     time.Time
	EndTime       time.Time
	OccurredAt    time.Time
}

func BuildReservationCreated(reservationID, roomID, userID string, start, end, occurredAt time.Time) DomainEvent {
	return ReservationCreated{
		ReservationID: reservationID,
		RoomID:        roomID,
		UserID:        userID,
		StartTime:     ToOccurredAt(start),
		EndTime:       ToOccurredAt(end),
		OccurredAt:    ToOccurredAt(occurredAt),
	}
}

func (e ReservationCreated) IsEventType() string      { return ReservationCreatedEventType }
func (e ReservationCreated) HasOccurredAt() time.Time { return e.OccurredAt }
func (e ReservationCreated) IsErrorEvent() bool       { return false }

// CreatingReservationFailed records a booking denied because of the room's state.
type CreatingReservationFailed struct {
	RoomID      RoomIDString
	UserID      UserIDString
	StartTime   time.Time
	EndTime     time.Time
	FailureCode ErrCode
	FailureInfo string
	OccurredAt  time.Time
}

func BuildCreatingReservationFailed(roomID, userID string, start, end time.Time, err *Error, occurredAt time.Time) DomainEvent {
	return CreatingReservationFailed{
		RoomID:      roomID,
		UserID:      userID,
		StartTime:   ToOccurredAt(start),
		EndTime:     ToOccurredAt(end),
		FailureCode: err.Code,
		FailureInfo: err.Msg,
		OccurredAt:  ToOccurredAt(occurredAt),
	}
}

func (e CreatingReservationFailed) IsEventType() string      { return CreatingReservationFailedEventType }
func (e CreatingReservationFailed) HasOccurredAt() time.Time { return e.OccurredAt }
func (e CreatingReservationFailed) IsErrorEvent() bool       { return true }

// ReservationCancelled frees the reserved time span.
type ReservationCancelled struct {
	ReservationID ReservationIDString
	RoomID        RoomIDString
	UserID        UserIDString
	CancelledBy   UserIDString
	StartTime     time.Time
	EndTime       time.Time
	OccurredAt    time.Time
}

func BuildReservationCancelled(reservationID, roomID, userID, cancelledBy string, start, end, occurredAt time.Time) DomainEvent {
	return ReservationCancelled{
		ReservationID: reservationID,
		RoomID:        roomID,
		UserID:        userID,
		CancelledBy:   cancelledBy,
		StartTime:     ToOccurredAt(start),
		EndTime:       ToOccurredAt(end),
		OccurredAt:    ToOccurredAt(occurredAt),
	}
}

func (e ReservationCancelled) IsEventType() string      { return ReservationCancelledEventType }
func (e ReservationCancelled) HasOccurredAt() time.Time { return e.OccurredAt }
func (e ReservationCancelled) IsErrorEvent() bool       { return false }
