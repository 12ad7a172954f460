// Package roomschedule projects rooms and their reservations.
//
// A reservation is stored as active or cancelled. "completed" is derived at read time for
// active reservations whose end lies in the past.
package roomschedule

import (
	"slices"
	"time"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/timewindow"
)

type ReservationStatus = string

const (
	ReservationActive    ReservationStatus = "active"
	ReservationCancelled ReservationStatus = "cancelled"
	ReservationCompleted ReservationStatus = "completed"
)

// Room is the projected state of one room.
type Room struct {
	RoomID   string
	Name     string
	Capacity int
	Hours    timewindow.WeeklyHours
	Removed  bool
}

// Reservation is the projected state of one reservation.
type Reservation struct {
	ReservationID string
	RoomID        string
	UserID        string
	StartTime     time.Time
	EndTime       time.Time
	Status        ReservationStatus
	CreatedAt     time.Time
	CancelledAt   time.Time
}

// ComputedStatus returns "completed" for active reservations that have ended at now.
func (r Reservation) ComputedStatus(now time.Time) ReservationStatus {
	if r.Status == ReservationActive && !r.EndTime.After(now) {
		return ReservationCompleted
	}

	return r.Status
}

// IsUpcomingOrRunning reports whether the reservation is active and has not ended at now.
func (r Reservation) IsUpcomingOrRunning(now time.Time) bool {
	return r.ComputedStatus(now) == ReservationActive
}

// Overlaps reports whether [start, end) intersects the reservation's interval.
func (r Reservation) Overlaps(start, end time.Time) bool {
	return start.Before(r.EndTime) && r.StartTime.Before(end)
}

// Schedule is the projection of rooms and reservations.
type Schedule struct {
	rooms        []*Room
	roomIndex    map[string]*Room
	reservations []*Reservation
	resIndex     map[string]*Reservation
}

// Project folds room and reservation events into a Schedule.
func Project(history core.DomainEvents) *Schedule {
	s := &Schedule{
		roomIndex: make(map[string]*Room),
		resIndex:  make(map[string]*Reservation),
	}

	for _, event := range history {
		s.Apply(event)
	}

	return s
}

// Apply folds one event into the schedule.
func (s *Schedule) Apply(event core.DomainEvent) {
	switch e := event.(type) {
	case core.RoomRegistered:
		room := &Room{RoomID: e.RoomID, Name: e.Name, Capacity: e.Capacity, Hours: e.Hours}
		if existing, ok := s.roomIndex[e.RoomID]; ok {
			*existing = *room
			return
		}
		s.rooms = append(s.rooms, room)
		s.roomIndex[e.RoomID] = room

	case core.RoomUpdated:
		if room, ok := s.roomIndex[e.RoomID]; ok {
			room.Name = e.Name
			room.Capacity = e.Capacity
			room.Hours = e.Hours
		}

	case core.RoomRemoved:
		if room, ok := s.roomIndex[e.RoomID]; ok {
			room.Removed = true
		}

	case core.ReservationCreated:
		reservation := &Reservation{
			ReservationID: e.ReservationID,
			RoomID:        e.RoomID,
			UserID:        e.UserID,
			StartTime:     e.StartTime,
			EndTime:       e.EndTime,
			Status:        ReservationActive,
			CreatedAt:     e.OccurredAt,
		}
		s.reservations = append(s.reservations, reservation)
		s.resIndex[e.ReservationID] = reservation

	case core.ReservationCancelled:
		if reservation, ok := s.resIndex[e.ReservationID]; ok {
			reservation.Status = ReservationCancelled
			reservation.CancelledAt = e.OccurredAt
		}
	}
}

// Room returns a room that has not been removed.
func (s *Schedule) Room(roomID string) (Room, bool) {
	room, ok := s.roomIndex[roomID]
	if !ok || room.Removed {
		return Room{}, false
	}

	return *room, true
}

// RoomByName returns the room in service carrying name.
func (s *Schedule) RoomByName(name string) (Room, bool) {
	for _, room := range s.rooms {
		if !room.Removed && room.Name == name {
			return *room, true
		}
	}

	return Room{}, false
}

// Rooms returns the rooms in service in registration order.
func (s *Schedule) Rooms() []Room {
	result := make([]Room, 0, len(s.rooms))
	for _, room := range s.rooms {
		if !room.Removed {
			result = append(result, *room)
		}
	}

	return result
}

// Reservation returns one reservation.
func (s *Schedule) Reservation(reservationID string) (Reservation, bool) {
	reservation, ok := s.resIndex[reservationID]
	if !ok {
		return Reservation{}, false
	}

	return *reservation, true
}

// Reservations returns the reservations of roomID ordered by start time.
func (s *Schedule) Reservations(roomID string) []Reservation {
	result := make([]Reservation, 0)
	for _, reservation := range s.reservations {
		if reservation.RoomID == roomID {
			result = append(result, *reservation)
		}
	}

	sortByStart(result)

	return result
}

// AllReservations returns every reservation ordered by start time.
func (s *Schedule) AllReservations() []Reservation {
	result := make([]Reservation, 0, len(s.reservations))
	for _, reservation := range s.reservations {
		result = append(result, *reservation)
	}

	sortByStart(result)

	return result
}

// Conflicting returns the active reservations of roomID overlapping [start, end).
func (s *Schedule) Conflicting(roomID string, start, end time.Time) []Reservation {
	result := make([]Reservation, 0)
	for _, reservation := range s.reservations {
		if reservation.RoomID == roomID && reservation.Status == ReservationActive && reservation.Overlaps(start, end) {
			result = append(result, *reservation)
		}
	}

	return result
}

func sortByStart(reservations []Reservation) {
	slices.SortStableFunc(reservations, func(a, b Reservation) int {
		return a.StartTime.Compare(b.StartTime)
	})
}
