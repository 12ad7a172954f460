package rooms

import (
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/timewindow"
)

// RoomInfo is one bookable room.
type RoomInfo struct {
	RoomID   string
	Name     string
	Capacity int
	Hours    timewindow.WeeklyHours
}

// Rooms is the query result.
type Rooms struct {
	Rooms []RoomInfo
	Count int
}
