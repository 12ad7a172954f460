// Package timewindow answers calendar questions in the library's local time:
// which day a timestamp falls on, how many calendar days lie between two instants,
// and whether an interval fits a room's operating hours.
//
// Timestamps are stored and exchanged in UTC. Only these calculations use the library location.
package timewindow

import (
	"time"
)

// DefaultLocation is the library's display and calendar timezone.
const DefaultLocation = "America/Chicago"

// TimeWindow performs calendar arithmetic in one location.
type TimeWindow struct {
	loc *time.Location
}

// New creates a TimeWindow for loc. A nil loc means UTC.
func New(loc *time.Location) TimeWindow {
	if loc == nil {
		loc = time.UTC
	}

	return TimeWindow{loc: loc}
}

// Load creates a TimeWindow for an IANA location name.
func Load(name string) (TimeWindow, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return TimeWindow{}, err
	}

	return New(loc), nil
}

// Location returns the library location.
func (w TimeWindow) Location() *time.Location {
	if w.loc == nil {
		return time.UTC
	}

	return w.loc
}

// Local converts t to library time.
func (w TimeWindow) Local(t time.Time) time.Time {
	return t.In(w.Location())
}

// DayStart returns local midnight of the day t falls on.
func (w TimeWindow) DayStart(t time.Time) time.Time {
	local := w.Local(t)

	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, w.Location())
}

// SameDay reports whether a and b fall on the same library calendar day.
func (w TimeWindow) SameDay(a, b time.Time) bool {
	la, lb := w.Local(a), w.Local(b)

	return la.Year() == lb.Year() && la.YearDay() == lb.YearDay()
}

// DaysBetween counts library calendar days from the day of "from" to the day of "to".
// It is negative when "to" lies on an earlier day.
func (w TimeWindow) DaysBetween(from, to time.Time) int {
	lf, lt := w.Local(from), w.Local(to)
	df := time.Date(lf.Year(), lf.Month(), lf.Day(), 0, 0, 0, 0, time.UTC)
	dt := time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, time.UTC)

	return int(dt.Sub(df).Hours() / 24)
}

// Fits reports whether [start, end) lies inside the operating hours of the day it starts on.
// The interval may end exactly at local midnight but must not cross into the next day.
func (w TimeWindow) Fits(hours WeeklyHours, start, end time.Time) bool {
	if !end.After(start) {
		return false
	}

	ls, le := w.Local(start), w.Local(end)

	daily := hours[ls.Weekday()]
	if daily.Closed {
		return false
	}

	opens, closes, err := daily.window()
	if err != nil {
		return false
	}

	startSec := secondOfDay(ls)

	var endSec int
	switch {
	case w.SameDay(ls, le):
		endSec = secondOfDay(le)
	case le.Equal(w.DayStart(ls).AddDate(0, 0, 1)):
		endSec = 24 * 3600
	default:
		return false
	}

	return startSec >= opens && endSec <= closes
}

func secondOfDay(t time.Time) int {
	return t.Hour()*3600 + t.Minute()*60 + t.Second()
}
