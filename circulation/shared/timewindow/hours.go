package timewindow

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var ErrInvalidHours = errors.New("invalid operating hours")

// DailyHours is the operating window of one weekday in library-local wall time.
// Opens and Closes use "HH:MM"; Closes may be "24:00".
type DailyHours struct {
	Opens  string
	Closes string
	Closed bool
}

// WeeklyHours holds DailyHours indexed by time.Weekday.
type WeeklyHours [7]DailyHours

// DefaultWeeklyHours returns the library's standard schedule: 09:00-21:00 Monday to Saturday, 12:00-18:00 Sunday.
func DefaultWeeklyHours() WeeklyHours {
	var hours WeeklyHours
	for day := time.Sunday; day <= time.Saturday; day++ {
		hours[day] = DailyHours{Opens: "09:00", Closes: "21:00"}
	}
	hours[time.Sunday] = DailyHours{Opens: "12:00", Closes: "18:00"}

	return hours
}

// ParseWeeklyHours builds WeeklyHours from lower-case weekday names ("monday", ...).
// Days missing from the map keep the default schedule.
func ParseWeeklyHours(days map[string]DailyHours) (WeeklyHours, error) {
	hours := DefaultWeeklyHours()

	for name, daily := range days {
		day, ok := weekdayByName(name)
		if !ok {
			return WeeklyHours{}, fmt.Errorf("%w: unknown weekday %q", ErrInvalidHours, name)
		}
		hours[day] = daily
	}

	if err := hours.Validate(); err != nil {
		return WeeklyHours{}, err
	}

	return hours, nil
}

// Validate checks every open day has a parseable window with Opens before Closes.
func (h WeeklyHours) Validate() error {
	for day, daily := range h {
		if daily.Closed {
			continue
		}

		opens, closes, err := daily.window()
		if err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidHours, time.Weekday(day), err)
		}

		if opens >= closes {
			return fmt.Errorf("%w: %s opens at or after closing", ErrInvalidHours, time.Weekday(day))
		}
	}

	return nil
}

// window returns the opening and closing second of the day.
func (d DailyHours) window() (int, int, error) {
	opens, err := parseClock(d.Opens)
	if err != nil {
		return 0, 0, err
	}

	closes, err := parseClock(d.Closes)
	if err != nil {
		return 0, 0, err
	}

	return opens, closes, nil
}

func parseClock(value string) (int, error) {
	hh, mm, found := strings.Cut(value, ":")
	if !found || len(hh) != 2 || len(mm) != 2 {
		return 0, fmt.Errorf("malformed time %q", value)
	}

	hour, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("malformed time %q", value)
	}

	minute, err := strconv.Atoi(mm)
	if err != nil {
		return 0, fmt.Errorf("malformed time %q", value)
	}

	if hour < 0 || minute < 0 || minute > 59 || hour > 24 || (hour == 24 && minute != 0) {
		return 0, fmt.Errorf("time out of range %q", value)
	}

	return hour*3600 + minute*60, nil
}

func weekdayByName(name string) (time.Weekday, bool) {
	for day := time.Sunday; day <= time.Saturday; day++ {
		if strings.EqualFold(day.String(), name) {
			return day, true
		}
	}

	return 0, false
}
