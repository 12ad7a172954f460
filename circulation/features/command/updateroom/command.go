package updateroom

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/timewindow"
)

const (
	commandType = "UpdateRoom"
)

// Command represents staff replacing a room's name, capacity and operating hours.
type Command struct {
	RoomID     uuid.UUID
	Name       string
	Capacity   int
	Hours      timewindow.WeeklyHours
	OccurredAt time.Time
}

// CommandType returns the type identifier for this command, used for observability.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(roomID uuid.UUID, name string, capacity int, hours timewindow.WeeklyHours, occurredAt time.Time) Command {
	return Command{
		RoomID:     roomID,
		Name:       strings.TrimSpace(name),
		Capacity:   capacity,
		Hours:      hours,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}

// Validate checks the command before any state is read.
func (c Command) Validate() error {
	if c.Name == "" || c.Capacity < 1 {
		return core.ErrInvalidPayload
	}

	if err := c.Hours.Validate(); err != nil {
		return core.NewError(core.CodeInvalidPayload, err.Error())
	}

	return nil
}
