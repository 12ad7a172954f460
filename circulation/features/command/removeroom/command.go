package removeroom

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
)

const (
	commandType = "RemoveRoom"
)

// Command represents staff taking a room out of service.
type Command struct {
	RoomID     uuid.UUID
	OccurredAt time.Time
}

// CommandType returns the type identifier for this command, used for observability.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(roomID uuid.UUID, occurredAt time.Time) Command {
	return Command{
		RoomID:     roomID,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
