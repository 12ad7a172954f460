package declinehold

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
)

const (
	commandType = "DeclineHold"
)

// Command represents a patron withdrawing a queued or ready hold.
type Command struct {
	HoldID     uuid.UUID
	UserID     uuid.UUID
	OccurredAt time.Time
}

// CommandType returns the type identifier for this command, used for observability.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(holdID, userID uuid.UUID, occurredAt time.Time) Command {
	return Command{
		HoldID:     holdID,
		UserID:     userID,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
