package promotehold

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
)

const (
	commandType = "PromoteIfPossible"
)

// Command represents an explicit promotion check for one item.
type Command struct {
	ItemID     uuid.UUID
	OccurredAt time.Time
}

// CommandType returns the type identifier for this command, used for observability.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(itemID uuid.UUID, occurredAt time.Time) Command {
	return Command{
		ItemID:     itemID,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
