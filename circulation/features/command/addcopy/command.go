package addcopy

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
)

const (
	commandType = "AddCopy"
)

// Command represents the intent to put a new physical copy of an item into circulation.
type Command struct {
	CopyID     uuid.UUID
	ItemID     uuid.UUID
	OccurredAt time.Time
}

// CommandType returns the type identifier for this command, used for observability.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(copyID, itemID uuid.UUID, occurredAt time.Time) Command {
	return Command{
		CopyID:     copyID,
		ItemID:     itemID,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
