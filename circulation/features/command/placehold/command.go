package placehold

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
)

const (
	commandType = "PlaceHold"
)

// Command represents a patron's request to queue for the next free copy of an item.
type Command struct {
	HoldID     uuid.UUID
	ItemID     uuid.UUID
	UserID     uuid.UUID
	OccurredAt time.Time
}

// CommandType returns the type identifier for this command, used for observability.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(holdID, itemID, userID uuid.UUID, occurredAt time.Time) Command {
	return Command{
		HoldID:     holdID,
		ItemID:     itemID,
		UserID:     userID,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
