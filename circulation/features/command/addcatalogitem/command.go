package addcatalogitem

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
)

const (
	commandType = "AddCatalogItem"
)

// Command represents the intent to add an item to the catalog.
type Command struct {
	ItemID     uuid.UUID
	Title      string
	Author     string
	OccurredAt time.Time
}

// CommandType returns the type identifier for this command, used for observability.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(itemID uuid.UUID, title, author string, occurredAt time.Time) Command {
	return Command{
		ItemID:     itemID,
		Title:      title,
		Author:     author,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
