package waivefine

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
)

const (
	commandType = "WaiveFine"
)

// Command represents a staff member forgiving the outstanding balance of a fine.
type Command struct {
	FineID     uuid.UUID
	StaffID    uuid.UUID
	OccurredAt time.Time
}

// CommandType returns the type identifier for this command, used for observability.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(fineID, staffID uuid.UUID, occurredAt time.Time) Command {
	return Command{
		FineID:     fineID,
		StaffID:    staffID,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
