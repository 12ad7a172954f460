package registeruser

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
)

const (
	commandType = "RegisterUser"
)

// Command represents the intent to open a library account.
type Command struct {
	UserID     uuid.UUID
	Name       string
	Role       core.Role
	OccurredAt time.Time
}

// CommandType returns the type identifier for this command, used for observability.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(userID uuid.UUID, name string, role core.Role, occurredAt time.Time) Command {
	return Command{
		UserID:     userID,
		Name:       name,
		Role:       role,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
