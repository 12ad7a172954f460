package marknotificationread

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
)

const (
	commandType = "MarkNotificationRead"
)

// Command represents the owner marking a notification as read.
type Command struct {
	NotificationID uuid.UUID
	UserID         uuid.UUID
	OccurredAt     time.Time
}

// CommandType returns the type identifier for this command, used for observability.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(notificationID, userID uuid.UUID, occurredAt time.Time) Command {
	return Command{
		NotificationID: notificationID,
		UserID:         userID,
		OccurredAt:     core.ToOccurredAt(occurredAt),
	}
}
