package emitnotification

import (
	"maps"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
)

const (
	commandType = "EmitNotification"
)

// Mode selects the dedup rule.
type Mode int

const (
	// Standard suppresses the notification while one for the same key is unread or read.
	Standard Mode = iota

	// OncePerKey suppresses the notification if one for the same key ever existed. Used by reminder sweeps.
	OncePerKey
)

// Command represents the intent to notify a user about one logical event.
type Command struct {
	NotificationID uuid.UUID
	UserID         uuid.UUID
	Type           string
	DedupKey       string
	Metadata       map[string]string
	Mode           Mode
	OccurredAt     time.Time
}

// CommandType returns the type identifier for this command, used for observability.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(
	notificationID uuid.UUID,
	userID uuid.UUID,
	notificationType string,
	dedupKey string,
	metadata map[string]string,
	mode Mode,
	occurredAt time.Time,
) Command {

	return Command{
		NotificationID: notificationID,
		UserID:         userID,
		Type:           notificationType,
		DedupKey:       dedupKey,
		Metadata:       maps.Clone(metadata),
		Mode:           mode,
		OccurredAt:     core.ToOccurredAt(occurredAt),
	}
}
