package accepthold

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
)

const (
	commandType = "AcceptReadyHold"
)

// Command represents a patron picking up the copy reserved by their ready hold.
type Command struct {
	HoldID     uuid.UUID
	UserID     uuid.UUID
	LoanID     uuid.UUID
	OccurredAt time.Time
}

// CommandType returns the type identifier for this command, used for observability.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(holdID, userID, loanID uuid.UUID, occurredAt time.Time) Command {
	return Command{
		HoldID:     holdID,
		UserID:     userID,
		LoanID:     loanID,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
