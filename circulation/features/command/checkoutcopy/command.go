package checkoutcopy

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
)

const (
	commandType = "CheckoutCopy"
)

// Command represents the intent to lend a copy to a user.
// LoanID is chosen by the caller, so a retried request does not open a second loan.
type Command struct {
	LoanID     uuid.UUID
	CopyID     uuid.UUID
	UserID     uuid.UUID
	OccurredAt time.Time
}

// CommandType returns the type identifier for this command, used for observability.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(loanID, copyID, userID uuid.UUID, occurredAt time.Time) Command {
	return Command{
		LoanID:     loanID,
		CopyID:     copyID,
		UserID:     userID,
		OccurredAt: core.ToOccurredAt(occurredAt),
	}
}
