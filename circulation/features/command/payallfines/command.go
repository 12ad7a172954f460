package payallfines

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
)

const (
	commandType = "PayAllFines"
)

// Command represents the intent to settle every open fine of a user with one payment.
type Command struct {
	UserID       uuid.UUID
	Amount       decimal.Decimal
	PaymentToken string
	OccurredAt   time.Time
}

// CommandType returns the type identifier for this command, used for observability.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(userID uuid.UUID, amount decimal.Decimal, paymentToken string, occurredAt time.Time) Command {
	return Command{
		UserID:       userID,
		Amount:       amount,
		PaymentToken: paymentToken,
		OccurredAt:   core.ToOccurredAt(occurredAt),
	}
}
