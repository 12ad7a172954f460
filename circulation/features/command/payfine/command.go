package payfine

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
)

const (
	commandType = "PayFine"
)

// Command represents the intent to pay one fine in full.
type Command struct {
	FineID       uuid.UUID
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
func BuildCommand(fineID, userID uuid.UUID, amount decimal.Decimal, paymentToken string, occurredAt time.Time) Command {
	return Command{
		FineID:       fineID,
		UserID:       userID,
		Amount:       amount,
		PaymentToken: paymentToken,
		OccurredAt:   core.ToOccurredAt(occurredAt),
	}
}
