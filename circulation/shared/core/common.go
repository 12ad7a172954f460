package core

import (
	"time"

	"github.com/google/uuid"
)

// Instead of implementing full value objects, I'm using some alias types and helper methods here ...

type UserIDString = string
type ItemIDString = string
type CopyIDString = string
type LoanIDString = string
type HoldIDString = string
type RoomIDString = string
type ReservationIDString = string
type FineIDString = string
type NotificationIDString = string

// ToOccurredAt converts a time to UTC with microsecond precision, which is what PostgreSQL stores.
func ToOccurredAt(t time.Time) time.Time {
	return t.UTC().Truncate(time.Microsecond)
}

var fineNamespace = uuid.MustParse("6f1c3f0e-93a4-4c7e-9b55-0c1d2a8f4e10")

// FineIDForLoan derives the id of the one Fine a Loan can have.
func FineIDForLoan(loanID uuid.UUID) uuid.UUID {
	return uuid.NewSHA1(fineNamespace, loanID[:])
}
