package cancelreservation

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
)

const (
	commandType = "CancelReservation"
)

// Command represents the owner or a staff member cancelling a reservation.
type Command struct {
	ReservationID uuid.UUID
	UserID        uuid.UUID
	IsStaff       bool
	OccurredAt    time.Time
}

// CommandType returns the type identifier for this command, used for observability.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(reservationID, userID uuid.UUID, isStaff bool, occurredAt time.Time) Command {
	return Command{
		ReservationID: reservationID,
		UserID:        userID,
		IsStaff:       isStaff,
		OccurredAt:    core.ToOccurredAt(occurredAt),
	}
}
