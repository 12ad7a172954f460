package createreservation

import (
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
)

const (
	commandType = "CreateReservation"
)

// Command represents a user's request to book [StartTime, EndTime) of a room.
type Command struct {
	ReservationID uuid.UUID
	RoomID        uuid.UUID
	UserID        uuid.UUID
	StartTime     time.Time
	EndTime       time.Time
	OccurredAt    time.Time
}

// CommandType returns the type identifier for this command, used for observability.
func (c Command) CommandType() string {
	return commandType
}

// BuildCommand creates a new Command with the provided parameters.
func BuildCommand(reservationID, roomID, userID uuid.UUID, start, end, occurredAt time.Time) Command {
	return Command{
		ReservationID: reservationID,
		RoomID:        roomID,
		UserID:        userID,
		StartTime:     core.ToOccurredAt(start),
		EndTime:       core.ToOccurredAt(end),
		OccurredAt:    core.ToOccurredAt(occurredAt),
	}
}

// Validate runs the checks that need no state: the span must be positive, must not lie in the past
// and must not exceed the maximum duration.
func (c Command) Validate(maxDuration time.Duration) error {
	if !c.EndTime.After(c.StartTime) || !c.EndTime.After(c.OccurredAt) {
		return core.ErrInvalidTimespan
	}

	if c.EndTime.Sub(c.StartTime) > maxDuration {
		return core.ErrDurationExceeded
	}

	return nil
}
