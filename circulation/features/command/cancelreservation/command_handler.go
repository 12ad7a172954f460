package cancelreservation

import (
	"context"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/roomschedule"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/shell"
	"github.com/AntonStoeckl/library-circulation-engine/eventstore"
)

// CommandHandler runs Query -> Decide -> Append for CancelReservation.
type CommandHandler struct {
	runner shell.CommandRunner
	lookup shell.QueryRunner
}

// NewCommandHandler creates a new CommandHandler.
func NewCommandHandler(eventStore shell.EventStore, opts ...shell.Option) CommandHandler {
	return CommandHandler{
		runner: shell.NewCommandRunner(eventStore, opts...),
		lookup: shell.NewQueryRunner(eventStore, opts...),
	}
}

// Handle executes the command with retries on concurrency conflicts.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	history, err := h.lookup.Load(
		eventstore.WithStrongConsistency(ctx),
		command.CommandType(),
		roomschedule.ReservationFilter(command.ReservationID.String()),
	)
	if err != nil {
		return shell.HandlerResult{}, err
	}

	roomID := ""
	if reservation, ok := roomschedule.Project(history).Reservation(command.ReservationID.String()); ok {
		roomID = reservation.RoomID
	}

	return h.runner.Run(ctx, command.CommandType(), BuildEventFilter(command, roomID), shell.Pure(func(history core.DomainEvents) core.DecisionResult {
		return Decide(history, command)
	}))
}
