package createreservation

import (
	"context"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/shell"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/timewindow"
)

// CommandHandler runs Query -> Decide -> Append for CreateReservation.
type CommandHandler struct {
	runner shell.CommandRunner
	window timewindow.TimeWindow
	policy core.Policy
}

// NewCommandHandler creates a new CommandHandler.
func NewCommandHandler(
	eventStore shell.EventStore,
	window timewindow.TimeWindow,
	policy core.Policy,
	opts ...shell.Option,
) CommandHandler {

	return CommandHandler{
		runner: shell.NewCommandRunner(eventStore, opts...),
		window: window,
		policy: policy,
	}
}

// Handle rejects invalid spans before reading any state, then executes the command
// with retries on concurrency conflicts.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	if err := command.Validate(h.policy.MaxReservationDuration); err != nil {
		return shell.HandlerResult{}, err
	}

	return h.runner.Run(ctx, command.CommandType(), BuildEventFilter(command), shell.Pure(func(history core.DomainEvents) core.DecisionResult {
		return Decide(history, command, h.window, h.policy)
	}))
}
