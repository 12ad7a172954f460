package marknotificationread

import (
	"context"
	"errors"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/shell"
)

// CommandHandler runs Query -> Decide -> Append for MarkNotificationRead.
type CommandHandler struct {
	runner shell.CommandRunner
}

// NewCommandHandler creates a new CommandHandler.
func NewCommandHandler(eventStore shell.EventStore, opts ...shell.Option) CommandHandler {
	return CommandHandler{
		runner: shell.NewCommandRunner(eventStore, opts...),
	}
}

// Handle executes the command with retries on concurrency conflicts.
// Infrastructure failures are reported as notification_update_failed.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	result, err := h.runner.Run(ctx, command.CommandType(), BuildEventFilter(command), shell.Pure(func(history core.DomainEvents) core.DecisionResult {
		return Decide(history, command)
	}))
	if err != nil && core.CodeOf(err).Kind() == core.KindInfrastructure {
		return result, errors.Join(core.ErrNotificationUpdateFailed, err)
	}

	return result, err
}
