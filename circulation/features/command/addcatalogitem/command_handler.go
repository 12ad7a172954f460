package addcatalogitem

import (
	"context"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/shell"
)

// CommandHandler runs Query -> Decide -> Append for AddCatalogItem.
type CommandHandler struct {
	runner shell.CommandRunner
}

// NewCommandHandler creates a new CommandHandler.
func NewCommandHandler(eventStore shell.EventStore, opts ...shell.Option) CommandHandler {
	return CommandHandler{runner: shell.NewCommandRunner(eventStore, opts...)}
}

// Handle executes the command with retries on concurrency conflicts.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	return h.runner.Run(ctx, command.CommandType(), BuildEventFilter(command), shell.Pure(func(history core.DomainEvents) core.DecisionResult {
		return Decide(history, command)
	}))
}
