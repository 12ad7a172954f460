package checkoutcopy

import (
	"context"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/shell"
)

// CommandHandler runs Query -> Decide -> Append for CheckoutCopy and retries on concurrency conflicts.
type CommandHandler struct {
	runner shell.CommandRunner
	policy core.Policy
}

// NewCommandHandler creates a new CommandHandler.
func NewCommandHandler(eventStore shell.EventStore, policy core.Policy, opts ...shell.Option) CommandHandler {
	return CommandHandler{
		runner: shell.NewCommandRunner(eventStore, opts...),
		policy: policy,
	}
}

// Handle executes the command. A business rule violation is recorded as CheckingOutCopyFailed
// and returned as a *core.Error.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	return h.runner.Run(ctx, command.CommandType(), BuildEventFilter(command), shell.Pure(func(history core.DomainEvents) core.DecisionResult {
		return Decide(history, command, h.policy)
	}))
}
