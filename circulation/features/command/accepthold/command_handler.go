package accepthold

import (
	"context"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/holdqueue"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/shell"
	"github.com/AntonStoeckl/library-circulation-engine/eventstore"
)

// CommandHandler runs Query -> Decide -> Append for AcceptReadyHold.
type CommandHandler struct {
	runner shell.CommandRunner
	lookup shell.QueryRunner
	policy core.Policy
}

// NewCommandHandler creates a new CommandHandler.
func NewCommandHandler(eventStore shell.EventStore, policy core.Policy, opts ...shell.Option) CommandHandler {
	return CommandHandler{
		runner: shell.NewCommandRunner(eventStore, opts...),
		lookup: shell.NewQueryRunner(eventStore, opts...),
		policy: policy,
	}
}

// Handle executes the command with retries on concurrency conflicts.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	history, err := h.lookup.Load(eventstore.WithStrongConsistency(ctx), command.CommandType(), holdqueue.HoldFilter(command.HoldID.String()))
	if err != nil {
		return shell.HandlerResult{}, err
	}

	itemID, _ := holdqueue.ItemOfHold(history, command.HoldID.String())

	return h.runner.Run(ctx, command.CommandType(), BuildEventFilter(command, itemID), shell.Pure(func(history core.DomainEvents) core.DecisionResult {
		return Decide(history, command, h.policy)
	}))
}
