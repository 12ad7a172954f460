package returncopy

import (
	"context"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/finepolicy"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/ledger"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/shell"
	"github.com/AntonStoeckl/library-circulation-engine/eventstore"
)

// CommandHandler runs Query -> Decide -> Append for ReturnCopy.
// It first reads the loan to find the item whose queue the return affects.
type CommandHandler struct {
	runner     shell.CommandRunner
	lookup     shell.QueryRunner
	calculator finepolicy.Calculator
	policy     core.Policy
}

// NewCommandHandler creates a new CommandHandler.
func NewCommandHandler(
	eventStore shell.EventStore,
	calculator finepolicy.Calculator,
	policy core.Policy,
	opts ...shell.Option,
) CommandHandler {

	return CommandHandler{
		runner:     shell.NewCommandRunner(eventStore, opts...),
		lookup:     shell.NewQueryRunner(eventStore, opts...),
		calculator: calculator,
		policy:     policy,
	}
}

// Handle executes the command with retries on concurrency conflicts.
func (h CommandHandler) Handle(ctx context.Context, command Command) (shell.HandlerResult, error) {
	history, err := h.lookup.Load(
		eventstore.WithStrongConsistency(ctx),
		command.CommandType(),
		ledger.LoanFilter(command.LoanID.String()),
	)
	if err != nil {
		return shell.HandlerResult{}, err
	}

	itemID := ""
	if loan, ok := ledger.ProjectLoans(history).Loan(command.LoanID.String()); ok {
		itemID = loan.ItemID
	}

	return h.runner.Run(ctx, command.CommandType(), BuildEventFilter(command, itemID), shell.Pure(func(history core.DomainEvents) core.DecisionResult {
		return Decide(history, command, h.calculator, h.policy)
	}))
}
