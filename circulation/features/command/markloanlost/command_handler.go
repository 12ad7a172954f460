package markloanlost

import (
	"context"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/finepolicy"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/ledger"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/shell"
	"github.com/AntonStoeckl/library-circulation-engine/eventstore"
)

// CommandHandler runs Query -> Decide -> Append for MarkLoanLost.
type CommandHandler struct {
	runner     shell.CommandRunner
	lookup     shell.QueryRunner
	calculator finepolicy.Calculator
}

// NewCommandHandler creates a new CommandHandler.
func NewCommandHandler(eventStore shell.EventStore, calculator finepolicy.Calculator, opts ...shell.Option) CommandHandler {
	return CommandHandler{
		runner:     shell.NewCommandRunner(eventStore, opts...),
		lookup:     shell.NewQueryRunner(eventStore, opts...),
		calculator: calculator,
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

	userID := ""
	if loan, ok := ledger.ProjectLoans(history).Loan(command.LoanID.String()); ok {
		userID = loan.UserID
	}

	return h.runner.Run(ctx, command.CommandType(), BuildEventFilter(command, userID), shell.Pure(func(history core.DomainEvents) core.DecisionResult {
		return Decide(history, command, h.calculator)
	}))
}
