package loansbyuser

import (
	"context"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/finepolicy"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/shell"
)

// QueryHandler runs Query -> Project for LoansByUser.
type QueryHandler struct {
	runner     shell.QueryRunner
	calculator finepolicy.Calculator
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(eventStore shell.EventStore, calculator finepolicy.Calculator, opts ...shell.Option) QueryHandler {
	return QueryHandler{
		runner:     shell.NewQueryRunner(eventStore, opts...),
		calculator: calculator,
	}
}

// Handle loads the user's loans and projects them.
func (h QueryHandler) Handle(ctx context.Context, query Query) (LoansOfUser, error) {
	history, err := h.runner.Load(ctx, query.QueryType(), BuildEventFilter(query))
	if err != nil {
		return LoansOfUser{}, err
	}

	return ProjectLoansOfUser(history, query, h.calculator), nil
}
