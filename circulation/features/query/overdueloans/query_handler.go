package overdueloans

import (
	"context"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/finepolicy"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/shell"
)

// QueryHandler runs Query -> Project for OverdueLoans.
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

// Handle lists the open loans.
func (h QueryHandler) Handle(ctx context.Context, query Query) (OpenLoans, error) {
	history, err := h.runner.Load(ctx, query.QueryType(), BuildEventFilter())
	if err != nil {
		return OpenLoans{}, err
	}

	return ProjectOpenLoans(history, query, h.calculator), nil
}
