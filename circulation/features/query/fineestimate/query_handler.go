package fineestimate

import (
	"context"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/finepolicy"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/shell"
)

// QueryHandler runs Query -> Project for FineEstimate.
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

// Handle returns the estimate, or core.ErrLoanNotFound.
func (h QueryHandler) Handle(ctx context.Context, query Query) (Estimate, error) {
	history, err := h.runner.Load(ctx, query.QueryType(), BuildEventFilter(query))
	if err != nil {
		return Estimate{}, err
	}

	estimate, ok := ProjectEstimate(history, query, h.calculator)
	if !ok {
		return Estimate{}, core.ErrLoanNotFound
	}

	return estimate, nil
}
