package finesbyuser

import (
	"context"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/shell"
)

// QueryHandler runs Query -> Project for FinesByUser.
type QueryHandler struct {
	runner shell.QueryRunner
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(eventStore shell.EventStore, opts ...shell.Option) QueryHandler {
	return QueryHandler{
		runner: shell.NewQueryRunner(eventStore, opts...),
	}
}

// Handle returns the fine account.
func (h QueryHandler) Handle(ctx context.Context, query Query) (FineAccount, error) {
	history, err := h.runner.Load(ctx, query.QueryType(), BuildEventFilter(query))
	if err != nil {
		return FineAccount{}, err
	}

	return ProjectFineAccount(history, query), nil
}
