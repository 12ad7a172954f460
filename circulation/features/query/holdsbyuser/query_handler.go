package holdsbyuser

import (
	"context"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/holdqueue"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/shell"
)

// QueryHandler runs Query -> Query -> Project for HoldsByUser: first the holds the user placed,
// then the full queues of those items, since positions depend on everybody's holds.
type QueryHandler struct {
	runner shell.QueryRunner
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(eventStore shell.EventStore, opts ...shell.Option) QueryHandler {
	return QueryHandler{
		runner: shell.NewQueryRunner(eventStore, opts...),
	}
}

// Handle loads and projects the user's holds.
func (h QueryHandler) Handle(ctx context.Context, query Query) (HoldsOfUser, error) {
	placed, err := h.runner.Load(ctx, query.QueryType(), holdqueue.PlacedByFilter(query.UserID.String()))
	if err != nil {
		return HoldsOfUser{}, err
	}

	itemIDs := ItemsOf(placed)
	if len(itemIDs) == 0 {
		return HoldsOfUser{UserID: query.UserID.String(), Holds: []HoldInfo{}}, nil
	}

	history, err := h.runner.Load(ctx, query.QueryType(), BuildEventFilter(itemIDs))
	if err != nil {
		return HoldsOfUser{}, err
	}

	return ProjectHoldsOfUser(history, itemIDs, query), nil
}
