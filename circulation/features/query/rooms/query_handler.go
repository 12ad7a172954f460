package rooms

import (
	"context"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/shell"
)

// QueryHandler runs Query -> Project for Rooms.
type QueryHandler struct {
	runner shell.QueryRunner
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(eventStore shell.EventStore, opts ...shell.Option) QueryHandler {
	return QueryHandler{
		runner: shell.NewQueryRunner(eventStore, opts...),
	}
}

// Handle lists the rooms.
func (h QueryHandler) Handle(ctx context.Context, query Query) (Rooms, error) {
	history, err := h.runner.Load(ctx, query.QueryType(), BuildEventFilter())
	if err != nil {
		return Rooms{}, err
	}

	return ProjectRooms(history), nil
}
