package itemqueue

import (
	"context"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/shell"
)

// QueryHandler runs Query -> Project for ItemQueue.
type QueryHandler struct {
	runner shell.QueryRunner
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(eventStore shell.EventStore, opts ...shell.Option) QueryHandler {
	return QueryHandler{
		runner: shell.NewQueryRunner(eventStore, opts...),
	}
}

// Handle returns the queue, or core.ErrItemNotFound.
func (h QueryHandler) Handle(ctx context.Context, query Query) (ItemQueue, error) {
	history, err := h.runner.Load(ctx, query.QueryType(), BuildEventFilter(query))
	if err != nil {
		return ItemQueue{}, err
	}

	result, ok := ProjectItemQueue(history, query)
	if !ok {
		return ItemQueue{}, core.ErrItemNotFound
	}

	return result, nil
}
