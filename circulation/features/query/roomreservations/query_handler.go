package roomreservations

import (
	"context"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/shell"
)

// QueryHandler runs Query -> Project for RoomReservations.
type QueryHandler struct {
	runner shell.QueryRunner
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(eventStore shell.EventStore, opts ...shell.Option) QueryHandler {
	return QueryHandler{
		runner: shell.NewQueryRunner(eventStore, opts...),
	}
}

// Handle returns the reservations of the room, or core.ErrRoomNotFound.
func (h QueryHandler) Handle(ctx context.Context, query Query) (RoomReservations, error) {
	history, err := h.runner.Load(ctx, query.QueryType(), BuildEventFilter(query))
	if err != nil {
		return RoomReservations{}, err
	}

	result, ok := ProjectRoomReservations(history, query)
	if !ok {
		return RoomReservations{}, core.ErrRoomNotFound
	}

	return result, nil
}
