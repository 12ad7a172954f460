package notificationsbyuser

import (
	"context"
	"errors"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/inbox"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/shell"
)

// QueryHandler runs Query -> Project for NotificationsByUser.
type QueryHandler struct {
	runner shell.QueryRunner
}

// NewQueryHandler creates a new QueryHandler.
func NewQueryHandler(eventStore shell.EventStore, opts ...shell.Option) QueryHandler {
	return QueryHandler{
		runner: shell.NewQueryRunner(eventStore, opts...),
	}
}

// Handle returns the notifications. Store failures are reported as core.ErrNotificationsQueryFailed
// joined with the cause.
func (h QueryHandler) Handle(ctx context.Context, query Query) (Notifications, error) {
	switch query.Status {
	case "", inbox.StatusUnread, inbox.StatusRead, inbox.StatusResolved:
	default:
		return Notifications{}, core.ErrInvalidPayload
	}

	history, err := h.runner.Load(ctx, query.QueryType(), BuildEventFilter(query))
	if err != nil {
		return Notifications{}, errors.Join(core.ErrNotificationsQueryFailed, err)
	}

	return ProjectNotifications(history, query), nil
}
