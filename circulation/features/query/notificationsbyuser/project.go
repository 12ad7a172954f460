// Package notificationsbyuser implements the polling endpoint of the notification inbox.
package notificationsbyuser

import (
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/inbox"
	"github.com/AntonStoeckl/library-circulation-engine/eventstore"
)

// ProjectNotifications lists the user's notifications, newest first, optionally of one status.
func ProjectNotifications(history core.DomainEvents, query Query) Notifications {
	userID := query.UserID.String()
	state := inbox.Project(history)

	return Notifications{
		UserID:        userID,
		Notifications: state.List(userID, query.Status),
		Unread:        len(state.List(userID, inbox.StatusUnread)),
	}
}

// BuildEventFilter creates the filter for the user's notifications.
func BuildEventFilter(query Query) eventstore.Filter {
	return inbox.UserFilter(query.UserID.String())
}
