// Package marknotificationread implements the unread -> read transition of a notification.
package marknotificationread

import (
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/inbox"
	"github.com/AntonStoeckl/library-circulation-engine/eventstore"
)

// Decide marks the notification read.
//
//	THEN: NotificationRead is generated
//	IDEMPOTENCY: the notification is already read or resolved
//	ERROR: notification_not_found, also for notifications of other users
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	n, ok := inbox.Project(history).Notification(command.NotificationID.String())
	if !ok || n.UserID != command.UserID.String() {
		return core.RejectedDecision(core.ErrNotificationNotFound)
	}

	if n.Status != inbox.StatusUnread {
		return core.IdempotentDecision()
	}

	return core.SuccessDecision(
		core.BuildNotificationRead(n.NotificationID, n.UserID, n.Type, n.DedupKey, command.OccurredAt),
	)
}

// BuildEventFilter creates the filter for the notification.
func BuildEventFilter(command Command) eventstore.Filter {
	return inbox.NotificationFilter(command.NotificationID.String())
}
