// Package emitnotification implements the deduplicating creation of notifications.
package emitnotification

import (
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/inbox"
	"github.com/AntonStoeckl/library-circulation-engine/eventstore"
)

// Decide emits the notification unless one for (UserID, Type, DedupKey) suppresses it.
//
//	THEN: NotificationEmitted is generated
//	IDEMPOTENCY: Standard mode and an unread or read notification exists for the key
//	IDEMPOTENCY: OncePerKey mode and any notification exists for the key
//	ERROR: invalid_payload if Type or DedupKey is empty
func Decide(history core.DomainEvents, command Command) core.DecisionResult {
	if command.Type == "" || command.DedupKey == "" {
		return core.RejectedDecision(core.ErrInvalidPayload)
	}

	state := inbox.Project(history)
	userID := command.UserID.String()

	switch command.Mode {
	case OncePerKey:
		if state.HasAny(userID, command.Type, command.DedupKey) {
			return core.IdempotentDecision()
		}
	default:
		if state.HasOpen(userID, command.Type, command.DedupKey) {
			return core.IdempotentDecision()
		}
	}

	return core.SuccessDecision(
		core.BuildNotificationEmitted(
			command.NotificationID.String(),
			userID,
			command.Type,
			command.DedupKey,
			command.Metadata,
			command.OccurredAt,
		),
	)
}

// BuildEventFilter creates the filter for all notifications of the dedup key.
func BuildEventFilter(command Command) eventstore.Filter {
	return inbox.KeyFilter(command.UserID.String(), command.Type, command.DedupKey)
}
