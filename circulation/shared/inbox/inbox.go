// Package inbox projects a user's notifications and holds the dedup rules of the dispatcher.
package inbox

import (
	"slices"
	"time"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-engine/eventstore"
)

type Status = string

const (
	StatusUnread   Status = "unread"
	StatusRead     Status = "read"
	StatusResolved Status = "resolved"
)

// Notification is the projected state of one notification.
type Notification struct {
	NotificationID string
	UserID         string
	Type           string
	DedupKey       string
	Metadata       map[string]string
	Status         Status
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Inbox is a projection of notifications in creation order.
type Inbox struct {
	order []*Notification
	index map[string]*Notification
}

// Project folds notification events into an Inbox.
func Project(history core.DomainEvents) *Inbox {
	inbox := &Inbox{index: make(map[string]*Notification)}
	for _, event := range history {
		inbox.Apply(event)
	}

	return inbox
}

// Apply folds one event into the inbox.
func (i *Inbox) Apply(event core.DomainEvent) {
	switch e := event.(type) {
	case core.NotificationEmitted:
		n := &Notification{
			NotificationID: e.NotificationID,
			UserID:         e.UserID,
			Type:           e.Type,
			DedupKey:       e.DedupKey,
			Metadata:       e.Metadata,
			Status:         StatusUnread,
			CreatedAt:      e.OccurredAt,
			UpdatedAt:      e.OccurredAt,
		}
		i.order = append(i.order, n)
		i.index[e.NotificationID] = n

	case core.NotificationRead:
		if n, ok := i.index[e.NotificationID]; ok && n.Status == StatusUnread {
			n.Status = StatusRead
			n.UpdatedAt = e.OccurredAt
		}

	case core.NotificationResolved:
		if n, ok := i.index[e.NotificationID]; ok {
			n.Status = StatusResolved
			n.UpdatedAt = e.OccurredAt
		}
	}
}

// Notification returns one notification.
func (i *Inbox) Notification(notificationID string) (Notification, bool) {
	n, ok := i.index[notificationID]
	if !ok {
		return Notification{}, false
	}

	return *n, true
}

// List returns the notifications of userID, newest first, optionally restricted to one status.
func (i *Inbox) List(userID string, status Status) []Notification {
	result := make([]Notification, 0)
	for _, n := range i.order {
		if n.UserID == userID && (status == "" || n.Status == status) {
			result = append(result, *n)
		}
	}

	slices.Reverse(result)

	return result
}

// HasOpen reports whether an unread or read notification exists for the key.
func (i *Inbox) HasOpen(userID, notificationType, dedupKey string) bool {
	for _, n := range i.order {
		if n.UserID == userID && n.Type == notificationType && n.DedupKey == dedupKey && n.Status != StatusResolved {
			return true
		}
	}

	return false
}

// HasAny reports whether any notification, resolved ones included, exists for the key.
func (i *Inbox) HasAny(userID, notificationType, dedupKey string) bool {
	for _, n := range i.order {
		if n.UserID == userID && n.Type == notificationType && n.DedupKey == dedupKey {
			return true
		}
	}

	return false
}

var eventTypes = []string{
	core.NotificationEmittedEventType,
	core.NotificationReadEventType,
	core.NotificationResolvedEventType,
}

// KeyFilter selects the notifications of one dedup key. Emitting with it serializes duplicates.
func KeyFilter(userID, notificationType, dedupKey string) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(eventTypes[0], eventTypes[1:]...).
		AndAllPredicatesOf(
			eventstore.P("UserID", userID),
			eventstore.P("Type", notificationType),
			eventstore.P("DedupKey", dedupKey),
		).
		Finalize()
}

// NotificationFilter selects the events of one notification.
func NotificationFilter(notificationID string) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(eventTypes[0], eventTypes[1:]...).
		AndAnyPredicateOf(eventstore.P("NotificationID", notificationID)).
		Finalize()
}

// UserFilter selects all notifications of one user.
func UserFilter(userID string) eventstore.Filter {
	return eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf(eventTypes[0], eventTypes[1:]...).
		AndAnyPredicateOf(eventstore.P("UserID", userID)).
		Finalize()
}
