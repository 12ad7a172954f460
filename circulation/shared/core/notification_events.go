package core

import (
	"time"
)

const (
	NotificationEmittedEventType  = "NotificationEmitted"
	NotificationReadEventType     = "NotificationRead"
	NotificationResolvedEventType = "NotificationResolved"
)

// Notification types.
const (
	NotificationHoldReady         = "hold_ready"
	NotificationHoldExpired       = "hold_expired"
	NotificationDueSoon           = "due_soon"
	NotificationOverdue           = "overdue"
	NotificationLostWarning       = "lost_warning"
	NotificationLostMarked        = "lost_marked"
	NotificationSuspended         = "suspended"
	NotificationAccountReinstated = "account_reinstated"
	NotificationRoomExpiring      = "room_expiring"
)

// NotificationEmitted creates an unread notification.
type NotificationEmitted struct {
	NotificationID NotificationIDString
	UserID         UserIDString
	Type           string
	DedupKey       string
	Metadata       map[string]string
	OccurredAt     time.Time
}

func BuildNotificationEmitted(notificationID, userID, notificationType, dedupKey string, metadata map[string]string, occurredAt time.Time) DomainEvent {
	return NotificationEmitted{
		NotificationID: notificationID,
		UserID:         userID,
		Type:           notificationType,
		DedupKey:       dedupKey,
		Metadata:       metadata,
		OccurredAt:     ToOccurredAt(occurredAt),
	}
}

func (e NotificationEmitted) IsEventType() string      { return NotificationEmittedEventType }
func (e NotificationEmitted) HasOccurredAt() time.Time { return e.OccurredAt }
func (e NotificationEmitted) IsErrorEvent() bool       { return false }

// NotificationRead marks a notification as read.
type NotificationRead struct {
	NotificationID NotificationIDString
	UserID         UserIDString
	Type           string
	DedupKey       string
	OccurredAt     time.Time
}

func BuildNotificationRead(notificationID, userID, notificationType, dedupKey string, occurredAt time.Time) DomainEvent {
	return NotificationRead{
		NotificationID: notificationID,
		UserID:         userID,
		Type:           notificationType,
		DedupKey:       dedupKey,
		OccurredAt:     ToOccurredAt(occurredAt),
	}
}

func (e NotificationRead) IsEventType() string      { return NotificationReadEventType }
func (e NotificationRead) HasOccurredAt() time.Time { return e.OccurredAt }
func (e NotificationRead) IsErrorEvent() bool       { return false }

// NotificationResolved dismisses a notification. Its dedup key becomes free again.
type NotificationResolved struct {
	NotificationID NotificationIDString
	UserID         UserIDString
	Type           string
	DedupKey       string
	OccurredAt     time.Time
}

func BuildNotificationResolved(notificationID, userID, notificationType, dedupKey string, occurredAt time.Time) DomainEvent {
	return NotificationResolved{
		NotificationID: notificationID,
		UserID:         userID,
		Type:           notificationType,
		DedupKey:       dedupKey,
		OccurredAt:     ToOccurredAt(occurredAt),
	}
}

func (e NotificationResolved) IsEventType() string      { return NotificationResolvedEventType }
func (e NotificationResolved) HasOccurredAt() time.Time { return e.OccurredAt }
func (e NotificationResolved) IsErrorEvent() bool       { return false }
