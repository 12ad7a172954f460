// Package notify fans emitted notifications out to external push channels.
//
// The event store stays the source of truth: a notification exists once NotificationEmitted is
// appended. Publishing happens afterwards and a failed publish never undoes or blocks the emit.
package notify

import (
	"context"
	"time"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
)

// Message is the payload published for one notification.
type Message struct {
	NotificationID string            `json:"notification_id"`
	UserID         string            `json:"user_id"`
	Type           string            `json:"type"`
	DedupKey       string            `json:"dedup_key"`
	Metadata       map[string]string `json:"metadata,omitempty"`
	OccurredAt     time.Time         `json:"occurred_at"`
}

// MessageFrom converts the emitted event into a Message.
func MessageFrom(e core.NotificationEmitted) Message {
	return Message{
		NotificationID: e.NotificationID,
		UserID:         e.UserID,
		Type:           e.Type,
		DedupKey:       e.DedupKey,
		Metadata:       e.Metadata,
		OccurredAt:     e.OccurredAt,
	}
}

// RoutingKey is the topic a notification type is published under.
func RoutingKey(notificationType string) string {
	return "notification." + notificationType
}

// Publisher delivers messages to subscribers.
type Publisher interface {
	Publish(ctx context.Context, message Message) error
}

// Discard is the Publisher used when no broker is configured.
type Discard struct{}

func (Discard) Publish(context.Context, Message) error { return nil }
