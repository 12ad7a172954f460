package shell

import (
	"context"
	"errors"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/library-circulation-engine/eventstore"
)

// ErrMappingToEventMetadataFailed is returned when metadata conversion fails.
var ErrMappingToEventMetadataFailed = errors.New("mapping to event metadata failed")

// MessageID represents a unique message identifier.
type MessageID = string

// CausationID represents the ID of the command that caused this event.
type CausationID = string

// CorrelationID represents the ID correlating related events, e.g. everything one HTTP request caused.
type CorrelationID = string

// EventMetadata contains event tracking information.
type EventMetadata struct {
	MessageID     MessageID
	CausationID   CausationID
	CorrelationID CorrelationID
}

// NewEventMetadata creates EventMetadata with a fresh MessageID.
func NewEventMetadata(causationID CausationID, correlationID CorrelationID) EventMetadata {
	return EventMetadata{
		MessageID:     uuid.NewString(),
		CausationID:   causationID,
		CorrelationID: correlationID,
	}
}

// EventMetadataFrom extracts EventMetadata from a StorableEvent.
func EventMetadataFrom(storableEvent eventstore.StorableEvent) (EventMetadata, error) {
	metadata := new(EventMetadata)
	err := jsoniter.ConfigFastest.Unmarshal(storableEvent.MetadataJSON, metadata)
	if err != nil {
		return EventMetadata{}, errors.Join(ErrMappingToEventMetadataFailed, err)
	}

	return *metadata, nil
}

type correlationKey struct{}

// WithCorrelationID stores a correlation id in ctx. Events appended while handling ctx carry it.
func WithCorrelationID(ctx context.Context, correlationID CorrelationID) context.Context {
	return context.WithValue(ctx, correlationKey{}, correlationID)
}

// CorrelationIDFrom returns the correlation id stored in ctx, or fallback.
func CorrelationIDFrom(ctx context.Context, fallback CorrelationID) CorrelationID {
	if id, ok := ctx.Value(correlationKey{}).(CorrelationID); ok && id != "" {
		return id
	}

	return fallback
}
