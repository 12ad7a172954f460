package memengine

import (
	"context"
	"errors"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/library-circulation-engine/eventstore"
)

const (
	logMsgQueryCompleted      = "eventstore operation: query completed"
	logMsgEventsAppended      = "eventstore operation: events appended"
	logMsgConcurrencyConflict = "eventstore operation: concurrency conflict detected"
	logAttrEventCount         = "event_count"
	logAttrExpectedSequence   = "expected_sequence"
	logAttrActualSequence     = "actual_sequence"
)

type storedEvent struct {
	event   eventstore.StorableEvent
	payload map[string]any
}

// EventStore is an in-memory event store. The zero value is not usable, use NewEventStore.
type EventStore struct {
	mu     *sync.RWMutex
	events *[]storedEvent
	logger eventstore.Logger
}

// Option defines a functional option for configuring EventStore.
type Option func(*EventStore)

// WithLogger sets a logger receiving query and append information at debug level
// and concurrency conflicts at info level.
func WithLogger(logger eventstore.Logger) Option {
	return func(es *EventStore) {
		es.logger = logger
	}
}

// NewEventStore creates an empty in-memory EventStore.
func NewEventStore(options ...Option) EventStore {
	events := make([]storedEvent, 0)

	es := EventStore{
		mu:     &sync.RWMutex{},
		events: &events,
	}

	for _, option := range options {
		option(&es)
	}

	return es
}

// Query returns all events matching the filter in sequence order,
// plus the max sequence number of the matching events (0 if none match).
func (es EventStore) Query(ctx context.Context, filter eventstore.Filter) (
	eventstore.StorableEvents,
	eventstore.MaxSequenceNumberUint,
	error,
) {

	if err := ctx.Err(); err != nil {
		return nil, 0, errors.Join(eventstore.ErrQueryingEventsFailed, err)
	}

	es.mu.RLock()
	defer es.mu.RUnlock()

	result := make(eventstore.StorableEvents, 0)
	maxSequenceNumber := eventstore.MaxSequenceNumberUint(0)

	for _, stored := range *es.events {
		if filter.Matches(stored.event.EventType, stored.payload) {
			result = append(result, stored.event)
			maxSequenceNumber = stored.event.SequenceNumber
		}
	}

	if es.logger != nil {
		es.logger.Debug(logMsgQueryCompleted, logAttrEventCount, len(result))
	}

	return result, maxSequenceNumber, nil
}

// Append appends the events atomically if the max sequence number of the events matching the filter
// still equals expectedMaxSequenceNumber, otherwise it returns eventstore.ErrConcurrencyConflict.
func (es EventStore) Append(
	ctx context.Context,
	filter eventstore.Filter,
	expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
	storableEvents ...eventstore.StorableEvent,
) error {

	if len(storableEvents) == 0 {
		return eventstore.ErrNoEventsToAppend
	}

	if err := ctx.Err(); err != nil {
		return errors.Join(eventstore.ErrAppendingEventFailed, err)
	}

	decoded := make([]map[string]any, len(storableEvents))
	for i, event := range storableEvents {
		payload := make(map[string]any)
		if err := jsoniter.ConfigFastest.Unmarshal(event.PayloadJSON, &payload); err != nil {
			return errors.Join(eventstore.ErrAppendingEventFailed, eventstore.ErrInvalidPayloadJSON, err)
		}

		decoded[i] = payload
	}

	es.mu.Lock()
	defer es.mu.Unlock()

	actualMaxSequenceNumber := eventstore.MaxSequenceNumberUint(0)
	for _, stored := range *es.events {
		if filter.Matches(stored.event.EventType, stored.payload) {
			actualMaxSequenceNumber = stored.event.SequenceNumber
		}
	}

	if actualMaxSequenceNumber != expectedMaxSequenceNumber {
		if es.logger != nil {
			es.logger.Info(
				logMsgConcurrencyConflict,
				logAttrExpectedSequence, expectedMaxSequenceNumber,
				logAttrActualSequence, actualMaxSequenceNumber,
			)
		}

		return eventstore.ErrConcurrencyConflict
	}

	next := eventstore.MaxSequenceNumberUint(len(*es.events))
	for i, event := range storableEvents {
		next++
		event.OccurredAt = event.OccurredAt.UTC().Truncate(time.Microsecond)
		*es.events = append(*es.events, storedEvent{event: event.WithSequenceNumber(next), payload: decoded[i]})
	}

	if es.logger != nil {
		es.logger.Debug(logMsgEventsAppended, logAttrEventCount, len(storableEvents))
	}

	return nil
}

// Len returns the total number of stored events.
func (es EventStore) Len() int {
	es.mu.RLock()
	defer es.mu.RUnlock()

	return len(*es.events)
}
