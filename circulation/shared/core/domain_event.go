package core

import (
	"time"
)

// DomainEvent is a fact recorded by the circulation domain: a loan, hold, fine,
// reservation, or notification changing state.
type DomainEvent interface {
	IsEventType() string
	HasOccurredAt() time.Time

	// IsErrorEvent reports whether the event records a rejected request rather than a state change.
	IsErrorEvent() bool
}

// DomainEvents is an ordered batch of events, in append order.
type DomainEvents = []DomainEvent

// EventsOfType filters events down to those of type T, keeping their order.
func EventsOfType[T DomainEvent](events DomainEvents) []T {
	matched := make([]T, 0, len(events))
	for _, event := range events {
		if typed, ok := event.(T); ok {
			matched = append(matched, typed)
		}
	}

	return matched
}

// FirstOfType returns the first event of type T, or the zero value if there is none.
func FirstOfType[T DomainEvent](events DomainEvents) T {
	for _, event := range events {
		if typed, ok := event.(T); ok {
			return typed
		}
	}

	var zero T

	return zero
}
