package helper

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/shell"
	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/timewindow"
	"github.com/AntonStoeckl/library-circulation-engine/eventstore"
)

// GivenUniqueID returns a time-ordered UUID.
func GivenUniqueID(t testing.TB) uuid.UUID {
	id, err := uuid.NewV7()
	require.NoError(t, err, "error in arranging test data")

	return id
}

// GivenEvents appends domain events unconditionally, in the given order.
func GivenEvents(t testing.TB, es shell.EventStore, events ...core.DomainEvent) {
	t.Helper()

	ctx := context.Background()
	matchAll := eventstore.BuildEventFilter().MatchingAnyEvent()

	_, maxSequenceNumber, err := es.Query(ctx, matchAll)
	require.NoError(t, err, "error in arranging test data")

	storableEvents, err := shell.StorableEventsFrom(events, "arrange", "arrange")
	require.NoError(t, err, "error in arranging test data")

	require.NoError(t, es.Append(ctx, matchAll, maxSequenceNumber, storableEvents...), "error in arranging test data")
}

// AllEvents loads every stored event as domain events.
func AllEvents(t testing.TB, es shell.EventStore) core.DomainEvents {
	t.Helper()

	storableEvents, _, err := es.Query(context.Background(), eventstore.BuildEventFilter().MatchingAnyEvent())
	require.NoError(t, err)

	events, err := shell.DomainEventsFrom(storableEvents)
	require.NoError(t, err)

	return events
}

// EventsOfType filters events by type.
func EventsOfType(events core.DomainEvents, eventType string) core.DomainEvents {
	result := make(core.DomainEvents, 0)
	for _, event := range events {
		if event.IsEventType() == eventType {
			result = append(result, event)
		}
	}

	return result
}

// LibraryTime returns a wall-clock time in the library's location.
func LibraryTime(t testing.TB, year int, month time.Month, day, hour, minute int) time.Time {
	t.Helper()

	window, err := timewindow.Load(timewindow.DefaultLocation)
	require.NoError(t, err)

	return time.Date(year, month, day, hour, minute, 0, 0, window.Location())
}
