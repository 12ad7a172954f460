package postgresengine

import (
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation-engine/eventstore"
)

func Test_BuildSelectQuery_WithEventTypesAndPredicates(t *testing.T) {
	es := EventStore{eventTableName: defaultEventTableName}

	filter := eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf("CopyCheckedOut", "CopyReturned").
		AndAnyPredicateOf(eventstore.P("ItemID", "i-1"), eventstore.P("UserID", "u-1")).
		Finalize()

	sqlQuery, err := es.buildSelectQuery(filter)

	require.NoError(t, err)
	assert.Contains(t, sqlQuery, `SELECT "event_type", "occurred_at", "payload", "metadata", "sequence_number" FROM "events"`)
	assert.Contains(t, sqlQuery, `("event_type" = 'CopyCheckedOut')`)
	assert.Contains(t, sqlQuery, `payload @> '{"ItemID":"i-1"}'::jsonb`)
	assert.Contains(t, sqlQuery, ` OR `)
	assert.Contains(t, sqlQuery, `ORDER BY "sequence_number" ASC`)
}

func Test_BuildSelectQuery_EscapesPredicateValues(t *testing.T) {
	es := EventStore{eventTableName: defaultEventTableName}

	filter := eventstore.BuildEventFilter().
		Matching().
		AnyPredicateOf(eventstore.P("DedupKey", `x'; DROP TABLE events; --`)).
		Finalize()

	sqlQuery, err := es.buildSelectQuery(filter)

	require.NoError(t, err)
	assert.Contains(t, sqlQuery, `x''; DROP TABLE events; --`)
}

func Test_BuildSelectQuery_EmptyFilterHasNoWhereClause(t *testing.T) {
	es := EventStore{eventTableName: defaultEventTableName}

	sqlQuery, err := es.buildSelectQuery(eventstore.BuildEventFilter().MatchingAnyEvent())

	require.NoError(t, err)
	assert.NotContains(t, sqlQuery, "WHERE")
}

func Test_BuildInsertQuery_GuardsOnExpectedMaxSequence(t *testing.T) {
	es := EventStore{eventTableName: defaultEventTableName}
	filter := eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf("ReservationCreated").
		AndAnyPredicateOf(eventstore.P("RoomID", "r-1")).
		Finalize()

	event, err := eventstore.BuildStorableEventWithEmptyMetadata("ReservationCreated", time.Unix(0, 0).UTC(), []byte(`{"RoomID":"r-1"}`))
	require.NoError(t, err)

	single, err := es.buildInsertQueryForSingleEvent(event, filter, 42)
	require.NoError(t, err)
	assert.Contains(t, single, `WITH context AS (SELECT MAX("sequence_number") AS "max_seq" FROM "events"`)
	assert.Contains(t, single, `(COALESCE("max_seq", 0) = 42)`)

	multiple, err := es.buildInsertQueryForMultipleEvents([]eventstore.StorableEvent{event, event}, filter, 7)
	require.NoError(t, err)
	assert.Contains(t, multiple, "UNION ALL")
	assert.Contains(t, multiple, `(COALESCE("max_seq", 0) = 7)`)
}

func Test_SerializationConflict_DetectsBothDrivers(t *testing.T) {
	state, ok := serializationConflict(&pgconn.PgError{Code: "40001"})
	assert.True(t, ok)
	assert.Equal(t, "40001", state)

	_, ok = serializationConflict(&pq.Error{Code: "40P01"})
	assert.True(t, ok)

	_, ok = serializationConflict(&pgconn.PgError{Code: "23505"})
	assert.False(t, ok)

	_, ok = serializationConflict(errors.New("boom"))
	assert.False(t, ok)
}

func Test_WithTableName_Validates(t *testing.T) {
	es := EventStore{}

	assert.ErrorIs(t, WithTableName("")(&es), eventstore.ErrEmptyEventsTableName)
	assert.ErrorIs(t, WithTableName("events; drop")(&es), ErrInvalidEventsTableName)
	assert.NoError(t, WithTableName("circulation_events")(&es))
	assert.Equal(t, "circulation_events", es.eventTableName)
	assert.Contains(t, es.SchemaSQL(), "CREATE TABLE IF NOT EXISTS circulation_events")
}
