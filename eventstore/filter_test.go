package eventstore_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-circulation-engine/eventstore"
)

func Test_FilterBuilder_ValidCombinations(t *testing.T) {
	tests := []struct {
		name     string
		build    func() eventstore.Filter
		validate func(t *testing.T, filter eventstore.Filter)
	}{
		{
			name: "matching_any_event_creates_empty_filter",
			build: func() eventstore.Filter {
				return eventstore.BuildEventFilter().MatchingAnyEvent()
			},
			validate: func(t *testing.T, f eventstore.Filter) {
				assert.Empty(t, f.Items())
			},
		},
		{
			name: "event_types_are_sorted_and_deduplicated",
			build: func() eventstore.Filter {
				return eventstore.BuildEventFilter().
					Matching().
					AnyEventTypeOf("HoldPlaced", "", "CopyReturned", "HoldPlaced").
					Finalize()
			},
			validate: func(t *testing.T, f eventstore.Filter) {
				assert.Len(t, f.Items(), 1)
				assert.Equal(t, []string{"CopyReturned", "HoldPlaced"}, f.Items()[0].EventTypes())
				assert.Empty(t, f.Items()[0].Predicates())
			},
		},
		{
			name: "partial_predicates_are_removed",
			build: func() eventstore.Filter {
				return eventstore.BuildEventFilter().
					Matching().
					AnyEventTypeOf("HoldPlaced").
					AndAnyPredicateOf(
						eventstore.P("UserID", "u-1"),
						eventstore.P("ItemID", ""),
						eventstore.P("", "x"),
						eventstore.P("ItemID", "i-1"),
						eventstore.P("UserID", "u-1"),
					).
					Finalize()
			},
			validate: func(t *testing.T, f eventstore.Filter) {
				assert.Equal(
					t,
					[]eventstore.FilterPredicate{eventstore.P("ItemID", "i-1"), eventstore.P("UserID", "u-1")},
					f.Items()[0].Predicates(),
				)
				assert.False(t, f.Items()[0].AllPredicatesMustMatch())
			},
		},
		{
			name: "all_predicates_must_match",
			build: func() eventstore.Filter {
				return eventstore.BuildEventFilter().
					Matching().
					AllPredicatesOf(eventstore.P("UserID", "u-1"), eventstore.P("DedupKey", "k")).
					AndAnyEventTypeOf("NotificationEmitted").
					Finalize()
			},
			validate: func(t *testing.T, f eventstore.Filter) {
				assert.True(t, f.Items()[0].AllPredicatesMustMatch())
				assert.Len(t, f.Items()[0].Predicates(), 2)
			},
		},
		{
			name: "or_matching_creates_multiple_items",
			build: func() eventstore.Filter {
				return eventstore.BuildEventFilter().
					Matching().
					AnyEventTypeOf("RoomRegistered").
					OrMatching().
					AnyEventTypeOf("ReservationCreated").
					AndAnyPredicateOf(eventstore.P("RoomID", "r-1")).
					Finalize()
			},
			validate: func(t *testing.T, f eventstore.Filter) {
				assert.Len(t, f.Items(), 2)
				assert.Empty(t, f.Items()[0].Predicates())
				assert.Len(t, f.Items()[1].Predicates(), 1)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.validate(t, tt.build())
		})
	}
}

func Test_FilterBuilder_DoesNotShareStateBetweenBranches(t *testing.T) {
	base := eventstore.BuildEventFilter().Matching().AnyEventTypeOf("HoldPlaced")

	first := base.AndAnyPredicateOf(eventstore.P("ItemID", "i-1")).Finalize()
	second := base.AndAnyPredicateOf(eventstore.P("ItemID", "i-2")).Finalize()

	assert.Equal(t, "i-1", first.Items()[0].Predicates()[0].Val())
	assert.Equal(t, "i-2", second.Items()[0].Predicates()[0].Val())
}

func Test_Filter_Matches(t *testing.T) {
	anyOf := eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf("CopyCheckedOut", "CopyReturned").
		AndAnyPredicateOf(eventstore.P("ItemID", "i-1"), eventstore.P("UserID", "u-1")).
		Finalize()

	allOf := eventstore.BuildEventFilter().
		Matching().
		AnyEventTypeOf("NotificationEmitted").
		AndAllPredicatesOf(eventstore.P("UserID", "u-1"), eventstore.P("DedupKey", "k-1")).
		Finalize()

	testCases := []struct {
		name      string
		filter    eventstore.Filter
		eventType string
		payload   map[string]any
		expected  bool
	}{
		{"any_of_matches_first_predicate", anyOf, "CopyCheckedOut", map[string]any{"ItemID": "i-1", "UserID": "u-9"}, true},
		{"any_of_matches_second_predicate", anyOf, "CopyReturned", map[string]any{"ItemID": "i-9", "UserID": "u-1"}, true},
		{"any_of_wrong_type", anyOf, "HoldPlaced", map[string]any{"ItemID": "i-1"}, false},
		{"any_of_no_predicate_matches", anyOf, "CopyReturned", map[string]any{"ItemID": "i-9", "UserID": "u-9"}, false},
		{"non_string_values_never_match", anyOf, "CopyReturned", map[string]any{"ItemID": 1}, false},
		{"all_of_matches", allOf, "NotificationEmitted", map[string]any{"UserID": "u-1", "DedupKey": "k-1"}, true},
		{"all_of_partial", allOf, "NotificationEmitted", map[string]any{"UserID": "u-1", "DedupKey": "k-2"}, false},
		{"empty_filter_matches_everything", eventstore.BuildEventFilter().MatchingAnyEvent(), "Whatever", nil, true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.filter.Matches(tc.eventType, tc.payload))
		})
	}
}

func Test_Filter_Or(t *testing.T) {
	copies := eventstore.BuildEventFilter().Matching().AnyPredicateOf(eventstore.P("CopyID", "c-1")).Finalize()
	users := eventstore.BuildEventFilter().Matching().AnyPredicateOf(eventstore.P("UserID", "u-1")).Finalize()

	union := copies.Or(users)

	assert.Len(t, union.Items(), 2)
	assert.True(t, union.Matches("CopyCheckedOut", map[string]any{"CopyID": "c-1"}))
	assert.True(t, union.Matches("UserRegistered", map[string]any{"UserID": "u-1"}))
	assert.False(t, union.Matches("UserRegistered", map[string]any{"UserID": "u-2"}))
	assert.Len(t, copies.Items(), 1, "the operands stay unchanged")
	assert.Empty(t, copies.Or(eventstore.BuildEventFilter().MatchingAnyEvent()).Items())
}

func Test_FilterPredicate_ContainmentJSON_EscapesValues(t *testing.T) {
	js, err := eventstore.P("DedupKey", `hold:"x"`).ContainmentJSON()

	assert.NoError(t, err)
	assert.JSONEq(t, `{"DedupKey":"hold:\"x\""}`, js)
}

func Test_BuildStorableEvent_RejectsInvalidJSON(t *testing.T) {
	_, err := eventstore.BuildStorableEventWithEmptyMetadata("HoldPlaced", timeZero(), []byte("{nope"))
	assert.ErrorIs(t, err, eventstore.ErrInvalidPayloadJSON)

	_, err = eventstore.BuildStorableEvent("HoldPlaced", timeZero(), []byte("{}"), []byte("nope"))
	assert.ErrorIs(t, err, eventstore.ErrInvalidMetadataJSON)

	event, err := eventstore.BuildStorableEventWithEmptyMetadata("HoldPlaced", timeZero(), []byte(`{"HoldID":"h"}`))
	assert.NoError(t, err)
	assert.Equal(t, []byte("{}"), event.MetadataJSON)
}
