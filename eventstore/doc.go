// Package eventstore provides the core abstractions for event sourcing with dynamic event streams.
//
// There are no fixed aggregate streams. Instead, each decision queries exactly the events it needs
// with a Filter (event types AND JSON payload predicates) and appends new events conditionally:
// the append only succeeds if no event matching the same Filter was written after the query.
// This "dynamic consistency boundary" is what makes per-copy, per-item, per-room and per-fine
// decisions atomic without row locks.
//
// Key types:
//   - Filter: criteria for querying events and for guarding appends
//   - StorableEvent: the engine-agnostic DTO that is appended and queried back
//   - MaxSequenceNumberUint: the highest sequence number of a queried "dynamic event stream"
//
// Common usage pattern:
//
//	filter := eventstore.BuildEventFilter().
//		Matching().
//		AnyEventTypeOf(
//			core.CopyCheckedOutEventType,
//			core.CopyReturnedEventType).
//		AndAnyPredicateOf(eventstore.P("ItemID", itemID.String())).
//		Finalize()
//
//	events, maxSeq, err := store.Query(ctx, filter)
//	if err != nil {
//		// handle error
//	}
//
//	// decide ...
//
//	err = store.Append(ctx, filter, maxSeq, newEvent)
//	if errors.Is(err, eventstore.ErrConcurrencyConflict) {
//		// somebody else wrote into this boundary: query again and re-decide
//	}
//
// Engines live in subpackages: postgresengine for PostgreSQL and memengine for tests
// and local development.
package eventstore
