// Package memengine provides an in-memory implementation of the event store.
//
// It offers the same contract as postgresengine: Query returns the matching events in sequence order
// together with the highest matching sequence number, and Append only succeeds when no event matching
// the given filter has been appended after that sequence number. Appends are serialized by a mutex,
// which makes every conditional append atomic.
//
// It is meant for tests and local development; all data is lost when the process exits.
package memengine
