// Package shell contains the imperative shell around the pure Decide functions:
// mapping between domain events and storable events, event metadata, the retry loop,
// the command runner used by every command handler, and logging/tracing helpers.
package shell
