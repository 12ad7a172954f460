// Package oteladapters provides OpenTelemetry implementations of the dependency-free observability
// interfaces of the eventstore package, plus the tracer provider setup used by the circulation service.
package oteladapters
