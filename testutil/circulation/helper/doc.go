// Package helper provides arrange helpers for tests that run command and query handlers
// against an event store engine.
package helper
