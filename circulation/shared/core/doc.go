// Package core contains the domain events of the circulation engine and the pure building blocks
// used by the Decide functions of the feature slices: DecisionResult, error codes and the
// circulation Policy.
//
// This package is part of the functional core. It has no knowledge of the event store,
// serialization or transport.
package core
