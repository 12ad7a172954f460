package shell

import (
	"time"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
)

// HandlerResult represents the outcome of a command handler execution.
type HandlerResult struct {
	// Idempotent indicates that no state change was needed. It is a business outcome, not an error.
	Idempotent bool

	// AppendedEvents are the events the decision appended, failure events included.
	// The engine derives follow-up calls (notifications, promotions) from them.
	AppendedEvents core.DomainEvents

	// RetryAttempts is the total number of attempts made (1 for no retries).
	RetryAttempts int

	// TotalRetryDelay is the time spent in backoff delays.
	TotalRetryDelay time.Duration

	// LastErrorType is one of "none", "concurrency_conflict", "business", "context_canceled",
	// "context_deadline_exceeded" or "other".
	LastErrorType string

	// RetriesExhausted is true if every attempt ended in a concurrency conflict.
	RetriesExhausted bool
}

func newHandlerResult(decision core.DecisionResult, retryMetrics RetryMetrics) HandlerResult {
	return HandlerResult{
		Idempotent:       decision.IsIdempotent(),
		AppendedEvents:   decision.Events,
		RetryAttempts:    retryMetrics.Attempts,
		TotalRetryDelay:  retryMetrics.TotalDelay,
		LastErrorType:    retryMetrics.LastErrorType,
		RetriesExhausted: retryMetrics.RetriesExhausted,
	}
}

// SuccessfulEvents returns the appended events that are not failure events.
func (r HandlerResult) SuccessfulEvents() core.DomainEvents {
	events := make(core.DomainEvents, 0, len(r.AppendedEvents))
	for _, event := range r.AppendedEvents {
		if !event.IsErrorEvent() {
			events = append(events, event)
		}
	}

	return events
}
