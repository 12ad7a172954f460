package shell

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-engine/eventstore"
)

// EventStore is the part of an event store engine the handlers depend on.
// postgresengine.EventStore and memengine.EventStore both satisfy it.
type EventStore interface {
	Query(ctx context.Context, filter eventstore.Filter) (eventstore.StorableEvents, eventstore.MaxSequenceNumberUint, error)
	Append(
		ctx context.Context,
		filter eventstore.Filter,
		expectedMaxSequenceNumber eventstore.MaxSequenceNumberUint,
		storableEvents ...eventstore.StorableEvent,
	) error
}

// DecideFunc turns the queried history into a decision.
// Business rule violations belong into the DecisionResult, the error return is for infrastructure failures.
// The function runs again after a concurrency conflict, so any external call it makes must be idempotent.
type DecideFunc func(ctx context.Context, history core.DomainEvents) (core.DecisionResult, error)

// CommandRunner executes the Query -> Decide -> conditional Append cycle of a command handler
// and retries it on concurrency conflicts.
type CommandRunner struct {
	eventStore EventStore
	opts       options
}

// NewCommandRunner creates a CommandRunner.
func NewCommandRunner(eventStore EventStore, opts ...Option) CommandRunner {
	return CommandRunner{
		eventStore: eventStore,
		opts:       applyOptions(opts),
	}
}

// Run executes the command. The returned error is the business error of the decision,
// or an infrastructure error if the cycle could not complete.
func (r CommandRunner) Run(
	ctx context.Context,
	commandType string,
	filter eventstore.Filter,
	decide DecideFunc,
) (HandlerResult, error) {

	start := time.Now()
	ctx, span := r.opts.observer.startSpan(ctx, SpanNameCommandHandle, LogAttrCommandType, commandType)

	causationID := uuid.NewString()
	correlationID := CorrelationIDFrom(ctx, causationID)

	var decision core.DecisionResult

	retryMetrics, err := RetryWithExponentialBackoff(
		ctx,
		func(ctx context.Context) error {
			var execErr error
			decision, execErr = r.execute(ctx, filter, decide, causationID, correlationID)

			return execErr
		},
		r.opts.retryOptions...,
	)

	duration := time.Since(start)

	if err != nil {
		result := newHandlerResult(core.DecisionResult{}, retryMetrics)
		r.opts.observer.finishSpan(span, StatusFailed, duration, err)
		r.opts.observer.logCommand(ctx, commandType, StatusFailed, result, duration, err)

		return result, err
	}

	result := newHandlerResult(decision, retryMetrics)
	status := ClassifyBusinessOutcome(decision)
	r.opts.observer.finishSpan(span, status, duration, decision.HasError())
	r.opts.observer.logCommand(ctx, commandType, status, result, duration, decision.HasError())

	return result, decision.HasError()
}

func (r CommandRunner) execute(
	ctx context.Context,
	filter eventstore.Filter,
	decide DecideFunc,
	causationID string,
	correlationID string,
) (core.DecisionResult, error) {

	ctx = eventstore.WithStrongConsistency(ctx)

	storableEvents, maxSequenceNumber, err := r.eventStore.Query(ctx, filter)
	if err != nil {
		return core.DecisionResult{}, err
	}

	history, err := DomainEventsFrom(storableEvents)
	if err != nil {
		return core.DecisionResult{}, err
	}

	decision, err := decide(ctx, history)
	if err != nil {
		return core.DecisionResult{}, err
	}

	if !decision.HasEventsToAppend() {
		return decision, nil
	}

	toAppend, err := StorableEventsFrom(decision.Events, causationID, correlationID)
	if err != nil {
		return core.DecisionResult{}, err
	}

	if err = r.eventStore.Append(ctx, filter, maxSequenceNumber, toAppend...); err != nil {
		return core.DecisionResult{}, err
	}

	return decision, nil
}

// Pure adapts a pure Decide function to a DecideFunc.
func Pure(decide func(history core.DomainEvents) core.DecisionResult) DecideFunc {
	return func(_ context.Context, history core.DomainEvents) (core.DecisionResult, error) {
		return decide(history), nil
	}
}
