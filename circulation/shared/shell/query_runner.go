package shell

import (
	"context"
	"time"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-engine/eventstore"
)

// QueryRunner loads and unmarshals the events a read model projects.
type QueryRunner struct {
	eventStore EventStore
	opts       options
}

// NewQueryRunner creates a QueryRunner.
func NewQueryRunner(eventStore EventStore, opts ...Option) QueryRunner {
	return QueryRunner{
		eventStore: eventStore,
		opts:       applyOptions(opts),
	}
}

// Load queries the events matching filter. Reads use eventual consistency unless ctx requests otherwise,
// so the PostgreSQL engine may serve them from a replica.
func (r QueryRunner) Load(ctx context.Context, queryType string, filter eventstore.Filter) (core.DomainEvents, error) {
	start := time.Now()
	ctx, span := r.opts.observer.startSpan(ctx, SpanNameQueryHandle, LogAttrQueryType, queryType)

	if _, explicit := ctx.Value(eventstore.ConsistencyLevelKey).(eventstore.ConsistencyLevel); !explicit {
		ctx = eventstore.WithEventualConsistency(ctx)
	}

	history, err := r.load(ctx, filter)

	duration := time.Since(start)
	status := StatusSuccess
	if err != nil {
		status = StatusFailed
	}

	r.opts.observer.finishSpan(span, status, duration, err)
	r.opts.observer.logQuery(ctx, queryType, len(history), duration, err)

	return history, err
}

func (r QueryRunner) load(ctx context.Context, filter eventstore.Filter) (core.DomainEvents, error) {
	storableEvents, _, err := r.eventStore.Query(ctx, filter)
	if err != nil {
		return nil, err
	}

	return DomainEventsFrom(storableEvents)
}
