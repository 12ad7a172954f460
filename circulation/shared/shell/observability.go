package shell

import (
	"context"
	"fmt"
	"time"

	"github.com/AntonStoeckl/library-circulation-engine/circulation/shared/core"
	"github.com/AntonStoeckl/library-circulation-engine/eventstore"
)

const (
	// StatusSuccess indicates successful command completion.
	StatusSuccess = "success"
	// StatusError indicates a business rule violation recorded as a failure event or a rejection.
	StatusError = "error"
	// StatusIdempotent indicates no state change was needed.
	StatusIdempotent = "idempotent"
	// StatusFailed indicates an infrastructure failure.
	StatusFailed = "failed"

	LogMsgCommandCompleted = "command handler completed"
	LogMsgCommandFailed    = "command handler failed"
	LogMsgQueryCompleted   = "query handler completed"
	LogMsgQueryFailed      = "query handler failed"

	LogAttrCommandType     = "command_type"
	LogAttrQueryType       = "query_type"
	LogAttrStatus          = "status"
	LogAttrDurationMS      = "duration_ms"
	LogAttrBusinessOutcome = "business_outcome"
	LogAttrEventCount      = "event_count"
	LogAttrRetryAttempts   = "retry_attempts"
	LogAttrErrorCode       = "error_code"
	LogAttrError           = "error"

	SpanNameCommandHandle = "commandhandler.handle"
	SpanNameQueryHandle   = "queryhandler.handle"
)

// TracingCollector interface for distributed tracing in handlers.
type TracingCollector = eventstore.TracingCollector

// SpanContext represents an active tracing span.
type SpanContext = eventstore.SpanContext

// ContextualLogger interface for context-aware logging in handlers. *slog.Logger satisfies it.
type ContextualLogger = eventstore.ContextualLogger

// ClassifyBusinessOutcome determines the status of a finished decision.
func ClassifyBusinessOutcome(decision core.DecisionResult) string {
	switch {
	case decision.HasError() != nil:
		return StatusError
	case decision.IsIdempotent():
		return StatusIdempotent
	default:
		return StatusSuccess
	}
}

// ToMilliseconds converts a time.Duration to float64 milliseconds.
func ToMilliseconds(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1e6
}

// Observer bundles the optional logger and tracing collector of a handler.
type Observer struct {
	logger  ContextualLogger
	tracing TracingCollector
}

func (o Observer) startSpan(ctx context.Context, name, typeAttr, typeName string) (context.Context, SpanContext) {
	if o.tracing == nil {
		return ctx, nil
	}

	return o.tracing.StartSpan(ctx, name, map[string]string{typeAttr: typeName})
}

func (o Observer) finishSpan(span SpanContext, status string, duration time.Duration, err error) {
	if o.tracing == nil || span == nil {
		return
	}

	attrs := map[string]string{
		LogAttrStatus:     status,
		LogAttrDurationMS: fmt.Sprintf("%.2f", ToMilliseconds(duration)),
	}

	if err != nil {
		attrs[LogAttrError] = err.Error()
	}

	o.tracing.FinishSpan(span, status, attrs)
}

func (o Observer) logCommand(ctx context.Context, commandType, status string, result HandlerResult, duration time.Duration, err error) {
	if o.logger == nil {
		return
	}

	args := []any{
		LogAttrCommandType, commandType,
		LogAttrBusinessOutcome, status,
		LogAttrEventCount, len(result.AppendedEvents),
		LogAttrRetryAttempts, result.RetryAttempts,
		LogAttrDurationMS, ToMilliseconds(duration),
	}

	switch status {
	case StatusFailed:
		o.logger.ErrorContext(ctx, LogMsgCommandFailed, append(args, LogAttrError, err.Error())...)
	case StatusError:
		o.logger.InfoContext(ctx, LogMsgCommandCompleted, append(args, LogAttrErrorCode, string(core.CodeOf(err)))...)
	default:
		o.logger.InfoContext(ctx, LogMsgCommandCompleted, args...)
	}
}

func (o Observer) logQuery(ctx context.Context, queryType string, eventCount int, duration time.Duration, err error) {
	if o.logger == nil {
		return
	}

	args := []any{
		LogAttrQueryType, queryType,
		LogAttrEventCount, eventCount,
		LogAttrDurationMS, ToMilliseconds(duration),
	}

	if err != nil {
		o.logger.ErrorContext(ctx, LogMsgQueryFailed, append(args, LogAttrError, err.Error())...)
		return
	}

	o.logger.DebugContext(ctx, LogMsgQueryCompleted, args...)
}

// Option configures the observability and retry behavior of a CommandRunner or QueryRunner.
type Option func(*options)

type options struct {
	observer     Observer
	retryOptions []RetryOption
}

// WithLogger enables structured logging.
func WithLogger(logger ContextualLogger) Option {
	return func(o *options) {
		o.observer.logger = logger
	}
}

// WithTracing enables tracing spans.
func WithTracing(collector TracingCollector) Option {
	return func(o *options) {
		o.observer.tracing = collector
	}
}

// WithRetryOptions configures the retry loop of command handlers.
func WithRetryOptions(retryOptions ...RetryOption) Option {
	return func(o *options) {
		o.retryOptions = append(o.retryOptions, retryOptions...)
	}
}

func applyOptions(opts []Option) options {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}

	return o
}
