package oteladapters_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/AntonStoeckl/library-circulation-engine/eventstore/oteladapters"
)

func Test_TracingCollector_RecordsSpanWithAttributesAndStatus(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	provider := trace.NewTracerProvider(trace.WithSyncer(exporter))
	collector := oteladapters.NewTracingCollector(provider.Tracer("test"))

	_, spanCtx := collector.StartSpan(context.Background(), "eventstore.append", map[string]string{"db.table": "events"})
	collector.FinishSpan(spanCtx, "ok", map[string]string{"event_count": "2"})

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "eventstore.append", spans[0].Name)
	assert.Equal(t, codes.Ok, spans[0].Status.Code)
	assert.Contains(t, spans[0].Attributes, attribute.String("db.table", "events"))
	assert.Contains(t, spans[0].Attributes, attribute.String("event_count", "2"))
}

func Test_TracingCollector_MapsStatuses(t *testing.T) {
	testCases := []struct {
		status   string
		expected codes.Code
	}{
		{"success", codes.Ok},
		{"idempotent", codes.Ok},
		{"error", codes.Error},
		{"rejected", codes.Error},
		{"conflict", codes.Error},
		{"canceled", codes.Error},
		{"something-else", codes.Unset},
	}

	for _, tc := range testCases {
		t.Run(tc.status, func(t *testing.T) {
			exporter := tracetest.NewInMemoryExporter()
			provider := trace.NewTracerProvider(trace.WithSyncer(exporter))
			collector := oteladapters.NewTracingCollector(provider.Tracer("test"))

			_, spanCtx := collector.StartSpan(context.Background(), "op", nil)
			collector.FinishSpan(spanCtx, tc.status, nil)

			spans := exporter.GetSpans()
			require.Len(t, spans, 1)
			assert.Equal(t, tc.expected, spans[0].Status.Code)
		})
	}
}
