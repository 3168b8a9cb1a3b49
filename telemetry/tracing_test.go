package telemetry_test

import (
	"context"
	"testing"

	"weather-dashboard/telemetry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestSetTracingWithoutExporter(t *testing.T) {
	shutdown, err := telemetry.SetTracing("")
	require.NoError(t, err)

	_, span := otel.Tracer("test").Start(context.Background(), "check")
	assert.True(t, span.SpanContext().IsValid(), "expected a recording span from the installed provider")
	span.End()

	assert.NoError(t, shutdown(context.Background()))
}

func TestSetTracingWithZipkin(t *testing.T) {
	shutdown, err := telemetry.SetTracing("http://localhost:9411/api/v2/spans")
	require.NoError(t, err)
	require.NotNil(t, shutdown)

	if err := shutdown(context.Background()); err != nil {
		t.Logf("shutdown reported: %v", err)
	}
}
