package tracing

import (
	"context"
	"testing"

	"github.com/ncobase/composite/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestNewTracerWithoutEndpoint(t *testing.T) {
	shutdown, err := NewTracer(context.Background(), &config.Tracer{}, "1.0.0")
	require.NoError(t, err)
	assert.NoError(t, shutdown(context.Background()))
	assert.Contains(t, otel.GetTextMapPropagator().Fields(), "traceparent")
}

func TestNewSentryWithoutDSN(t *testing.T) {
	active, err := NewSentry(&config.Sentry{}, "composite", "1.0.0")
	require.NoError(t, err)
	assert.False(t, active)

	active, err = NewSentry(nil, "composite", "1.0.0")
	require.NoError(t, err)
	assert.False(t, active)
}
