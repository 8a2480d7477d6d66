package tracing

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
)

func TestInit_Disabled(t *testing.T) {
	shutdown, err := Init(context.Background(), Options{Enabled: false})
	require.NoError(t, err)
	require.NotNil(t, shutdown)

	assert.NotNil(t, otel.GetTracerProvider())
	assert.Contains(t, otel.GetTextMapPropagator().Fields(), "traceparent")
	assert.NoError(t, shutdown(context.Background()))
}

func TestInit_EnabledWithoutCollector(t *testing.T) {
	// otlptracegrpc dials lazily, so a missing collector must not fail startup
	shutdown, err := Init(context.Background(), Options{
		Enabled:  true,
		Endpoint: "127.0.0.1:1",
		Insecure: true,
		Sample:   1,
		Service:  "realestate-api",
		Version:  "test",
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_ = shutdown(ctx)
}
