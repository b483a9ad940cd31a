package telemetry

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitTracerProvider_WithoutExporter(t *testing.T) {
	tp, err := InitTracerProvider(context.Background(), "", "test", zerolog.Nop())
	require.NoError(t, err)
	defer func() { _ = tp.Shutdown(context.Background()) }()

	_, span := Tracer().Start(context.Background(), "unit")
	assert.True(t, span.SpanContext().IsValid())
	span.End()
}
