// File: internal/telemetry/tracing.go
package telemetry

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	"go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	oteltrace "go.opentelemetry.io/otel/trace"
)

const ServiceName = "pocaswap-api"

// InitTracerProvider initializes and returns a new OpenTelemetry TracerProvider.
// An empty endpoint keeps tracing in-process only (spans are created but not exported).
func InitTracerProvider(ctx context.Context, endpoint, version string, logger zerolog.Logger) (*trace.TracerProvider, error) {
	res, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(ServiceName),
			semconv.ServiceVersion(version),
		),
	)
	if err != nil {
		return nil, err
	}

	opts := []trace.TracerProviderOption{trace.WithResource(res)}
	if endpoint != "" {
		// Configure an OTLP/HTTP exporter (Tempo, collector, ...).
		exporter, err := otlptracehttp.New(ctx,
			otlptracehttp.WithEndpoint(endpoint),
			otlptracehttp.WithInsecure(),
		)
		if err != nil {
			return nil, err
		}
		opts = append(opts, trace.WithBatcher(exporter, trace.WithBatchTimeout(time.Second)))
	}

	tp := trace.NewTracerProvider(opts...)

	// Set the global TracerProvider
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(propagation.TraceContext{}, propagation.Baggage{}))

	logger.Info().Str("endpoint", endpoint).Msg("OpenTelemetry TracerProvider initialized")
	return tp, nil
}

// Tracer returns the tracer used for use case spans.
func Tracer() oteltrace.Tracer {
	return otel.Tracer(ServiceName)
}
