// Package observability exports Genkit's OpenTelemetry spans over OTLP.
//
// Genkit records a span for every flow and generate call on its own tracer
// provider. Setup attaches an OTLP HTTP exporter to that provider so the
// spans reach a local collector (an OpenTelemetry Collector, Jaeger's OTLP
// receiver, or any agent listening on the configured endpoint).
package observability

import (
	"context"
	"os"

	"github.com/firebase/genkit/go/core/tracing"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/seaward0/seaward/internal/log"
)

// DefaultEndpoint is the conventional local OTLP HTTP endpoint.
const DefaultEndpoint = "localhost:4318"

// Config for OTLP trace export.
type Config struct {
	// Enabled turns span export on; when false Setup is a no-op.
	Enabled bool
	// Endpoint is the collector's OTLP HTTP endpoint (default localhost:4318).
	Endpoint string
	// ServiceName is the service name reported on exported spans.
	ServiceName string
	// Environment is the deployment environment tag (dev, staging, prod).
	Environment string
}

// Setup registers an OTLP HTTP exporter with Genkit's tracer provider.
// Returns a shutdown function that flushes pending spans; the returned
// function is never nil. An exporter that cannot be created disables
// tracing with a warning rather than failing startup.
func Setup(ctx context.Context, cfg Config, logger log.Logger) func(context.Context) error {
	noop := func(context.Context) error { return nil }
	if logger == nil {
		logger = log.NewNop()
	}
	if !cfg.Enabled {
		return noop
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	// Genkit's tracer provider picks the service identity up from the
	// standard OTEL environment variables.
	if cfg.ServiceName != "" {
		_ = os.Setenv("OTEL_SERVICE_NAME", cfg.ServiceName)
	}
	if cfg.Environment != "" {
		_ = os.Setenv("OTEL_RESOURCE_ATTRIBUTES", "deployment.environment="+cfg.Environment)
	}

	// Local collector endpoint, no TLS.
	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		logger.Warn("failed to create trace exporter, tracing disabled",
			"endpoint", endpoint, "error", err)
		return noop
	}

	processor := sdktrace.NewBatchSpanProcessor(exporter)
	tracing.TracerProvider().RegisterSpanProcessor(processor)

	logger.Debug("trace export enabled",
		"endpoint", endpoint,
		"service", cfg.ServiceName,
		"environment", cfg.Environment)

	return tracing.TracerProvider().Shutdown
}
