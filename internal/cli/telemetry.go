package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/macropower/compass/pkg/version"
)

const tracingShutdownTimeout = 5 * time.Second

// otlpEndpointEnvs enable trace export when any of them is set. The
// exporter reads its remaining settings from the standard OTEL_* variables.
var otlpEndpointEnvs = []string{
	"OTEL_EXPORTER_OTLP_ENDPOINT",
	"OTEL_EXPORTER_OTLP_TRACES_ENDPOINT",
}

// setupTracing installs a global tracer provider exporting spans over OTLP
// gRPC. It returns a nil shutdown function when no endpoint is configured.
func setupTracing(ctx context.Context) (func(context.Context) error, error) {
	if !tracingEnabled() {
		return nil, nil
	}

	exporter, err := otlptracegrpc.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("create otlp exporter: %w", err)
	}

	res, err := resource.Merge(resource.Default(), resource.NewSchemaless(
		attribute.String("service.name", cmdName),
		attribute.String("service.version", version.GetVersion()),
	))
	if err != nil {
		return nil, fmt.Errorf("create resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
	)
	otel.SetTracerProvider(tp)

	slog.DebugContext(ctx, "tracing enabled")

	return tp.Shutdown, nil
}

func tracingEnabled() bool {
	for _, env := range otlpEndpointEnvs {
		if os.Getenv(env) != "" {
			return true
		}
	}

	return false
}
