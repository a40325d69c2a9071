package mcp

import (
	"context"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/macropower/compass/pkg/log"
)

// WithTracing wraps an MCP tool handler with OpenTelemetry tracing and
// structured logging. Each call gets a span named after the tool, and the
// span's trace ID is attached to the call's logs.
func WithTracing[In, Out any](tracer trace.Tracer, tool string, handler mcp.ToolHandlerFor[In, Out]) mcp.ToolHandlerFor[In, Out] {
	return func(ctx context.Context, req *mcp.CallToolRequest, in In) (*mcp.CallToolResult, Out, error) {
		ctx, span := tracer.Start(ctx, tool, trace.WithAttributes(
			attribute.String("mcp.tool", tool),
		))
		defer span.End()

		logger := log.WithContext(ctx).With(slog.String("tool", tool))
		ctx = log.NewContext(ctx, logger)

		logger.DebugContext(ctx, "handling tool call")

		result, out, err := handler(ctx, req, in)
		if err != nil {
			logger.ErrorContext(ctx, "tool call failed", slog.Any("error", err))
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		} else {
			logger.DebugContext(ctx, "tool call completed")
		}

		return result, out, err
	}
}
