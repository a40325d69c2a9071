package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/macropower/compass/pkg/engine"
	"github.com/macropower/compass/pkg/log"
	"github.com/macropower/compass/pkg/version"
)

const shutdownTimeout = 5 * time.Second

// Server implements the MCP server for compass.
type Server struct {
	engine  *engine.Engine
	server  *mcp.Server
	metrics *Metrics
	logs    http.Handler
	logger  *slog.Logger
	tracer  trace.Tracer
	address string
}

// ServerOpt configures a [Server].
type ServerOpt func(*Server)

// WithLogs serves h at /debug/logs over HTTP.
func WithLogs(h http.Handler) ServerOpt {
	return func(s *Server) {
		s.logs = h
	}
}

// WithLogger sets the logger for tool calls. By default tool calls log to
// [slog.Default].
func WithLogger(logger *slog.Logger) ServerOpt {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics replaces the [Metrics] of the server.
func WithMetrics(m *Metrics) ServerOpt {
	return func(s *Server) {
		s.metrics = m
	}
}

// NewServer creates a new MCP server instance. An empty address serves
// over stdio.
func NewServer(address string, eng *engine.Engine, opts ...ServerOpt) *Server {
	impl := &mcp.Implementation{
		Name:    name,
		Version: version.GetVersion(),
	}

	s := &Server{
		address: address,
		engine:  eng,
		server:  mcp.NewServer(impl, &mcp.ServerOptions{Instructions: instructions}),
		tracer:  otel.Tracer("compass/mcp"),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.metrics == nil {
		s.metrics = NewMetrics()
	}

	s.registerTools()

	return s
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name: toolEvaluate,
		Description: "Evaluate dataset metadata against a compliance standard. " +
			"Returns every check result with its score, weight and details.",
		InputSchema:  evaluateInputSchema(),
		OutputSchema: evaluateOutputSchema(),
	}, withLogger(s.logger, WithTracing(s.tracer, toolEvaluate, s.handleEvaluate)))

	mcp.AddTool(s.server, &mcp.Tool{
		Name:         toolListStandards,
		Description:  "List the compliance standards, the keywords that select them and the checks they run.",
		OutputSchema: listStandardsOutputSchema(),
	}, withLogger(s.logger, WithTracing(s.tracer, toolListStandards, s.handleListStandards)))
}

// withLogger stores logger in the context of every call to handler.
func withLogger[In, Out any](logger *slog.Logger, handler mcp.ToolHandlerFor[In, Out]) mcp.ToolHandlerFor[In, Out] {
	if logger == nil {
		return handler
	}

	return func(ctx context.Context, req *mcp.CallToolRequest, in In) (*mcp.CallToolResult, Out, error) {
		return handler(log.NewContext(ctx, logger), req, in)
	}
}

// Server returns the underlying [*mcp.Server].
func (s *Server) Server() *mcp.Server {
	return s.server
}

// Handler returns the HTTP handler serving MCP over streamable HTTP, along
// with /metrics and, when configured, /debug/logs.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.server
	}, nil))
	mux.Handle("/metrics", s.metrics.Handler())

	if s.logs != nil {
		mux.Handle("/debug/logs", s.logs)
	}

	return mux
}

// Serve starts the MCP server and blocks until ctx is canceled or the
// transport fails.
func (s *Server) Serve(ctx context.Context) error {
	slog.InfoContext(ctx, "starting MCP server", slog.String("address", s.address))

	if s.address == "" {
		err := s.server.Run(ctx, &mcp.StdioTransport{})
		if err != nil {
			return fmt.Errorf("serve stdio: %w", err)
		}

		return nil
	}

	err := s.serveHTTP(ctx)
	if err != nil {
		return fmt.Errorf("serve HTTP: %w", err)
	}

	return nil
}

func (s *Server) serveHTTP(ctx context.Context) error {
	server := &http.Server{
		Addr:    s.address,
		Handler: s.Handler(),

		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}

		return nil

	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		err := server.Shutdown(shutdownCtx)
		if err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}

		return nil
	}
}
