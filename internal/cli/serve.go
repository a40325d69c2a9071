package cli

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/macropower/compass/pkg/log"
	"github.com/macropower/compass/pkg/mcp"
)

const serveExamples = `  # Serve MCP over stdio, for a local agent:
  compass serve

  # Serve MCP over streamable HTTP, with /metrics and /debug/logs:
  compass serve --addr localhost:8080`

type ServeArgs struct {
	*RootArgs

	Address  string
	LogLines int
}

func NewServeArgs(rootArgs *RootArgs) *ServeArgs {
	return &ServeArgs{RootArgs: rootArgs}
}

func (sa *ServeArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&sa.Address, "addr", "", "Address to serve streamable HTTP on, stdio when empty")
	cmd.Flags().IntVar(&sa.LogLines, "log-lines", log.DefaultRingSize, "Number of log records kept for /debug/logs")
}

func NewServeCmd(sa *ServeArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "serve",
		Short:   "Serve the compass tools over the Model Context Protocol",
		Example: serveExamples,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd, sa)
		},
	}

	sa.AddFlags(cmd)

	return cmd
}

func runServe(cmd *cobra.Command, sa *ServeArgs) error {
	cfg, err := sa.LoadConfig(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	eng, err := NewEngine(cfg)
	if err != nil {
		return err
	}

	var opts []mcp.ServerOpt

	if sa.Address != "" {
		ring := log.NewRing(sa.LogLines)

		handler, err := log.CreateHandlerWithStrings(io.MultiWriter(cmd.ErrOrStderr(), ring), sa.LogLevel, sa.LogFormat)
		if err != nil {
			return fmt.Errorf("create log handler: %w", err)
		}

		slog.SetDefault(slog.New(handler))

		opts = append(opts, mcp.WithLogs(ring))
	}

	return mcp.NewServer(sa.Address, eng, opts...).Serve(cmd.Context()) //nolint:wrapcheck // Return the original error.
}
