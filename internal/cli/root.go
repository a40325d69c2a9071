package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/macropower/compass/api/v1beta1/configs"
	"github.com/macropower/compass/pkg/config"
	"github.com/macropower/compass/pkg/engine"
	"github.com/macropower/compass/pkg/expr"
	"github.com/macropower/compass/pkg/log"
)

const (
	cmdName = "compass"
	cmdDesc = `Evaluate dataset metadata profiles against financial compliance standards.`
)

type RootArgs struct {
	LogLevel   string
	LogFormat  string
	ConfigPath string
}

func NewRootArgs() *RootArgs {
	return &RootArgs{}
}

func (ra *RootArgs) AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVar(&ra.LogLevel, "log-level", "info", fmt.Sprintf("Log level, one of: %s", log.AllLevels))
	cmd.PersistentFlags().
		StringVar(&ra.LogFormat, "log-format", "text", fmt.Sprintf("Log format, one of: %s", log.AllFormats))
	cmd.PersistentFlags().
		StringVar(&ra.ConfigPath, "config", "", "Path to the compass configuration file")

	err := cmd.RegisterFlagCompletionFunc("log-format",
		cobra.FixedCompletions(log.AllFormats, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}

	err = cmd.RegisterFlagCompletionFunc("log-level",
		cobra.FixedCompletions(log.AllLevels, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}

	err = cmd.MarkPersistentFlagFilename("config", "yaml", "yml")
	if err != nil {
		panic(fmt.Errorf("mark config flag: %w", err))
	}
}

// LoadConfig loads the configuration selected by --config.
func (ra *RootArgs) LoadConfig(w io.Writer) (*configs.Config, error) {
	cfg, err := config.Load(ra.ConfigPath, config.WithColor(isTerminal(w)))
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	return cfg, nil
}

// NewEngine creates an [engine.Engine] with the custom checks of cfg.
func NewEngine(cfg *configs.Config) (*engine.Engine, error) {
	if len(cfg.Checks) == 0 {
		return engine.New(), nil
	}

	env, err := expr.NewEnvironment()
	if err != nil {
		return nil, fmt.Errorf("create expression environment: %w", err)
	}

	opts, err := cfg.EngineOptions(env)
	if err != nil {
		return nil, fmt.Errorf("compile custom checks: %w", err)
	}

	return engine.New(opts...), nil
}

func NewRootCmd() *cobra.Command {
	args := NewRootArgs()

	cmd := &cobra.Command{
		Use:               cmdName,
		Short:             cmdDesc,
		SilenceUsage:      true,
		PersistentPreRunE: setupLogging(args),
	}

	args.AddFlags(cmd)

	cmd.AddCommand(
		NewEvaluateCmd(NewEvaluateArgs(args)),
		NewDiffCmd(NewDiffArgs(args)),
		NewStandardsCmd(NewStandardsArgs(args)),
		NewSchemaCmd(),
		NewServeCmd(NewServeArgs(args)),
		NewInitCmd(NewInitArgs(args)),
	)

	bindEnvVars(cmd)

	return cmd
}

func setupLogging(ra *RootArgs) func(cmd *cobra.Command, _ []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		logHandler, err := log.CreateHandlerWithStrings(cmd.ErrOrStderr(), ra.LogLevel, ra.LogFormat)
		if err != nil {
			return fmt.Errorf("create log handler: %w", err)
		}

		slog.SetDefault(slog.New(logHandler))

		shutdown, err := setupTracing(cmd.Context())
		if err != nil {
			return fmt.Errorf("setup tracing: %w", err)
		}
		if shutdown == nil {
			return nil
		}

		cobra.OnFinalize(func() {
			ctx, cancel := context.WithTimeout(context.Background(), tracingShutdownTimeout)
			defer cancel()

			err := shutdown(ctx)
			if err != nil {
				slog.Warn("shutdown tracing", slog.Any("error", err))
			}
		})

		return nil
	}
}

const (
	// Width of the table columns before DETAILS.
	detailsOffset   = 64
	minDetailsWidth = 24
)

// isTerminal reports whether v is a terminal.
func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}

	return term.IsTerminal(int(f.Fd())) //nolint:gosec // G115: file descriptors fit in int.
}

// terminalWidth returns the width of the terminal w, or zero.
func terminalWidth(w io.Writer) int {
	f, ok := w.(*os.File)
	if !ok {
		return 0
	}

	width, _, err := term.GetSize(int(f.Fd())) //nolint:gosec // G115: file descriptors fit in int.
	if err != nil {
		return 0
	}

	return width
}
