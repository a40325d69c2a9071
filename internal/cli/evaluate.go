package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/macropower/compass/api"
	"github.com/macropower/compass/pkg/engine"
	"github.com/macropower/compass/pkg/metadata"
	"github.com/macropower/compass/pkg/report"
	"github.com/macropower/compass/pkg/rule"
	"github.com/macropower/compass/pkg/standard"
)

const evaluateExamples = `  # Evaluate a metadata file against the default standard:
  compass evaluate profile.yaml

  # Evaluate against PCI DSS and print JSON:
  compass evaluate profile.json --standard "PCI DSS v4" --output json

  # Read metadata from stdin and fail when any check fails:
  profiler dump | compass evaluate - --standard GDPR --fail-on-error

  # Re-evaluate whenever the file changes:
  compass evaluate profile.yaml --standard Basel --watch`

// ErrChecksFailed is returned by --fail-on-error when any check failed.
var ErrChecksFailed = errors.New("checks failed")

var errWatchStdin = errors.New("--watch needs a file path, not stdin")

type EvaluateArgs struct {
	*RootArgs

	Path        string
	Standard    string
	Output      string
	Watch       bool
	FailOnError bool
}

func NewEvaluateArgs(rootArgs *RootArgs) *EvaluateArgs {
	return &EvaluateArgs{RootArgs: rootArgs}
}

func (ea *EvaluateArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&ea.Standard, "standard", "s", "",
		"Standard to evaluate, matched by keyword (default from configuration)")
	cmd.Flags().StringVarP(&ea.Output, "output", "o", "",
		fmt.Sprintf("Output format, one of: %s (default from configuration)", report.AllFormats))
	cmd.Flags().BoolVarP(&ea.Watch, "watch", "w", false, "Re-evaluate when the metadata file changes")
	cmd.Flags().BoolVar(&ea.FailOnError, "fail-on-error", false, "Exit with an error when any check fails")

	err := cmd.RegisterFlagCompletionFunc("output",
		cobra.FixedCompletions(report.AllFormats, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}

	err = cmd.RegisterFlagCompletionFunc("standard", completeStandards)
	if err != nil {
		panic(err)
	}
}

func NewEvaluateCmd(ea *EvaluateArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "evaluate [file]",
		Aliases: []string{"eval"},
		Short:   "Evaluate a metadata file against a compliance standard",
		Long: `Evaluate reads dataset metadata as YAML or JSON, from a file or from stdin
when the path is "-" or omitted, and prints the result of every check.`,
		Example: evaluateExamples,
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ea.Path = api.Stdin
			if len(args) > 0 {
				ea.Path = args[0]
			}

			return runEvaluate(cmd, ea)
		},
	}

	ea.AddFlags(cmd)

	return cmd
}

func completeStandards(_ *cobra.Command, _ []string, _ string) ([]cobra.Completion, cobra.ShellCompDirective) {
	completions := make([]cobra.Completion, 0, len(standard.All))
	for _, std := range standard.All {
		completions = append(completions, cobra.CompletionWithDesc(std.String(), fmt.Sprintf("%v", std.Keywords())))
	}

	return completions, cobra.ShellCompDirectiveNoFileComp
}

// evaluation holds everything needed to evaluate and render one input.
type evaluation struct {
	engine   *engine.Engine
	renderer *report.Renderer
	stdin    io.Reader
	stdout   io.Writer
	tracer   trace.Tracer
	text     string
	path     string
}

func runEvaluate(cmd *cobra.Command, ea *EvaluateArgs) error {
	if ea.Watch && ea.Path == api.Stdin {
		return errWatchStdin
	}

	cfg, err := ea.LoadConfig(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	eng, err := NewEngine(cfg)
	if err != nil {
		return err
	}

	format, err := report.ParseFormat(firstNonEmpty(ea.Output, cfg.Output))
	if err != nil {
		return err
	}

	ev := &evaluation{
		engine:   eng,
		renderer: newRenderer(format, cmd.OutOrStdout()),
		stdin:    cmd.InOrStdin(),
		stdout:   cmd.OutOrStdout(),
		tracer:   otel.Tracer("compass/cli"),
		text:     firstNonEmpty(ea.Standard, cfg.Standard),
		path:     ea.Path,
	}

	ctx := cmd.Context()

	results, err := ev.run(ctx)
	if err != nil {
		return err
	}

	if ea.Watch {
		return ev.watch(ctx)
	}

	if failed := results.Failed(); ea.FailOnError && len(failed) > 0 {
		return fmt.Errorf("%w: %v", ErrChecksFailed, failed)
	}

	return nil
}

func (ev *evaluation) run(ctx context.Context) (rule.Results, error) {
	ctx, span := ev.tracer.Start(ctx, "evaluate", trace.WithAttributes(
		attribute.String("path", ev.path),
		attribute.String("standard.text", ev.text),
	))
	defer span.End()

	data, err := api.ReadInput(ev.path, ev.stdin)
	if err != nil {
		return nil, fmt.Errorf("read metadata: %w", err)
	}

	md, err := metadata.Load(data)
	if err != nil {
		span.RecordError(err)

		return nil, fmt.Errorf("%s: %w", ev.path, err)
	}

	results, err := ev.engine.Evaluate(ctx, md, ev.text)
	if err != nil {
		span.RecordError(err)

		return nil, err //nolint:wrapcheck // Already wrapped by the engine.
	}

	std := standard.Resolve(ev.text)
	span.SetAttributes(
		attribute.String("standard", std.String()),
		attribute.Int("checks.failed", len(results.Failed())),
	)

	err = ev.renderer.Render(ev.stdout, md, std, results)
	if err != nil {
		return nil, err //nolint:wrapcheck // Return the original error.
	}

	return results, nil
}

// watch re-evaluates the input whenever it is written, until ctx is done.
// The parent directory is watched, so files replaced by editors are
// followed.
func (ev *evaluation) watch(ctx context.Context) error {
	path, err := filepath.Abs(ev.path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	err = watcher.Add(filepath.Dir(path))
	if err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(path), err)
	}

	slog.InfoContext(ctx, "watching for changes", slog.String("path", path))

	for {
		select {
		case <-ctx.Done():
			return nil

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			slog.WarnContext(ctx, "watch error", slog.Any("error", err))

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != path || !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			slog.DebugContext(ctx, "file changed", slog.String("op", event.Op.String()))

			_, err := ev.run(ctx)
			if err != nil {
				slog.ErrorContext(ctx, "evaluation failed", slog.Any("error", err))
			}
		}
	}
}

// newRenderer creates a [report.Renderer] for w, fitting table details to
// the terminal width.
func newRenderer(format report.Format, w io.Writer) *report.Renderer {
	if !isTerminal(w) {
		return report.NewRenderer(format)
	}

	opts := []report.RendererOpt{report.WithColor(true)}
	if width := terminalWidth(w); width > 0 {
		opts = append(opts, report.WithDetailsWidth(max(width-detailsOffset, minDetailsWidth)))
	}

	return report.NewRenderer(format, opts...)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}

	return ""
}
