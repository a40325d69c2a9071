package cli

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/macropower/compass/api"
	"github.com/macropower/compass/pkg/engine"
	"github.com/macropower/compass/pkg/metadata"
	"github.com/macropower/compass/pkg/report"
	"github.com/macropower/compass/pkg/standard"
)

const diffExamples = `  # Compare two profiles of the same dataset under GDPR:
  compass diff before.yaml after.yaml --standard GDPR`

type DiffArgs struct {
	*RootArgs

	Standard string
}

func NewDiffArgs(rootArgs *RootArgs) *DiffArgs {
	return &DiffArgs{RootArgs: rootArgs}
}

func (da *DiffArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&da.Standard, "standard", "s", "",
		"Standard to evaluate, matched by keyword (default from configuration)")

	err := cmd.RegisterFlagCompletionFunc("standard", completeStandards)
	if err != nil {
		panic(err)
	}
}

func NewDiffCmd(da *DiffArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "diff <old> <new>",
		Short:   "Show how check results change between two metadata files",
		Example: diffExamples,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(cmd, da, args[0], args[1])
		},
	}

	da.AddFlags(cmd)

	return cmd
}

func runDiff(cmd *cobra.Command, da *DiffArgs, oldPath, newPath string) error {
	cfg, err := da.LoadConfig(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	eng, err := NewEngine(cfg)
	if err != nil {
		return err
	}

	text := firstNonEmpty(da.Standard, cfg.Standard)

	oldDoc, err := evaluateDocument(cmd, eng, oldPath, text)
	if err != nil {
		return err
	}

	newDoc, err := evaluateDocument(cmd, eng, newPath, text)
	if err != nil {
		return err
	}

	diff, err := report.Diff(oldPath, newPath, oldDoc, newDoc)
	if err != nil {
		return err //nolint:wrapcheck // Return the original error.
	}

	if diff == "" {
		slog.InfoContext(cmd.Context(), "no differences", slog.String("standard", oldDoc.Standard.String()))

		return nil
	}

	if isTerminal(cmd.OutOrStdout()) {
		diff = report.ColorDiff(diff, report.DefaultStyles())
	}

	_, err = fmt.Fprint(cmd.OutOrStdout(), diff)
	if err != nil {
		return fmt.Errorf("write diff: %w", err)
	}

	return nil
}

func evaluateDocument(cmd *cobra.Command, eng *engine.Engine, path, text string) (report.Document, error) {
	data, err := api.ReadInput(path, cmd.InOrStdin())
	if err != nil {
		return report.Document{}, fmt.Errorf("read metadata: %w", err)
	}

	md, err := metadata.Load(data)
	if err != nil {
		return report.Document{}, fmt.Errorf("%s: %w", path, err)
	}

	results, err := eng.Evaluate(cmd.Context(), md, text)
	if err != nil {
		return report.Document{}, fmt.Errorf("%s: %w", path, err)
	}

	return report.Document{Standard: standard.Resolve(text), Results: results}, nil
}
