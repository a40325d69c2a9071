package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/macropower/compass/api/v1beta1/configs"
)

type InitArgs struct {
	*RootArgs

	Force bool
}

func NewInitArgs(rootArgs *RootArgs) *InitArgs {
	return &InitArgs{RootArgs: rootArgs}
}

func (ia *InitArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&ia.Force, "force", "f", false, "Replace an existing file, keeping a backup")
}

func NewInitCmd(ia *InitArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		Long: `Init writes the default configuration to --config, or to
$XDG_CONFIG_HOME/compass/config.yaml. An existing file is kept unless
--force is set, or replacing it is confirmed at the prompt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, ia)
		},
	}

	ia.AddFlags(cmd)

	return cmd
}

func runInit(cmd *cobra.Command, ia *InitArgs) error {
	path := firstNonEmpty(ia.ConfigPath, configs.GetPath())

	force := ia.Force
	if !force && fileExists(path) && isTerminal(cmd.InOrStdin()) {
		var err error

		force, err = confirmReplace(cmd.Context(), path)
		if err != nil {
			return err
		}
	}

	err := configs.WriteDefault(path, force)
	if err != nil {
		return fmt.Errorf("init: %w", err)
	}

	slog.InfoContext(cmd.Context(), "configuration ready", slog.String("path", path))

	return nil
}

func confirmReplace(ctx context.Context, path string) (bool, error) {
	var replace bool

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title("Configuration exists").
				Description(fmt.Sprintf("Replace %s with the defaults?\nThe current file is kept as a backup.", path)).
				Affirmative("Replace").
				Negative("Keep").
				Value(&replace),
		),
	).WithShowHelp(false)

	err := form.RunWithContext(ctx)
	if errors.Is(err, huh.ErrUserAborted) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("run replace prompt: %w", err)
	}

	return replace, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)

	return !errors.Is(err, fs.ErrNotExist)
}
