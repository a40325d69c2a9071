package cli

import (
	"encoding/json"
	"fmt"

	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"

	"github.com/macropower/compass/api/v1beta1/configs"
	"github.com/macropower/compass/pkg/metadata"
	"github.com/macropower/compass/pkg/report"
)

// schemas maps each schema name to its source.
var schemas = map[string]func() *jsonschema.Schema{
	"metadata": metadata.Schema,
	"config":   configs.Schema,
}

func NewSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "schema [metadata|config]",
		Short:     "Print the JSON schema of metadata or configuration files",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []cobra.Completion{"metadata", "config"},
		RunE: func(cmd *cobra.Command, args []string) error {
			name := "metadata"
			if len(args) > 0 {
				name = args[0]
			}

			out, err := json.MarshalIndent(schemas[name](), "", "  ")
			if err != nil {
				return fmt.Errorf("marshal %s schema: %w", name, err)
			}

			out = append(out, '\n')
			if isTerminal(cmd.OutOrStdout()) {
				out, err = report.Highlight(out, report.FormatJSON)
				if err != nil {
					return err //nolint:wrapcheck // Return the original error.
				}
			}

			_, err = cmd.OutOrStdout().Write(out)
			if err != nil {
				return fmt.Errorf("write schema: %w", err)
			}

			return nil
		},
	}
}
