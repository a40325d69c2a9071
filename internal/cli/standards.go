package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/macropower/compass/pkg/mcp"
	"github.com/macropower/compass/pkg/report"
)

type StandardsArgs struct {
	*RootArgs

	Output string
}

func NewStandardsArgs(rootArgs *RootArgs) *StandardsArgs {
	return &StandardsArgs{RootArgs: rootArgs}
}

func (sa *StandardsArgs) AddFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&sa.Output, "output", "o", string(report.FormatTable),
		fmt.Sprintf("Output format, one of: %s", report.AllFormats))

	err := cmd.RegisterFlagCompletionFunc("output",
		cobra.FixedCompletions(report.AllFormats, cobra.ShellCompDirectiveNoFileComp),
	)
	if err != nil {
		panic(err)
	}
}

func NewStandardsCmd(sa *StandardsArgs) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "standards",
		Short: "List the standards, their keywords and their checks",
		Long: `Standards lists each standard in the order keywords are tested. The first
standard with a keyword contained in the requested text is evaluated, and
text matching no keyword evaluates the GENERAL checks.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runStandards(cmd, sa)
		},
	}

	sa.AddFlags(cmd)

	return cmd
}

func runStandards(cmd *cobra.Command, sa *StandardsArgs) error {
	format, err := report.ParseFormat(sa.Output)
	if err != nil {
		return err //nolint:wrapcheck // Return the original error.
	}

	cfg, err := sa.LoadConfig(cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	eng, err := NewEngine(cfg)
	if err != nil {
		return err
	}

	list := mcp.ListStandards(eng.Checks)
	color := isTerminal(cmd.OutOrStdout())

	var out []byte

	switch format {
	case report.FormatTable:
		out = []byte(standardsTable(list, color) + "\n")

	case report.FormatJSON, report.FormatYAML:
		out, err = report.Marshal(list, format)
		if err != nil {
			return err //nolint:wrapcheck // Return the original error.
		}
		if color {
			out, err = report.Highlight(out, format)
			if err != nil {
				return err //nolint:wrapcheck // Return the original error.
			}
		}
	}

	_, err = cmd.OutOrStdout().Write(out)
	if err != nil {
		return fmt.Errorf("write standards: %w", err)
	}

	return nil
}

func standardsTable(list mcp.ListStandardsResult, color bool) string {
	s := report.Styles{}
	if color {
		s = report.DefaultStyles()
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(s.Border).
		Headers("STANDARD", "KEYWORDS", "CHECKS").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return s.Header
			}

			return s.Cell
		})

	for _, info := range list.Standards {
		keywords := strings.Join(info.Keywords, ", ")
		if keywords == "" {
			keywords = "(fallback)"
		}

		t.Row(info.Name.String(), keywords, strconv.Itoa(len(info.Checks)))
	}

	return t.String()
}
