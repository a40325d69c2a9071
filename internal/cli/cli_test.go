package cli_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/fang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/compass/api/v1beta1/configs"
	"github.com/macropower/compass/internal/cli"
	"github.com/macropower/compass/pkg/metadata"
)

const (
	cardMetadata = `total_rows: 100
total_columns: 3
columns:
  card_number:
    unique_count: 100
  cvv_code:
    null_percentage: 0
  amount:
    is_numeric: true
    min: 3.5
`

	tokenMetadata = `total_rows: 100
total_columns: 2
columns:
  card_token:
    unique_count: 100
  amount:
    is_numeric: true
    min: 3.5
`
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

// run executes the root command with a default configuration in a temp dir.
func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, configs.WriteDefault(cfgPath, false))

	var stdout, stderr bytes.Buffer

	root := cli.NewRootCmd()
	root.SetArgs(append([]string{"--config", cfgPath, "--log-level", "error"}, args...))
	root.SetIn(strings.NewReader(stdin))
	root.SetOut(&stdout)
	root.SetErr(&stderr)

	err := root.ExecuteContext(t.Context())

	return stdout.String(), err
}

func TestEvaluate(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cardPath := writeFile(t, dir, "card.yaml", cardMetadata)

	tcs := map[string]struct {
		err      error
		stdin    string
		errMsg   string
		contains []string
		args     []string
	}{
		"pci json": {
			args:     []string{"evaluate", cardPath, "--standard", "PCI DSS v4", "-o", "json"},
			contains: []string{`"standard": "PCI_DSS"`, `"pci_no_cvv"`},
		},
		"default standard table": {
			args:     []string{"evaluate", cardPath},
			contains: []string{"GENERAL", "CHECK", "SCORE", "100 rows, 3 columns"},
		},
		"stdin yaml": {
			args:     []string{"eval", "-", "-s", "Basel", "-o", "yaml"},
			stdin:    tokenMetadata,
			contains: []string{"standard: BASEL"},
		},
		"fail on error": {
			args: []string{"evaluate", cardPath, "-s", "PCI", "-o", "json", "--fail-on-error"},
			err:  cli.ErrChecksFailed,
		},
		"invalid metadata": {
			args:  []string{"evaluate", "-s", "GDPR"},
			stdin: "columns: [1, 2]\n",
			err:   metadata.ErrInvalidMetadata,
		},
		"unknown output": {
			args:   []string{"evaluate", cardPath, "-o", "xml"},
			errMsg: "xml",
		},
		"watch stdin": {
			args:   []string{"evaluate", "--watch"},
			errMsg: "--watch needs a file path",
		},
		"missing file": {
			args:   []string{"evaluate", filepath.Join(dir, "missing.yaml")},
			errMsg: "missing.yaml",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			out, err := run(t, tc.stdin, tc.args...)

			switch {
			case tc.err != nil:
				require.ErrorIs(t, err, tc.err)
			case tc.errMsg != "":
				require.ErrorContains(t, err, tc.errMsg)
			default:
				require.NoError(t, err)
			}

			for _, want := range tc.contains {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestEvaluate_JSONMatchesStandard(t *testing.T) {
	t.Parallel()

	path := writeFile(t, t.TempDir(), "card.yaml", cardMetadata)

	out, err := run(t, "", "evaluate", path, "-s", "pci", "-o", "json")
	require.NoError(t, err)

	var doc struct {
		Standard string `json:"standard"`
		Results  map[string]struct {
			Passed bool `json:"passed"`
		} `json:"results"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))

	assert.Equal(t, "PCI_DSS", doc.Standard)
	require.Contains(t, doc.Results, "pci_no_cvv")
	assert.False(t, doc.Results["pci_no_cvv"].Passed)
}

func TestDiff(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	cardPath := writeFile(t, dir, "card.yaml", cardMetadata)
	tokenPath := writeFile(t, dir, "token.yaml", tokenMetadata)

	out, err := run(t, "", "diff", cardPath, tokenPath, "-s", "PCI")
	require.NoError(t, err)

	assert.Contains(t, out, "--- "+cardPath)
	assert.Contains(t, out, "+++ "+tokenPath)
	assert.Contains(t, out, "pci_no_cvv")

	out, err = run(t, "", "diff", cardPath, cardPath, "-s", "PCI")
	require.NoError(t, err)
	assert.Empty(t, out)

	_, err = run(t, "", "diff", cardPath)
	require.Error(t, err)
}

func TestStandards(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		contains []string
		args     []string
	}{
		"table": {
			args:     []string{"standards"},
			contains: []string{"STANDARD", "KEYWORDS", "PCI_DSS", "PCI", "(fallback)"},
		},
		"yaml": {
			args:     []string{"standards", "-o", "yaml"},
			contains: []string{"name: GDPR", "- pci_no_cvv"},
		},
		"json": {
			args:     []string{"standards", "-o", "json"},
			contains: []string{`"name": "BASEL"`},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			out, err := run(t, "", tc.args...)
			require.NoError(t, err)

			for _, want := range tc.contains {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestSchema(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		errMsg   string
		contains string
		args     []string
	}{
		"default is metadata": {
			args:     []string{"schema"},
			contains: `"total_rows"`,
		},
		"config": {
			args:     []string{"schema", "config"},
			contains: `"apiVersion"`,
		},
		"unknown": {
			args:   []string{"schema", "policy"},
			errMsg: "invalid argument",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			out, err := run(t, "", tc.args...)
			if tc.errMsg != "" {
				require.ErrorContains(t, err, tc.errMsg)

				return
			}

			require.NoError(t, err)
			assert.True(t, json.Valid([]byte(out)))
			assert.Contains(t, out, tc.contains)
		})
	}
}

func TestInit(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	root := cli.NewRootCmd()
	root.SetArgs([]string{"init", "--config", path, "--log-level", "error"})
	root.SetIn(strings.NewReader(""))
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	require.NoError(t, root.ExecuteContext(t.Context()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "kind: Configuration")

	require.NoError(t, os.WriteFile(path, []byte("custom"), 0o600))

	root = cli.NewRootCmd()
	root.SetArgs([]string{"init", "--config", path, "--log-level", "error"})
	root.SetIn(strings.NewReader(""))
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	require.NoError(t, root.ExecuteContext(t.Context()))

	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "custom", string(data))
}

func TestErrorHandler(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		err  error
		hint string
	}{
		"no hint": {
			err: assert.AnError,
		},
		"unknown flag": {
			err:  errUsage("unknown flag: --nope"),
			hint: "--help",
		},
		"invalid metadata": {
			err:  metadata.ErrInvalidMetadata,
			hint: "compass schema metadata",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			cli.ErrorHandler(&buf, fang.Styles{}, tc.err)

			assert.Contains(t, buf.String(), tc.err.Error())
			if tc.hint == "" {
				assert.NotContains(t, buf.String(), "Try")
			} else {
				assert.Contains(t, buf.String(), tc.hint)
			}
		})
	}
}

type errUsage string

func (e errUsage) Error() string { return string(e) }
