package mcp_test

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/macropower/compass/pkg/engine"
	"github.com/macropower/compass/pkg/log"
	"github.com/macropower/compass/pkg/mcp"
	"github.com/macropower/compass/pkg/standard"
)

func newEngine() *engine.Engine {
	return engine.New(engine.WithClock(func() time.Time {
		return time.Date(2025, time.June, 15, 12, 0, 0, 0, time.UTC)
	}))
}

func connect(t *testing.T, s *mcp.Server) *sdk.ClientSession {
	t.Helper()

	clientTransport, serverTransport := sdk.NewInMemoryTransports()

	ctx := t.Context()

	_, err := s.Server().Connect(ctx, serverTransport, nil)
	require.NoError(t, err)

	client := sdk.NewClient(&sdk.Implementation{Name: "client"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)

	t.Cleanup(func() { _ = session.Close() })

	return session
}

var pciMetadata = map[string]any{
	"total_rows":    100,
	"total_columns": 3,
	"columns": map[string]any{
		"card_number": map[string]any{"unique_count": 100},
		"cvv_code":    map[string]any{"null_percentage": 0},
		"amount":      map[string]any{"is_numeric": true, "min": 3.5},
	},
}

func TestServer_ListTools(t *testing.T) {
	t.Parallel()

	session := connect(t, mcp.NewServer("", newEngine()))

	tools, err := session.ListTools(t.Context(), nil)
	require.NoError(t, err)

	var names []string
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}

	assert.ElementsMatch(t, []string{"evaluate_compliance", "list_standards"}, names)
}

func TestServer_Evaluate(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		args     map[string]any
		standard string
		contains []string
		isError  bool
	}{
		"pci": {
			args: map[string]any{
				"metadata": pciMetadata,
				"standard": "PCI DSS v4",
			},
			standard: "PCI_DSS",
			contains: []string{"PCI_DSS: 100 rows, 3 columns", "FAILED pci_no_cvv"},
		},
		"default standard": {
			args: map[string]any{
				"metadata": pciMetadata,
			},
			standard: "GENERAL",
			contains: []string{"GENERAL: 100 rows"},
		},
		"unknown standard falls back": {
			args: map[string]any{
				"metadata": pciMetadata,
				"standard": "SOX",
			},
			standard: "GENERAL",
		},
		"invalid metadata": {
			args: map[string]any{
				"metadata": map[string]any{
					"total_rows": 10,
					"columns": map[string]any{
						"id": map[string]any{"null_percentage": 150},
					},
				},
			},
			contains: []string{"invalid metadata"},
			isError:  true,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			session := connect(t, mcp.NewServer("", newEngine()))

			res, err := session.CallTool(t.Context(), &sdk.CallToolParams{
				Name:      "evaluate_compliance",
				Arguments: tc.args,
			})
			require.NoError(t, err)
			require.NotEmpty(t, res.Content)

			text, ok := res.Content[0].(*sdk.TextContent)
			require.True(t, ok)

			for _, want := range tc.contains {
				assert.Contains(t, text.Text, want)
			}

			assert.Equal(t, tc.isError, res.IsError)
			if tc.isError {
				return
			}

			out, ok := res.StructuredContent.(map[string]any)
			require.True(t, ok)
			assert.Equal(t, tc.standard, out["standard"])
			assert.NotEmpty(t, out["results"])
		})
	}
}

func TestServer_Evaluate_LogsFallback(t *testing.T) {
	t.Parallel()

	ring := log.NewRing(0)
	logger := slog.New(slog.NewTextHandler(ring, &slog.HandlerOptions{Level: slog.LevelDebug}))

	session := connect(t, mcp.NewServer("", newEngine(), mcp.WithLogger(logger)))

	res, err := session.CallTool(t.Context(), &sdk.CallToolParams{
		Name: "evaluate_compliance",
		Arguments: map[string]any{
			"metadata": pciMetadata,
			"standard": "GPDR audit",
		},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)

	var logs strings.Builder
	_, err = ring.WriteTo(&logs)
	require.NoError(t, err)

	assert.Contains(t, logs.String(), "no standard keyword matched")
	assert.Contains(t, logs.String(), `standard="GPDR audit"`)
	assert.Contains(t, logs.String(), "tool=evaluate_compliance")
}

func TestServer_EvaluateMatchesEngine(t *testing.T) {
	t.Parallel()

	session := connect(t, mcp.NewServer("", newEngine()))

	res, err := session.CallTool(t.Context(), &sdk.CallToolParams{
		Name:      "evaluate_compliance",
		Arguments: map[string]any{"metadata": pciMetadata, "standard": "pci"},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)

	out, ok := res.StructuredContent.(map[string]any)
	require.True(t, ok)

	results, ok := out["results"].(map[string]any)
	require.True(t, ok)

	var keys []string
	for k := range results {
		keys = append(keys, k)
	}

	var want []string
	for _, c := range newEngine().Checks(standard.PCIDSS) {
		want = append(want, c.Key)
	}

	assert.ElementsMatch(t, want, keys)
}

func TestServer_ListStandards(t *testing.T) {
	t.Parallel()

	session := connect(t, mcp.NewServer("", newEngine()))

	res, err := session.CallTool(t.Context(), &sdk.CallToolParams{Name: "list_standards"})
	require.NoError(t, err)
	require.False(t, res.IsError)

	out, ok := res.StructuredContent.(map[string]any)
	require.True(t, ok)

	standards, ok := out["standards"].([]any)
	require.True(t, ok)
	require.Len(t, standards, len(standard.All))

	first, ok := standards[0].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "GENERAL", first["name"])
	assert.NotContains(t, first, "keywords")

	visa, ok := standards[2].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "VISA_CEDP", visa["name"])
	assert.Equal(t, []any{"VISA", "CEDP"}, visa["keywords"])
}

func TestListStandards(t *testing.T) {
	t.Parallel()

	got := mcp.ListStandards(newEngine().Checks)
	require.Len(t, got.Standards, len(standard.All))

	for i, info := range got.Standards {
		assert.Equal(t, standard.All[i], info.Name)
		assert.NotEmpty(t, info.Checks)
	}
}

func TestServer_Handler(t *testing.T) {
	t.Parallel()

	ring := log.NewRing(10)
	_, err := ring.Write([]byte("level=INFO msg=started\n"))
	require.NoError(t, err)

	s := mcp.NewServer("localhost:0", newEngine(), mcp.WithLogs(ring))
	session := connect(t, s)

	_, err = session.CallTool(t.Context(), &sdk.CallToolParams{
		Name:      "evaluate_compliance",
		Arguments: map[string]any{"metadata": pciMetadata, "standard": "PCI"},
	})
	require.NoError(t, err)

	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)

	body := get(t, srv.URL+"/metrics")
	assert.Contains(t, body, `compass_evaluations_total{standard="PCI_DSS"} 1`)
	assert.Contains(t, body, `compass_failed_checks_total{standard="PCI_DSS"}`)
	assert.Contains(t, body, "compass_evaluation_errors_total 0")

	assert.Equal(t, "level=INFO msg=started\n", get(t, srv.URL+"/debug/logs"))
}

func get(t *testing.T, url string) string {
	t.Helper()

	req, err := http.NewRequestWithContext(t.Context(), http.MethodGet, url, http.NoBody)
	require.NoError(t, err)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)

	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var b strings.Builder
	_, err = io.Copy(&b, resp.Body)
	require.NoError(t, err)

	return b.String()
}
