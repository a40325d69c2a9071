package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/macropower/compass/pkg/log"
	"github.com/macropower/compass/pkg/metadata"
	"github.com/macropower/compass/pkg/report"
	"github.com/macropower/compass/pkg/rule"
	"github.com/macropower/compass/pkg/standard"
)

const toolEvaluate = "evaluate_compliance"

var errMissingMetadata = errors.New("metadata is required")

// EvaluateParams defines parameters for the evaluate_compliance tool.
type EvaluateParams struct {
	Standard string          `json:"standard,omitempty"`
	Metadata json.RawMessage `json:"metadata"`
}

// EvaluateResult contains the result of an evaluation.
type EvaluateResult struct {
	Results  rule.Results      `json:"results"`
	Standard standard.Standard `json:"standard"`
	Summary  string            `json:"summary"`
	Failed   []string          `json:"failed,omitempty"`
}

func (s *Server) handleEvaluate(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	params EvaluateParams,
) (*mcp.CallToolResult, EvaluateResult, error) {
	if len(params.Metadata) == 0 {
		s.metrics.ObserveError()

		return nil, EvaluateResult{}, errMissingMetadata
	}

	md, err := metadata.Load(params.Metadata)
	if err != nil {
		s.metrics.ObserveError()

		return nil, EvaluateResult{}, fmt.Errorf("load metadata: %w", err)
	}

	results, err := s.engine.Evaluate(ctx, md, params.Standard)
	if err != nil {
		s.metrics.ObserveError()

		return nil, EvaluateResult{}, err //nolint:wrapcheck // Already wrapped by the engine.
	}

	text := params.Standard
	if text == "" {
		text = standard.Default
	}

	std := standard.Resolve(text)

	s.metrics.Observe(std, results)

	result := EvaluateResult{
		Standard: std,
		Results:  results,
		Failed:   results.Failed(),
		Summary:  report.Summary(md, std, results),
	}

	log.WithContext(ctx).DebugContext(ctx, "evaluation completed",
		slog.String("standard", std.String()),
		slog.Int("failed", len(result.Failed)),
	)

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: evaluateText(result)},
		},
	}, result, nil
}

func evaluateText(r EvaluateResult) string {
	var b strings.Builder

	b.WriteString(r.Summary)
	b.WriteString(".")

	for _, key := range r.Failed {
		fmt.Fprintf(&b, "\nFAILED %s (score %g, weight %d): %s",
			key, r.Results[key].Score, r.Results[key].Weight, r.Results[key].Details)
	}

	return b.String()
}
