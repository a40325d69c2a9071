package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/macropower/compass/pkg/rule"
	"github.com/macropower/compass/pkg/standard"
)

const toolListStandards = "list_standards"

// ListStandardsParams defines parameters for the list_standards tool.
type ListStandardsParams struct{}

// StandardInfo describes one standard.
type StandardInfo struct {
	Name     standard.Standard `json:"name"`
	Keywords []string          `json:"keywords,omitempty"`
	Checks   []string          `json:"checks"`
}

// ListStandardsResult contains every standard, in dispatch order.
type ListStandardsResult struct {
	Standards []StandardInfo `json:"standards"`
}

func (s *Server) handleListStandards(
	_ context.Context,
	_ *mcp.CallToolRequest,
	_ ListStandardsParams,
) (*mcp.CallToolResult, ListStandardsResult, error) {
	return nil, ListStandards(s.engine.Checks), nil
}

// ListStandards describes every standard, with the check keys returned by
// checks.
func ListStandards(checks func(standard.Standard) []rule.Check) ListStandardsResult {
	result := ListStandardsResult{Standards: make([]StandardInfo, 0, len(standard.All))}
	for _, std := range standard.All {
		info := StandardInfo{
			Name:     std,
			Keywords: std.Keywords(),
			Checks:   []string{},
		}
		for _, c := range checks(std) {
			info.Checks = append(info.Checks, c.Key)
		}

		result.Standards = append(result.Standards, info)
	}

	return result
}
