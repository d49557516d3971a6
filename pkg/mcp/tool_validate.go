package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/macropower/strata/pkg/resolve"
)

// ValidateConfigParams defines parameters for the validate_config tool.
type ValidateConfigParams struct{}

// ValidateConfigResult contains the result of a configuration check.
type ValidateConfigResult struct {
	Findings []resolve.Finding `json:"findings"`
	Valid    bool              `json:"valid"`
}

// handleValidateConfig handles the validate_config tool call.
func (s *Server) handleValidateConfig(
	_ context.Context,
	_ *mcp.ServerSession,
	_ *mcp.CallToolParamsFor[ValidateConfigParams],
) (*mcp.CallToolResultFor[ValidateConfigResult], error) {
	findings := s.svc.Validate()

	result := ValidateConfigResult{
		Valid:    len(findings) == 0,
		Findings: findings,
	}
	if result.Findings == nil {
		result.Findings = []resolve.Finding{}
	}

	text := "Configuration is valid."
	if !result.Valid {
		text = fmt.Sprintf("Configuration has %d finding(s):", len(findings))
		for _, f := range findings {
			text += "\n- " + f.Message
		}
	}

	return &mcp.CallToolResultFor[ValidateConfigResult]{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
		StructuredContent: result,
	}, nil
}
