package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/macropower/strata/pkg/resolve"
)

// GetTemplateParams defines parameters for the get_template tool.
type GetTemplateParams struct {
	ID string `json:"id" jsonschema:"the id of the prompt template"`
}

// GetTemplateResult contains the result of a template lookup.
type GetTemplateResult struct {
	Text   string `json:"text,omitempty"`
	Error  string `json:"error,omitempty"`
	Tokens int    `json:"tokens"`
	Found  bool   `json:"found"`
}

// handleGetTemplate handles the get_template tool call.
func (s *Server) handleGetTemplate(
	ctx context.Context,
	_ *mcp.ServerSession,
	params *mcp.CallToolParamsFor[GetTemplateParams],
) (*mcp.CallToolResultFor[GetTemplateResult], error) {
	res, err := s.svc.ResolveExplicit(ctx, params.Arguments.ID)
	if err != nil {
		if errors.Is(err, resolve.ErrUnknownTemplate) {
			result := GetTemplateResult{
				Found: false,
				Error: err.Error(),
			}

			return &mcp.CallToolResultFor[GetTemplateResult]{
				Content: []mcp.Content{
					&mcp.TextContent{Text: fmt.Sprintf(
						"INVALID INPUT ERROR: Template %q not found. Use an EXACT id from the list_documents tool.",
						params.Arguments.ID,
					)},
				},
				StructuredContent: result,
				IsError:           true,
			}, nil
		}

		return nil, fmt.Errorf("resolve template: %w", err)
	}

	result := GetTemplateResult{
		Found:  true,
		Text:   res.Text,
		Tokens: res.Tokens,
	}

	return &mcp.CallToolResultFor[GetTemplateResult]{
		Content: []mcp.Content{
			&mcp.TextContent{Text: truncateString(res.Text, maxInlineText)},
		},
		StructuredContent: result,
	}, nil
}
