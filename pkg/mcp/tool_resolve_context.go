package mcp

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/macropower/strata/pkg/document"
	"github.com/macropower/strata/pkg/resolve"
)

const maxInlineText = 100000

// ResolveContextParams defines parameters for the resolve_context tool.
type ResolveContextParams struct {
	Path     string `json:"path"               jsonschema:"the path of the file being edited"`
	Event    string `json:"event"              jsonschema:"the interaction event (completion, chat, agentWorkflow, or codeReview)"`
	Template string `json:"template,omitempty" jsonschema:"optional id of a prompt template to layer in"`
}

// ResolveContextResult contains the result of a context resolution.
type ResolveContextResult struct {
	Text      string                 `json:"text"`
	Documents []resolve.Span         `json:"documents"`
	Dropped   []resolve.DocumentSize `json:"dropped,omitempty"`
	Error     string                 `json:"error,omitempty"`
	Tokens    int                    `json:"tokens"`
}

// handleResolveContext handles the resolve_context tool call.
func (s *Server) handleResolveContext(
	ctx context.Context,
	_ *mcp.ServerSession,
	params *mcp.CallToolParamsFor[ResolveContextParams],
) (*mcp.CallToolResultFor[ResolveContextResult], error) {
	event := document.EventType(params.Arguments.Event)
	if !event.Valid() {
		return nil, fmt.Errorf("invalid event %q, must be one of %v",
			params.Arguments.Event, document.AllEvents)
	}

	var (
		res *resolve.Result
		err error
	)

	if params.Arguments.Template != "" {
		res, err = s.svc.ResolveCombined(ctx, params.Arguments.Path, event, params.Arguments.Template)
	} else {
		res, err = s.svc.Resolve(ctx, params.Arguments.Path, event)
	}

	if err != nil {
		var budgetErr *resolve.BudgetError
		if errors.As(err, &budgetErr) {
			result := ResolveContextResult{
				Error: budgetErr.Error(),
			}

			return &mcp.CallToolResultFor[ResolveContextResult]{
				Content: []mcp.Content{
					&mcp.TextContent{Text: "CONFIGURATION ERROR: " + budgetErr.Error()},
				},
				StructuredContent: result,
				IsError:           true,
			}, nil
		}

		return nil, fmt.Errorf("resolve context: %w", err)
	}

	result := ResolveContextResult{
		Text:      res.Text,
		Documents: res.Documents,
		Dropped:   res.Dropped,
		Tokens:    res.Tokens,
	}

	text := res.Text
	if len(result.Documents) == 0 {
		text = fmt.Sprintf("No instruction documents apply to %s for event %s.",
			params.Arguments.Path, event)
	}

	return &mcp.CallToolResultFor[ResolveContextResult]{
		Content: []mcp.Content{
			&mcp.TextContent{Text: truncateString(text, maxInlineText)},
		},
		StructuredContent: result,
	}, nil
}
