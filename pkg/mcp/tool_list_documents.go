package mcp

import (
	"context"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/macropower/strata/pkg/document"
)

// ListDocumentsParams defines parameters for the list_documents tool.
type ListDocumentsParams struct {
	Tier string `json:"tier,omitempty" jsonschema:"optional tier to filter by"`
}

// DocumentInfo describes one registered instruction document.
type DocumentInfo struct {
	ID        string   `json:"id"`
	Tier      string   `json:"tier"`
	AppliesTo []string `json:"appliesTo,omitempty"`
	Match     string   `json:"match,omitempty"`
	Events    []string `json:"events,omitempty"`
	Tokens    int      `json:"tokens"`
}

// ListDocumentsResult contains the result of listing documents.
type ListDocumentsResult struct {
	Documents []DocumentInfo `json:"documents"`
	Error     string         `json:"error,omitempty"`
}

// handleListDocuments handles the list_documents tool call.
func (s *Server) handleListDocuments(
	_ context.Context,
	_ *mcp.ServerSession,
	params *mcp.CallToolParamsFor[ListDocumentsParams],
) (*mcp.CallToolResultFor[ListDocumentsResult], error) {
	var tier document.Tier
	if params.Arguments.Tier != "" {
		tier = document.Tier(params.Arguments.Tier)
		if !tier.Valid() {
			return nil, fmt.Errorf("invalid tier %q, must be one of %v",
				params.Arguments.Tier, document.AllTiers)
		}
	}

	snap := s.svc.Registry().Snapshot()

	docs := snap.All()
	if tier != "" {
		docs = snap.ByTier(tier)
	}

	result := ListDocumentsResult{
		Documents: make([]DocumentInfo, 0, len(docs)),
	}

	for _, doc := range docs {
		events := make([]string, len(doc.Events))
		for i, e := range doc.Events {
			events[i] = string(e)
		}

		result.Documents = append(result.Documents, DocumentInfo{
			ID:        doc.ID,
			Tier:      string(doc.Tier),
			AppliesTo: doc.AppliesTo,
			Match:     doc.Match,
			Events:    events,
			Tokens:    doc.Tokens,
		})
	}

	return &mcp.CallToolResultFor[ListDocumentsResult]{
		Content: []mcp.Content{
			&mcp.TextContent{Text: fmt.Sprintf("Found %d documents. Status: ok", len(result.Documents))},
		},
		StructuredContent: result,
	}, nil
}
