// Package mcp exposes strata's instruction resolution over the Model
// Context Protocol.
package mcp

const (
	name         = "strata"
	instructions = `MCP Server 'strata' resolves layered instruction documents for files in a workspace: given a file path and an interaction event, it returns the composed instruction context that applies, ordered by tier precedence and trimmed to the configured token budget.

When to use these tools:
- Fetching the instruction context that governs a file before editing it
- Retrieving a named prompt template by id
- Inspecting which instruction documents are registered and which tiers they occupy
- Checking an instruction set configuration for budget problems

REQUIRED workflow:
1. Use 'resolve_context' with the path of the file being edited and the interaction event (completion, chat, agentWorkflow, or codeReview)
2. Apply the returned instructions for the remainder of work on that file
3. Use 'get_template' only for explicitly invoked prompt templates, using the EXACT id from 'list_documents' output
`
)

// truncateString truncates a string to maxLen characters with a marker if needed.
func truncateString(str string, maxLen int) string {
	if str == "" {
		return ""
	}
	if len(str) > maxLen {
		return str[:maxLen] + "\n[OUTPUT TRUNCATED]"
	}

	return str
}
