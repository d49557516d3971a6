package mcp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/macropower/strata/pkg/document"
	"github.com/macropower/strata/pkg/mcp"
	"github.com/macropower/strata/pkg/registry"
	"github.com/macropower/strata/pkg/resolve"
)

func newTestService(t *testing.T) *resolve.Service {
	t.Helper()

	reg, err := registry.New()
	require.NoError(t, err)

	require.NoError(t, reg.Add(
		&document.Document{
			ID:   "repo-style",
			Tier: document.TierRepository,
			Body: "Follow repository conventions.\n",
		},
		&document.Document{
			ID:        "c-style",
			Tier:      document.TierPath,
			AppliesTo: []string{"**/*.c,**/*.h"},
			Body:      "Use snake_case for C code.\n",
		},
		&document.Document{
			ID:   "fix-build",
			Tier: document.TierPrompt,
			Body: "Diagnose and fix the build failure.\n",
		},
	))

	return resolve.NewService(reg, resolve.WithMaxTokens(1000))
}

func newTestSession(t *testing.T) *sdk.ClientSession {
	t.Helper()

	clientTransport, serverTransport := sdk.NewInMemoryTransports()

	server := mcp.NewServer("", newTestService(t))

	ctx := t.Context()

	_, err := server.Server().Connect(ctx, serverTransport)
	require.NoError(t, err)

	client := sdk.NewClient(&sdk.Implementation{Name: "client"}, nil)

	session, err := client.Connect(ctx, clientTransport)
	require.NoError(t, err)

	return session
}

func TestServer_ResolveContext(t *testing.T) {
	t.Parallel()

	session := newTestSession(t)

	result, err := session.CallTool(t.Context(), &sdk.CallToolParams{
		Name: "resolve_context",
		Arguments: map[string]any{
			"path":  "src/uart.c",
			"event": "completion",
		},
	})
	require.NoError(t, err)
	assert.False(t, result.IsError)

	sc, ok := result.StructuredContent.(map[string]any)
	require.True(t, ok)

	text, ok := sc["text"].(string)
	require.True(t, ok)
	assert.Contains(t, text, "repo-style")
	assert.Contains(t, text, "c-style")
	assert.NotContains(t, text, "fix-build")

	docs, ok := sc["documents"].([]any)
	require.True(t, ok)
	assert.Len(t, docs, 2)
}

func TestServer_ResolveContextInvalidEvent(t *testing.T) {
	t.Parallel()

	session := newTestSession(t)

	result, err := session.CallTool(t.Context(), &sdk.CallToolParams{
		Name: "resolve_context",
		Arguments: map[string]any{
			"path":  "src/uart.c",
			"event": "telepathy",
		},
	})
	if err == nil {
		assert.True(t, result.IsError)
	}
}

func TestServer_ResolveContextWithTemplate(t *testing.T) {
	t.Parallel()

	session := newTestSession(t)

	result, err := session.CallTool(t.Context(), &sdk.CallToolParams{
		Name: "resolve_context",
		Arguments: map[string]any{
			"path":     "src/uart.c",
			"event":    "chat",
			"template": "fix-build",
		},
	})
	require.NoError(t, err)
	assert.False(t, result.IsError)

	sc, ok := result.StructuredContent.(map[string]any)
	require.True(t, ok)

	text, ok := sc["text"].(string)
	require.True(t, ok)
	assert.Contains(t, text, "fix-build")
}

func TestServer_GetTemplate(t *testing.T) {
	t.Parallel()

	session := newTestSession(t)

	result, err := session.CallTool(t.Context(), &sdk.CallToolParams{
		Name: "get_template",
		Arguments: map[string]any{
			"id": "fix-build",
		},
	})
	require.NoError(t, err)
	assert.False(t, result.IsError)

	sc, ok := result.StructuredContent.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, sc["found"])
}

func TestServer_GetTemplateNotFound(t *testing.T) {
	t.Parallel()

	session := newTestSession(t)

	result, err := session.CallTool(t.Context(), &sdk.CallToolParams{
		Name: "get_template",
		Arguments: map[string]any{
			"id": "does-not-exist",
		},
	})
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestServer_ListDocuments(t *testing.T) {
	t.Parallel()

	session := newTestSession(t)

	result, err := session.CallTool(t.Context(), &sdk.CallToolParams{
		Name:      "list_documents",
		Arguments: map[string]any{},
	})
	require.NoError(t, err)
	assert.False(t, result.IsError)

	sc, ok := result.StructuredContent.(map[string]any)
	require.True(t, ok)

	docs, ok := sc["documents"].([]any)
	require.True(t, ok)
	assert.Len(t, docs, 3)
}

func TestServer_ValidateConfig(t *testing.T) {
	t.Parallel()

	session := newTestSession(t)

	result, err := session.CallTool(t.Context(), &sdk.CallToolParams{
		Name:      "validate_config",
		Arguments: map[string]any{},
	})
	require.NoError(t, err)
	assert.False(t, result.IsError)

	sc, ok := result.StructuredContent.(map[string]any)
	require.True(t, ok)
	assert.Equal(t, true, sc["valid"])
}
