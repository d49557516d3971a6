package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/modelcontextprotocol/go-sdk/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/macropower/strata/pkg/document"
	"github.com/macropower/strata/pkg/resolve"
	"github.com/macropower/strata/pkg/version"
)

// Server implements the MCP server for strata.
type Server struct {
	svc     *resolve.Service
	server  *mcp.Server
	tracer  trace.Tracer
	address string
}

// NewServer creates a new MCP server instance around svc. An empty address
// selects stdio transport.
func NewServer(address string, svc *resolve.Service) *Server {
	impl := &mcp.Implementation{
		Name:    name,
		Version: version.GetVersion(),
	}

	opts := &mcp.ServerOptions{
		Instructions: instructions,
	}

	s := &Server{
		address: address,
		server:  mcp.NewServer(impl, opts),
		svc:     svc,
		tracer:  otel.Tracer(name),
	}

	s.registerTools()

	return s
}

func eventSchema() *jsonschema.Schema {
	events := make([]any, len(document.AllEvents))
	for i, e := range document.AllEvents {
		events[i] = string(e)
	}

	return &jsonschema.Schema{
		Type:        "string",
		Description: "The interaction event that triggered the request.",
		Enum:        events,
	}
}

// registerTools registers all available tools with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "resolve_context",
		Description: "Resolve the instruction context for a file path and interaction event. Returns the composed instructions, the documents they came from, and any documents dropped under budget pressure.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"path": {
					Type:        "string",
					Description: "The path of the file being edited, relative to the workspace root.",
				},
				"event": eventSchema(),
				"template": {
					Type:        "string",
					Description: "Optional id of a prompt template to layer into the resolution.",
				},
			},
			Required: []string{"path", "event"},
		},
	}, WithTracing(s.tracer, s.handleResolveContext))

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_template",
		Description: "Get a prompt template by id. You MUST use an EXACT id from the list_documents output.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"id": {
					Type:        "string",
					Description: "The id of the prompt template.",
				},
			},
			Required: []string{"id"},
		},
	}, WithTracing(s.tracer, s.handleGetTemplate))

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_documents",
		Description: "List the registered instruction documents with their tiers, sizes, and applicability declarations.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"tier": {
					Type:        "string",
					Description: "Optional tier to filter by.",
				},
			},
		},
	}, WithTracing(s.tracer, s.handleListDocuments))

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "validate_config",
		Description: "Check the registered instruction documents against the token budget. Reports documents that can never fit and mandatory tiers that overflow.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
		},
	}, WithTracing(s.tracer, s.handleValidateConfig))
}

func (s *Server) Server() *mcp.Server {
	return s.server
}

// Serve starts the MCP server.
func (s *Server) Serve(ctx context.Context) error {
	slog.InfoContext(ctx, "starting MCP server", slog.String("address", s.address))

	if s.address == "" {
		err := s.serveStdio(ctx)
		if err != nil {
			return fmt.Errorf("serve Stdio: %w", err)
		}

		return nil
	}

	err := s.serveHTTP()
	if err != nil {
		return fmt.Errorf("serve HTTP: %w", err)
	}

	return nil
}

func (s *Server) serveHTTP() error {
	handler := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return s.server
	}, nil)

	server := &http.Server{
		Addr:    s.address,
		Handler: handler,

		ReadHeaderTimeout: 10 * time.Second,
	}

	err := server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("MCP server failed: %w", err)
	}

	return nil
}

func (s *Server) serveStdio(ctx context.Context) error {
	t := mcp.NewLoggingTransport(mcp.NewStdioTransport(), os.Stderr)

	err := s.server.Run(ctx, t)
	if err != nil {
		return fmt.Errorf("MCP server failed: %w", err)
	}

	return nil
}
