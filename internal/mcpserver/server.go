// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes supp.ai lookups as tools over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/suppai/internal/models"
)

// Backend is the API client surface the tools call.
type Backend interface {
	FetchIndexMeta(ctx context.Context) (*models.IndexMeta, error)
	FetchAgent(ctx context.Context, cui string) (*models.Agent, error)
	SearchForAgents(ctx context.Context, q string, p int) (*models.SearchResponse, error)
	FetchSuggestions(ctx context.Context, q string) (*models.SuggestResponse, error)
	FetchInteractions(ctx context.Context, cui string, p int, filter *string) (*models.InteractionsPage, error)
	FetchInteraction(ctx context.Context, id string) (*models.InteractionDefinition, error)
}

// Server wraps the MCP server with supp.ai tools.
type Server struct {
	mcp     *server.MCPServer
	backend Backend
}

// New creates a new MCP server with all tools registered.
func New(backend Backend, version string) *Server {
	s := &Server{backend: backend}

	s.mcp = server.NewMCPServer(
		"supp.ai",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("search_agents",
		mcp.WithDescription("Search supplements and drugs by name, synonym or brand name."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Search text")),
		mcp.WithNumber("page", mcp.Description("Zero-indexed result page (default 0)")),
	), s.searchAgents)

	s.mcp.AddTool(mcp.NewTool("suggest_agents",
		mcp.WithDescription("Short list of agents whose names start like the query."),
		mcp.WithString("query", mcp.Required(), mcp.Description("Partial name")),
	), s.suggestAgents)

	s.mcp.AddTool(mcp.NewTool("get_agent",
		mcp.WithDescription("Fetch one supplement or drug by its UMLS concept identifier (CUI)."),
		mcp.WithString("cui", mcp.Required(), mcp.Description("Concept identifier, e.g. C0330205")),
	), s.getAgent)

	s.mcp.AddTool(mcp.NewTool("list_interactions",
		mcp.WithDescription("List the agents that interact with an agent, with supporting evidence. "+
			"Read the usage guide via get_usage_guide or the suppai://usage resource before "+
			"presenting results to a person."),
		mcp.WithString("cui", mcp.Required(), mcp.Description("Concept identifier of the agent")),
		mcp.WithNumber("page", mcp.Description("Zero-indexed page (default 0)")),
		mcp.WithString("filter", mcp.Description("Keep only interacting agents whose name contains this text")),
	), s.listInteractions)

	s.mcp.AddTool(mcp.NewTool("get_interaction",
		mcp.WithDescription("Fetch both agents of an interaction and every supporting sentence."),
		mcp.WithString("interaction_id", mcp.Required(), mcp.Description("Interaction identifier, e.g. C0043031-C0330205")),
	), s.getInteraction)

	s.mcp.AddTool(mcp.NewTool("get_index_meta",
		mcp.WithDescription("Index version, interaction and agent counts, and the data update date."),
	), s.getIndexMeta)

	s.mcp.AddTool(mcp.NewTool("get_usage_guide",
		mcp.WithDescription("Returns guidance on interpreting and presenting supp.ai results."),
	), s.getUsageGuide)

	s.mcp.AddResource(
		mcp.NewResource("suppai://usage", "Usage Guide",
			mcp.WithResourceDescription("How to read supp.ai identifiers and evidence, and the medical disclaimer."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readUsageResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func jsonResult(v any, err error) (*mcp.CallToolResult, error) {
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) searchAgents(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(s.backend.SearchForAgents(ctx, query, req.GetInt("page", 0)))
}

func (s *Server) suggestAgents(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := req.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(s.backend.FetchSuggestions(ctx, query))
}

func (s *Server) getAgent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cui, err := req.RequireString("cui")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(s.backend.FetchAgent(ctx, cui))
}

func (s *Server) listInteractions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cui, err := req.RequireString("cui")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var filter *string
	if f := strings.TrimSpace(req.GetString("filter", "")); f != "" {
		filter = &f
	}
	return jsonResult(s.backend.FetchInteractions(ctx, cui, req.GetInt("page", 0), filter))
}

func (s *Server) getInteraction(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("interaction_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(s.backend.FetchInteraction(ctx, id))
}

func (s *Server) getIndexMeta(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.backend.FetchIndexMeta(ctx))
}

func (s *Server) getUsageGuide(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(UsageGuide), nil
}

func (s *Server) readUsageResource(context.Context, mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      "suppai://usage",
			MIMEType: "text/markdown",
			Text:     UsageGuide,
		},
	}, nil
}
