package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/bull/iris-search/internal/catalog"
)

// Server wraps the MCP server with dependencies.
type Server struct {
	server *mcp.Server
}

// Config holds server dependencies.
type Config struct {
	Searcher Searcher
	Catalog  *catalog.Catalog
	Version  string
}

// NewServer creates a configured MCP server with tools registered.
func NewServer(cfg *Config) *Server {
	version := cfg.Version
	if version == "" {
		version = "v0.1.0"
	}
	impl := &mcp.Implementation{
		Name:    "iris-search",
		Version: version,
	}

	server := mcp.NewServer(impl, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search_documents",
		Description: "Answer a question from Jira, Confluence and the IRIS document collections. Returns a summary and the cited sources, most similar first.",
	}, makeSearchHandler(cfg.Searcher))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_collections",
		Description: "List the curated IRIS document collections with their document counts.",
	}, makeListCollectionsHandler(cfg.Catalog))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_collection",
		Description: "Get one IRIS document collection by id, including every document title and description.",
	}, makeGetCollectionHandler(cfg.Catalog))

	return &Server{server: server}
}

// Run starts the server with stdio transport (blocks until client disconnects).
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// MCPServer returns the underlying MCP server instance.
// Used by transport handlers that need to wrap the server.
func (s *Server) MCPServer() *mcp.Server {
	return s.server
}
