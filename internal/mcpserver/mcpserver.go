package mcpserver

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the MCP server and registers all codeintel query tools.
type Server struct {
	server   *mcp.Server
	stateDir string
}

// NewServer creates a new MCP server with all codeintel tools registered.
// stateDir is the directory holding the symbol cache and metadata store
// built by a prior `codeintel index` run; tools read from it lazily, so it
// need not exist yet when the server starts.
func NewServer(version, stateDir string) *Server {
	if version == "" {
		version = "dev"
	}
	if stateDir == "" {
		stateDir = ".codeintel"
	}
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    "codeintel",
			Version: version,
		},
		nil,
	)

	s := &Server{server: server, stateDir: stateDir}
	s.registerTools()
	s.registerPrompts()
	return s
}

// Run starts the MCP server over stdio transport.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// registerTools adds every codeintel query tool to the server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "find_symbol",
		Description: describeFindSymbol(),
	}, s.handleFindSymbol)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "find_callers",
		Description: describeFindCallers(),
	}, s.handleFindCallers)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "find_callees",
		Description: describeFindCallees(),
	}, s.handleFindCallees)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "find_implementations",
		Description: describeFindImplementations(),
	}, s.handleFindImplementations)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "impact_of",
		Description: describeImpactOf(),
	}, s.handleImpactOf)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "audit_coverage",
		Description: describeAuditCoverage(),
	}, s.handleAuditCoverage)
}
