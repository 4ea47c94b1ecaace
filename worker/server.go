// Package worker builds the MCP servers that toolmux spawns as
// subprocesses. Each worker binary serves one or more toolsets over
// stdio and exits when the coordinator closes the pipe.
package worker

import (
	"github.com/mark3labs/mcp-go/server"
)

// Toolset is one group of tools served together by a worker binary.
type Toolset interface {
	Register(srv *server.MCPServer)
}

// NewServer creates an MCP server declaring tool capabilities and
// registers every toolset's tools on it.
func NewServer(name, version string, toolsets ...Toolset) *server.MCPServer {
	srv := server.NewMCPServer(
		name,
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	for _, toolset := range toolsets {
		toolset.Register(srv)
	}

	return srv
}

// Serve runs the worker on stdin/stdout. It returns when the
// coordinator closes the pipe.
func Serve(srv *server.MCPServer) error {
	return server.ServeStdio(srv)
}
