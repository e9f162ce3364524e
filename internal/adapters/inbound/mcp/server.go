package mcp

import (
	"github.com/mark3labs/mcp-go/server"

	"github.com/ohmybug/ohmybug-bridge/internal/application"
)

// NewBridgeMCPServer creates an MCP server exposing the bridge operations as
// tools. defaultPath is scanned when a tool call leaves "path" empty.
func NewBridgeMCPServer(bridge application.Bridge, version, defaultPath string) *server.MCPServer {
	s := server.NewMCPServer(
		"ohmybug-bridge",
		version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
	)

	if defaultPath == "" {
		defaultPath = "."
	}
	registerTools(s, bridge, defaultPath)
	registerResources(s, bridge, defaultPath)

	return s
}
