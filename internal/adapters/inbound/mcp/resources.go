package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/ohmybug/ohmybug-bridge/internal/application"
)

const (
	doctorURI = "ohmybug://doctor"
	reportURI = "ohmybug://report"
)

// registerResources registers the read-only bridge resources.
func registerResources(s *server.MCPServer, bridge application.Bridge, defaultPath string) {
	// ohmybug://doctor - where the CLI was looked for
	s.AddResource(
		mcplib.NewResource(
			doctorURI,
			"Scanner Discovery",
			mcplib.WithResourceDescription("Every candidate location for the ohmybug CLI and whether it is usable"),
			mcplib.WithMIMEType("application/json"),
		),
		handleDoctorResource(bridge),
	)

	// ohmybug://report - markdown report for the server's project
	s.AddResource(
		mcplib.NewResource(
			reportURI,
			"Scan Report",
			mcplib.WithResourceDescription("ohmybug's markdown report for the server's project"),
			mcplib.WithMIMEType("text/markdown"),
		),
		handleReportResource(bridge, defaultPath),
	)
}

func handleDoctorResource(bridge application.Bridge) server.ResourceHandlerFunc {
	return func(ctx context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		data, err := json.MarshalIndent(bridge.Doctor(ctx), "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling doctor report: %w", err)
		}
		return []mcplib.ResourceContents{
			mcplib.TextResourceContents{
				URI:      doctorURI,
				MIMEType: "application/json",
				Text:     string(data),
			},
		}, nil
	}
}

func handleReportResource(bridge application.Bridge, defaultPath string) server.ResourceHandlerFunc {
	return func(ctx context.Context, _ mcplib.ReadResourceRequest) ([]mcplib.ResourceContents, error) {
		text, err := bridge.ScanReport(ctx, defaultPath)
		if err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		return []mcplib.ResourceContents{
			mcplib.TextResourceContents{
				URI:      reportURI,
				MIMEType: "text/markdown",
				Text:     text,
			},
		}, nil
	}
}
