package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/ohmybug/ohmybug-bridge/internal/application"
)

// registerTools registers the bridge tools on the given server.
func registerTools(s *server.MCPServer, bridge application.Bridge, defaultPath string) {
	// 1. ohmybug_scan
	s.AddTool(
		mcplib.NewTool("ohmybug_scan",
			mcplib.WithDescription("Scan a project with ohmybug and return {success, output, summary} as JSON"),
			mcplib.WithString("path", mcplib.Description("Project path to scan (defaults to the server's project)")),
			mcplib.WithBoolean("fix", mcplib.Description("Let ohmybug apply automatic fixes")),
		),
		handleScan(bridge, defaultPath),
	)

	// 2. ohmybug_scan_report
	s.AddTool(
		mcplib.NewTool("ohmybug_scan_report",
			mcplib.WithDescription("Scan a project and return ohmybug's markdown report"),
			mcplib.WithString("path", mcplib.Description("Project path to scan (defaults to the server's project)")),
		),
		handleScanReport(bridge, defaultPath),
	)

	// 3. ohmybug_fix
	s.AddTool(
		mcplib.NewTool("ohmybug_fix",
			mcplib.WithDescription("Apply ohmybug's automatic fixes and return the result even when ohmybug reports failure"),
			mcplib.WithString("path", mcplib.Description("Project path to fix (defaults to the server's project)")),
		),
		handleFix(bridge, defaultPath),
	)

	// 4. ohmybug_available
	s.AddTool(
		mcplib.NewTool("ohmybug_available",
			mcplib.WithDescription("Report whether the ohmybug CLI can be found on this machine"),
		),
		handleAvailable(bridge),
	)

	// 5. ohmybug_version
	s.AddTool(
		mcplib.NewTool("ohmybug_version",
			mcplib.WithDescription("Return the installed ohmybug version string"),
		),
		handleVersion(bridge),
	)
}

func pathArg(request mcplib.CallToolRequest, defaultPath string) string {
	if p, _ := request.GetArguments()["path"].(string); p != "" {
		return p
	}
	return defaultPath
}

func handleScan(bridge application.Bridge, defaultPath string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		fix, _ := request.GetArguments()["fix"].(bool)
		result, err := bridge.Scan(ctx, pathArg(request, defaultPath), fix)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return jsonResult(result)
	}
}

func handleScanReport(bridge application.Bridge, defaultPath string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		text, err := bridge.ScanReport(ctx, pathArg(request, defaultPath))
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return textResult(text), nil
	}
}

func handleFix(bridge application.Bridge, defaultPath string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		result, err := bridge.Fix(ctx, pathArg(request, defaultPath))
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return jsonResult(result)
	}
}

func handleAvailable(bridge application.Bridge) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		return jsonResult(map[string]bool{"available": bridge.IsAvailable(ctx)})
	}
}

func handleVersion(bridge application.Bridge) server.ToolHandlerFunc {
	return func(ctx context.Context, _ mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
		v, err := bridge.Version(ctx)
		if err != nil {
			return errorResult(err.Error()), nil
		}
		return textResult(v), nil
	}
}

// jsonResult marshals v to JSON and returns it as a text content result.
func jsonResult(v any) (*mcplib.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(string(data))},
	}, nil
}

func textResult(text string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(text)},
	}
}

// errorResult returns a tool result that indicates an error occurred.
func errorResult(msg string) *mcplib.CallToolResult {
	return &mcplib.CallToolResult{
		Content: []mcplib.Content{mcplib.NewTextContent(msg)},
		IsError: true,
	}
}
