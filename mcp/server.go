package mcp

import (
	"context"
	"encoding/json"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"printlab/logging"
	"printlab/tools"
)

const ServerName = "printlab"

// ToolInvoker is the slice of tools.Registry the server needs.
type ToolInvoker interface {
	Definitions() []mcptypes.Tool
	Invoke(ctx context.Context, name string, args map[string]any) any
}

// NewServer exposes every tool of the invoker over MCP. Each call returns the
// same JSON document the chat agent would see, flagged as an error result
// when its "success" field is false.
func NewServer(version string, inv ToolInvoker) *server.MCPServer {
	s := server.NewMCPServer(ServerName, version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	)
	for _, def := range inv.Definitions() {
		s.AddTool(def, toolHandler(inv, def.Name))
	}
	return s
}

// ServeStdio blocks serving MCP over stdin/stdout. Nothing else may write to
// stdout while it runs.
func ServeStdio(s *server.MCPServer) error {
	logging.Named("mcp").Info("MCP server ready on stdio")
	return server.ServeStdio(s)
}

func toolHandler(inv ToolInvoker, name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcptypes.CallToolRequest) (*mcptypes.CallToolResult, error) {
		args := req.GetArguments()
		if args == nil {
			args = map[string]any{}
		}
		logging.Named("mcp").Debug("Tool call", zap.String("tool", name))

		encoded := tools.EncodeResult(inv.Invoke(ctx, name, args))
		result := mcptypes.NewToolResultText(encoded)
		result.IsError = reportsFailure(encoded)
		return result, nil
	}
}

func reportsFailure(encoded string) bool {
	var probe struct {
		Success *bool `json:"success"`
	}
	if err := json.Unmarshal([]byte(encoded), &probe); err != nil {
		return true
	}
	return probe.Success != nil && !*probe.Success
}
