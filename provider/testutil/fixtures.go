package testutil

import (
	"encoding/json"
	"time"

	mcptypes "github.com/mark3labs/mcp-go/mcp"

	"printlab/model"
)

// SingleUserMessage returns a single user message for simple tests
func SingleUserMessage(content string) []model.Message {
	return []model.Message{
		{
			Role:      "user",
			Content:   content,
			Timestamp: time.Now(),
		},
	}
}

// ToolRound returns an assistant tool call followed by its tool result.
func ToolRound(callID, sql, result string) []model.Message {
	return []model.Message{
		ToolCallReply(callID, "query_database", map[string]any{"query": sql}),
		model.NewToolMessage(callID, result),
	}
}

// ToolCallReply builds an assistant message requesting a single tool call.
func ToolCallReply(callID, name string, args map[string]any) model.Message {
	raw, _ := json.Marshal(args)
	msg := model.NewAssistantMessage("")
	msg.ToolCalls = []model.ToolCall{{
		ID:           callID,
		Name:         name,
		Arguments:    args,
		RawArguments: string(raw),
	}}
	return msg
}

// TestMCPTools returns sample MCP tools for testing
func TestMCPTools() []mcptypes.Tool {
	return []mcptypes.Tool{
		mcptypes.NewTool("query_database",
			mcptypes.WithDescription("Run a read-only SQL query"),
			mcptypes.WithString("query", mcptypes.Required(), mcptypes.Description("SQL SELECT query")),
		),
		mcptypes.NewTool("get_database_schema",
			mcptypes.WithDescription("List tables and columns"),
		),
	}
}
