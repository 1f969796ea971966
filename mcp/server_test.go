package mcp

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"printlab/storage"
	"printlab/tools"
)

func newRegistry(t *testing.T) *tools.Registry {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prints.db")
	_, err := storage.Seed(context.Background(), path, storage.SeedOptions{Rows: 40, Seed: 7})
	require.NoError(t, err)
	return tools.NewRegistry(tools.NewExecutor(path), "")
}

func callTool(t *testing.T, inv ToolInvoker, name string, args map[string]any) *mcptypes.CallToolResult {
	t.Helper()
	req := mcptypes.CallToolRequest{}
	req.Params.Name = name
	req.Params.Arguments = args
	res, err := toolHandler(inv, name)(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, res.Content, 1)
	return res
}

func resultText(t *testing.T, res *mcptypes.CallToolResult) map[string]any {
	t.Helper()
	text, ok := res.Content[0].(mcptypes.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(text.Text), &out))
	return out
}

func TestToolHandlerQuery(t *testing.T) {
	reg := newRegistry(t)

	res := callTool(t, reg, tools.ToolQueryDatabase, map[string]any{"query": "SELECT COUNT(*) AS n FROM print_jobs"})
	assert.False(t, res.IsError)

	out := resultText(t, res)
	assert.Equal(t, true, out["success"])
	assert.Equal(t, []any{"n"}, out["columns"])
	assert.Equal(t, []any{[]any{float64(40)}}, out["data"])
}

func TestToolHandlerBlockedQueryIsError(t *testing.T) {
	reg := newRegistry(t)

	res := callTool(t, reg, tools.ToolQueryDatabase, map[string]any{"query": "DELETE FROM print_jobs"})
	assert.True(t, res.IsError)
	assert.Equal(t, "Query must start with SELECT", resultText(t, res)["error"])
}

func TestToolHandlerSchemaWithoutArguments(t *testing.T) {
	reg := newRegistry(t)

	res := callTool(t, reg, tools.ToolGetDatabaseSchema, nil)
	assert.False(t, res.IsError)
	schema, ok := resultText(t, res)["schema"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, schema, "print_jobs")
}

func TestNewServerListsCatalogue(t *testing.T) {
	s := NewServer("test", newRegistry(t))

	resp := s.HandleMessage(context.Background(), json.RawMessage(`{"jsonrpc":"2.0","id":1,"method":"tools/list"}`))
	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded struct {
		Result struct {
			Tools []struct {
				Name string `json:"name"`
			} `json:"tools"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(raw, &decoded))

	names := make([]string, 0, len(decoded.Result.Tools))
	for _, tool := range decoded.Result.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{
		tools.ToolQueryDatabase,
		tools.ToolGetDatabaseSchema,
		tools.ToolCreateSupportTicket,
	}, names)
}

func TestReportsFailure(t *testing.T) {
	assert.False(t, reportsFailure(`{"success":true}`))
	assert.True(t, reportsFailure(`{"success":false,"error":"x"}`))
	assert.False(t, reportsFailure(`{"schema":{}}`))
	assert.True(t, reportsFailure(`not json`))
}
