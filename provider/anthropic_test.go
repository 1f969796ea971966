package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"printlab/model"
	"printlab/provider/testutil"
)

func TestAnthropicProviderImplementsInterface(t *testing.T) {
	var _ model.Provider = (*AnthropicProvider)(nil)
}

func TestAnthropicComplete(t *testing.T) {
	var req map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
  "id": "msg_1",
  "type": "message",
  "role": "assistant",
  "model": "claude-sonnet-4-5-20250929",
  "content": [
    {"type": "text", "text": "Let me check."},
    {"type": "tool_use", "id": "toolu_1", "name": "query_database", "input": {"sql": "SELECT 1"}}
  ],
  "stop_reason": "tool_use",
  "usage": {"input_tokens": 10, "output_tokens": 5}
}`))
	}))
	defer srv.Close()

	p, err := NewAnthropicProvider(srv.URL+"/", "test-key", "")
	require.NoError(t, err)

	history := []model.Message{
		model.NewSystemMessage("You are a data analyst"),
		model.NewUserMessage("How many prints?"),
	}
	reply, err := p.Complete(context.Background(), history, testutil.TestMCPTools())
	require.NoError(t, err)

	assert.Equal(t, "Let me check.", reply.Content)
	require.Len(t, reply.ToolCalls, 1)
	assert.Equal(t, "toolu_1", reply.ToolCalls[0].ID)
	assert.Equal(t, "SELECT 1", reply.ToolCalls[0].Arguments["sql"])

	system, ok := req["system"].([]any)
	require.True(t, ok)
	assert.Equal(t, "You are a data analyst", system[0].(map[string]any)["text"])
	assert.Len(t, req["tools"], 2)
	assert.Len(t, req["messages"], 1)
}

func TestConvertToAnthropicMessagesFoldsToolResults(t *testing.T) {
	assistant := model.NewAssistantMessage("")
	assistant.ToolCalls = []model.ToolCall{
		{ID: "a", Name: "query_database", Arguments: map[string]any{"sql": "SELECT 1"}},
		{ID: "b", Name: "describe_schema"},
	}
	history := []model.Message{
		model.NewSystemMessage("sys"),
		model.NewUserMessage("q"),
		assistant,
		model.NewToolMessage("a", `{"success":true}`),
		model.NewToolMessage("b", `{"success":true}`),
	}

	msgs, system := convertToAnthropicMessages(history)
	require.Len(t, system, 1)
	require.Len(t, msgs, 3)

	raw, err := json.Marshal(msgs[2])
	require.NoError(t, err)
	var last map[string]any
	require.NoError(t, json.Unmarshal(raw, &last))
	assert.Equal(t, "user", last["role"])
	assert.Len(t, last["content"], 2)
}
