package testutil

import (
	"context"
	"fmt"
	"sync"

	mcptypes "github.com/mark3labs/mcp-go/mcp"

	"printlab/model"
	"printlab/ollama"
)

// CompleteCall records one Complete invocation.
type CompleteCall struct {
	Messages []model.Message
	Tools    []mcptypes.Tool
}

// MockProvider implements model.Provider for testing.
type MockProvider struct {
	// Configurable responses
	CompleteFunc   func(ctx context.Context, messages []model.Message, tools []mcptypes.Tool) (model.Message, error)
	ListModelsFunc func(ctx context.Context) ([]ollama.ModelInfo, error)
	PingFunc       func(ctx context.Context) error

	mu           sync.Mutex
	calls        []CompleteCall
	currentModel string
}

// NewMockProvider creates a mock provider that answers every request with
// "Mock response".
func NewMockProvider(modelName string) *MockProvider {
	mock := &MockProvider{currentModel: modelName}
	mock.CompleteFunc = func(ctx context.Context, messages []model.Message, tools []mcptypes.Tool) (model.Message, error) {
		return model.NewAssistantMessage("Mock response"), nil
	}
	mock.ListModelsFunc = func(ctx context.Context) ([]ollama.ModelInfo, error) {
		return []ollama.ModelInfo{
			{Name: "mock-model-1", Size: 1000},
			{Name: "mock-model-2", Size: 2000},
		}, nil
	}
	mock.PingFunc = func(ctx context.Context) error { return nil }
	return mock
}

// NewScriptedProvider returns a mock that replies with the given messages in
// order and fails once the script runs out.
func NewScriptedProvider(replies ...model.Message) *MockProvider {
	mock := NewMockProvider("scripted")
	next := 0
	mock.CompleteFunc = func(ctx context.Context, messages []model.Message, tools []mcptypes.Tool) (model.Message, error) {
		if next >= len(replies) {
			return model.Message{}, fmt.Errorf("scripted provider exhausted after %d replies", len(replies))
		}
		reply := replies[next]
		next++
		return reply, nil
	}
	return mock
}

func (m *MockProvider) Complete(ctx context.Context, messages []model.Message, tools []mcptypes.Tool) (model.Message, error) {
	m.mu.Lock()
	m.calls = append(m.calls, CompleteCall{
		Messages: append([]model.Message(nil), messages...),
		Tools:    append([]mcptypes.Tool(nil), tools...),
	})
	m.mu.Unlock()
	return m.CompleteFunc(ctx, messages, tools)
}

// Calls returns a copy of the recorded Complete invocations.
func (m *MockProvider) Calls() []CompleteCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]CompleteCall(nil), m.calls...)
}

func (m *MockProvider) ListModels(ctx context.Context) ([]ollama.ModelInfo, error) {
	return m.ListModelsFunc(ctx)
}

func (m *MockProvider) GetModel() string {
	return m.currentModel
}

func (m *MockProvider) SetModel(model string) {
	m.currentModel = model
}

func (m *MockProvider) Ping(ctx context.Context) error {
	return m.PingFunc(ctx)
}
