// Package agent runs the question-answering conversation over the print log.
//
// An Agent keeps one conversation history seeded with SystemPrompt. Each
// turn gives the model the tool catalogue once; if it asks for tools, every
// call is executed in order and the model is asked once more, without
// tools, for the final answer. There is never a second tool round.
package agent

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	mcptypes "github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"printlab/logging"
	"printlab/model"
	"printlab/tools"
)

const SystemPrompt = `You are a helpful 3D printing analytics assistant. You help makers and engineers understand their print history, filament usage, and printer performance.

## Data Context
You have access to a database table 'print_jobs' with:
- date, model_name, printer_name (e.g. Ender 3, Bambu X1C)
- material_type (PLA, PETG, etc) & filament_brand
- weight_used_grams, print_time_hours, cost_usd
- success_status (1=success, 0=fail), failure_reason (if failed)
- settings: layer_height, infill, nozzle_temp, bed_temp
- project_category (Miniatures, Functional, etc)

## Your Goal
Help the user optimize their printing workflow.
- Analyze failure rates ("Why is my PETG failing?")
- Track costs ("How much did I spend on filament?")
- Compare printers ("Is the Bambu worth it?")

## Rules
1. Use ` + "`query_database`" + ` to get real data. Don't guess.
2. If the user asks for "success rate", calculate it: SUM(success_status) / COUNT(*) * 100.
3. Be practical. If a user has many failures, suggest checking common issues like bed adhesion or nozzle clogs based on the data.
4. Only read data. You cannot print files or modifying settings remotely.

Keep answers concise and friendly, like a fellow maker.`

// ToolInvoker is what the agent needs from tools.Registry.
type ToolInvoker interface {
	Definitions() []mcptypes.Tool
	Invoke(ctx context.Context, name string, args map[string]any) any
}

// Agent holds one conversation. It is not safe for concurrent use.
type Agent struct {
	id           string
	provider     model.Provider
	tools        ToolInvoker
	systemPrompt string
	history      []model.Message
	log          *zap.Logger
}

type Option func(*Agent)

// WithSystemPrompt replaces the default system prompt.
func WithSystemPrompt(prompt string) Option {
	return func(a *Agent) { a.systemPrompt = prompt }
}

// WithID fixes the session ID instead of generating one.
func WithID(id string) Option {
	return func(a *Agent) { a.id = id }
}

func New(p model.Provider, inv ToolInvoker, opts ...Option) *Agent {
	a := &Agent{
		id:           uuid.New().String(),
		provider:     p,
		tools:        inv,
		systemPrompt: SystemPrompt,
	}
	for _, opt := range opts {
		opt(a)
	}
	a.log = logging.Named("agent").With(zap.String("session", a.id))
	a.history = []model.Message{model.NewSystemMessage(a.systemPrompt)}
	a.log.Info("Agent loaded", zap.String("model", p.GetModel()))
	return a
}

func (a *Agent) ID() string {
	return a.id
}

// Model reports the provider's active model.
func (a *Agent) Model() string {
	return a.provider.GetModel()
}

// History returns a copy of the conversation so far.
func (a *Agent) History() []model.Message {
	out := make([]model.Message, len(a.history))
	copy(out, a.history)
	return out
}

// Reset drops everything but the system message.
func (a *Agent) Reset() {
	a.history = []model.Message{model.NewSystemMessage(a.systemPrompt)}
	a.log.Info("History cleared")
}

// Chat runs one turn and returns the assistant's final text.
//
// A provider failure is returned as an error. Messages appended before the
// failure, including the user's, stay in the history.
func (a *Agent) Chat(ctx context.Context, text string) (string, error) {
	a.log.Info("User message", zap.String("text", text))
	a.history = append(a.history, model.NewUserMessage(text))

	reply, err := a.provider.Complete(ctx, a.history, a.tools.Definitions())
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if reply.HasToolCalls() {
		a.log.Info("Tools called", zap.Int("count", len(reply.ToolCalls)))
		a.history = append(a.history, reply)

		for _, call := range reply.ToolCalls {
			a.log.Info("Exec tool", zap.String("tool", call.Name), zap.Any("args", call.Arguments))
			result := a.tools.Invoke(ctx, call.Name, call.Arguments)
			a.history = append(a.history, model.NewToolMessage(call.ID, tools.EncodeResult(result)))
		}

		reply, err = a.provider.Complete(ctx, a.history, nil)
		if err != nil {
			return "", fmt.Errorf("follow-up completion failed: %w", err)
		}
		if reply.HasToolCalls() {
			a.log.Warn("Ignoring tool calls on follow-up", zap.Int("count", len(reply.ToolCalls)))
		}
	}

	final := model.NewAssistantMessage(reply.Content)
	a.history = append(a.history, final)
	a.log.Info("Response", zap.String("text", preview(final.Content, 50)))
	return final.Content, nil
}

func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
