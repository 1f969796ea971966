package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	mcptypes "github.com/mark3labs/mcp-go/mcp"
	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"

	"printlab/logging"
)

const (
	ToolQueryDatabase       = "query_database"
	ToolGetDatabaseSchema   = "get_database_schema"
	ToolCreateSupportTicket = "create_support_ticket"
)

var definitions = []mcptypes.Tool{
	mcptypes.NewTool(ToolQueryDatabase,
		mcptypes.WithDescription("Run a SQL SELECT query to find data about prints, costs, materials, etc. "+
			"Table is 'print_jobs'. Fields: id, date, model_name, printer_name, material_type, filament_brand, "+
			"weight_used_grams, print_time_hours, success_status, failure_reason, cost_usd, project_category."),
		mcptypes.WithString("query",
			mcptypes.Required(),
			mcptypes.Description("SQL SELECT query"),
		),
	),
	mcptypes.NewTool(ToolGetDatabaseSchema,
		mcptypes.WithDescription("See table fields and types. Useful if you're not sure column names."),
	),
	mcptypes.NewTool(ToolCreateSupportTicket,
		mcptypes.WithDescription("Log a ticket for help with printer issues or failures that need human review."),
		mcptypes.WithString("title",
			mcptypes.Required(),
			mcptypes.Description("Short title (e.g. 'Consistent clogging on Ender 3')"),
		),
		mcptypes.WithString("description",
			mcptypes.Required(),
			mcptypes.Description("Details of the problem"),
		),
	),
}

// Definitions returns the tool catalogue offered to the model.
func Definitions() []mcptypes.Tool {
	out := make([]mcptypes.Tool, len(definitions))
	copy(out, definitions)
	return out
}

// QueryArgs are the arguments of query_database.
type QueryArgs struct {
	Query string `json:"query"`
}

// TicketArgs are the arguments of create_support_ticket.
type TicketArgs struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// ErrorResult reports a dispatch failure that happened before any tool ran.
type ErrorResult struct {
	Success bool      `json:"success"`
	Error   string    `json:"error"`
	Kind    ErrorKind `json:"-"`
}

// Registry dispatches tool calls by name.
type Registry struct {
	executor    *Executor
	ticketToken string
	byName      map[string]mcptypes.Tool
}

// NewRegistry builds a registry that runs queries through exec and files
// tickets with ticketToken (which may be empty).
func NewRegistry(exec *Executor, ticketToken string) *Registry {
	byName := make(map[string]mcptypes.Tool, len(definitions))
	for _, d := range definitions {
		byName[d.Name] = d
	}
	return &Registry{
		executor:    exec,
		ticketToken: ticketToken,
		byName:      byName,
	}
}

func (r *Registry) Definitions() []mcptypes.Tool {
	return Definitions()
}

// Invoke runs the named tool. Unknown tools and malformed arguments come
// back as an ErrorResult rather than an error, so the model can explain the
// failure in its answer. A nil args map means the model's argument blob
// could not be parsed as a JSON object.
func (r *Registry) Invoke(ctx context.Context, name string, args map[string]any) any {
	tool, ok := r.byName[name]
	if !ok {
		logging.Named("tools").Warn("Unknown tool requested", zap.String("tool", name))
		return ErrorResult{Error: "Unknown tool", Kind: KindUnknownTool}
	}

	if err := validateArguments(tool, args); err != nil {
		logging.Named("tools").Warn("Invalid tool arguments", zap.String("tool", name), zap.Error(err))
		return ErrorResult{Error: "Invalid arguments: " + err.Error(), Kind: KindInvalidArguments}
	}

	switch name {
	case ToolQueryDatabase:
		var a QueryArgs
		if err := decodeArguments(args, &a); err != nil {
			return ErrorResult{Error: "Invalid arguments: " + err.Error(), Kind: KindInvalidArguments}
		}
		return r.executor.Execute(ctx, a.Query)

	case ToolGetDatabaseSchema:
		return r.executor.Describe(ctx)

	case ToolCreateSupportTicket:
		var a TicketArgs
		if err := decodeArguments(args, &a); err != nil {
			return ErrorResult{Error: "Invalid arguments: " + err.Error(), Kind: KindInvalidArguments}
		}
		return FileTicket(a.Title, a.Description, r.ticketToken)
	}

	return ErrorResult{Error: "Unknown tool", Kind: KindUnknownTool}
}

// validateArguments checks args against the tool's JSON schema.
func validateArguments(tool mcptypes.Tool, args map[string]any) error {
	if args == nil {
		return fmt.Errorf("arguments must be a JSON object")
	}

	schemaLoader := gojsonschema.NewGoLoader(tool.InputSchema)
	argsLoader := gojsonschema.NewGoLoader(args)

	result, err := gojsonschema.Validate(schemaLoader, argsLoader)
	if err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}

	if !result.Valid() {
		msgs := make([]string, len(result.Errors()))
		for i, e := range result.Errors() {
			msgs[i] = e.String()
		}
		return fmt.Errorf("%s", strings.Join(msgs, "; "))
	}

	return nil
}

func decodeArguments(args map[string]any, v any) error {
	b, err := json.Marshal(args)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}

// EncodeResult serializes a tool result for a tool-result message.
func EncodeResult(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		b, _ = json.Marshal(ErrorResult{Error: fmt.Sprintf("failed to encode result: %v", err)})
	}
	return string(b)
}
