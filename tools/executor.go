package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"printlab/logging"
	"printlab/storage"
)

// MaxRows caps how many rows a query returns to the model.
const MaxRows = 50

// ErrorKind classifies a recovered tool failure.
type ErrorKind string

const (
	KindPolicyViolation  ErrorKind = "policy_violation"
	KindExecutionError   ErrorKind = "execution_error"
	KindUnknownTool      ErrorKind = "unknown_tool"
	KindInvalidArguments ErrorKind = "invalid_arguments"
)

// QueryResult is what query_database hands back to the model.
type QueryResult struct {
	Success   bool
	Columns   []string
	Data      [][]any
	Count     int
	Truncated bool
	Error     string
	Kind      ErrorKind
}

// MarshalJSON emits only success and error for failed queries so the
// model is not shown empty columns and rows.
func (r QueryResult) MarshalJSON() ([]byte, error) {
	if !r.Success {
		return json.Marshal(struct {
			Success bool   `json:"success"`
			Error   string `json:"error"`
		}{false, r.Error})
	}

	data := r.Data
	if data == nil {
		data = [][]any{}
	}
	return json.Marshal(struct {
		Success   bool     `json:"success"`
		Data      [][]any  `json:"data"`
		Columns   []string `json:"columns"`
		Count     int      `json:"count"`
		Truncated bool     `json:"truncated"`
	}{true, data, r.Columns, r.Count, r.Truncated})
}

type ColumnInfo struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type TableInfo struct {
	Columns []ColumnInfo `json:"columns"`
	Rows    int64        `json:"rows"`
}

// SchemaResult is what get_database_schema hands back to the model.
type SchemaResult struct {
	Success bool                 `json:"success"`
	Schema  map[string]TableInfo `json:"schema,omitempty"`
	Error   string               `json:"error,omitempty"`
}

// Executor runs guarded read-only queries against the print log database.
// It opens the database per call and holds no connection between calls.
type Executor struct {
	dbPath string
}

func NewExecutor(dbPath string) *Executor {
	return &Executor{dbPath: dbPath}
}

func (e *Executor) DBPath() string {
	return e.dbPath
}

// Execute validates sql with the guard and, if accepted, runs it and
// returns at most MaxRows rows. Every failure is reported in the result;
// Execute never returns an error to its caller.
func (e *Executor) Execute(ctx context.Context, sql string) QueryResult {
	log := logging.Named("tools")
	log.Info("Running SQL", zap.String("sql", sql))

	if ok, reason := Validate(sql); !ok {
		log.Warn("Query blocked", zap.String("reason", reason))
		return QueryResult{Error: reason, Kind: KindPolicyViolation}
	}

	res, err := e.run(ctx, sql)
	if err != nil {
		log.Error("SQL Error", zap.Error(err))
		return QueryResult{Error: err.Error(), Kind: KindExecutionError}
	}
	return res
}

func (e *Executor) run(ctx context.Context, sql string) (QueryResult, error) {
	db, err := storage.OpenReadOnly(ctx, e.dbPath)
	if err != nil {
		return QueryResult{}, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, sql)
	if err != nil {
		return QueryResult{}, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return QueryResult{}, err
	}

	var data [][]any
	for rows.Next() {
		vals := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range vals {
			ptrs[i] = &vals[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return QueryResult{}, err
		}
		for i, v := range vals {
			// TEXT can come back as []byte, which would marshal as base64.
			if b, ok := v.([]byte); ok {
				vals[i] = string(b)
			}
		}
		data = append(data, vals)
	}
	if err := rows.Err(); err != nil {
		return QueryResult{}, err
	}

	truncated := false
	if len(data) > MaxRows {
		data = data[:MaxRows]
		truncated = true
	}

	return QueryResult{
		Success:   true,
		Columns:   cols,
		Data:      data,
		Count:     len(data),
		Truncated: truncated,
	}, nil
}

// Describe lists every table with its columns and row count.
func (e *Executor) Describe(ctx context.Context) SchemaResult {
	schema, err := e.describe(ctx)
	if err != nil {
		logging.Named("tools").Error("Schema introspection failed", zap.Error(err))
		return SchemaResult{Error: err.Error()}
	}
	return SchemaResult{Success: true, Schema: schema}
}

func (e *Executor) describe(ctx context.Context) (map[string]TableInfo, error) {
	db, err := storage.OpenReadOnly(ctx, e.dbPath)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	tables, err := listTables(ctx, db)
	if err != nil {
		return nil, err
	}

	schema := make(map[string]TableInfo, len(tables))
	for _, t := range tables {
		cols, err := tableColumns(ctx, db, t)
		if err != nil {
			return nil, err
		}

		var n int64
		if err := db.QueryRowContext(ctx, fmt.Sprintf("SELECT count(*) FROM %s", quoteIdent(t))).Scan(&n); err != nil {
			return nil, fmt.Errorf("failed to count rows in %s: %w", t, err)
		}

		schema[t] = TableInfo{Columns: cols, Rows: n}
	}
	return schema, nil
}
