package cli

import (
	"github.com/spf13/cobra"

	"printlab/logging"
	"printlab/mcp"
)

func (a *app) mcpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the database tools over MCP on stdio",
		Long: `Runs an MCP server on stdin/stdout exposing query_database,
get_database_schema and create_support_ticket. Stdout carries the protocol,
so logs go to stderr or the configured log file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer logging.Sync()
			return mcp.ServeStdio(mcp.NewServer(a.version, a.registry()))
		},
	}
}
