// Package cli wires the printlab commands together with cobra.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"printlab/config"
	"printlab/logging"
	"printlab/model"
	"printlab/provider"
	"printlab/tools"
)

// app carries what the subcommands share once the root has run.
type app struct {
	version    string
	configPath string
	dbPath     string
	model      string
	debug      bool
	cfg        *config.Config
}

// NewRootCmd builds the command tree. A fresh tree per call keeps flag state
// out of package globals.
func NewRootCmd(version string) *cobra.Command {
	a := &app{version: version}

	root := &cobra.Command{
		Use:   "printlab",
		Short: "Ask questions about your 3D print history",
		Long: `printlab answers questions about a log of 3D print jobs.

An LLM agent turns your question into read-only SQL against the print_jobs
table, runs it, and explains the result. The same tools are available to
other assistants over MCP.`,
		Version:           version,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	root.SetHelpTemplate(`{{with (or .Long .Short)}}{{. | trimTrailingWhitespaces}}

{{end}}{{if or .Runnable .HasSubCommands}}{{.UsageString}}{{end}}
Quick Start:
  1. Create demo data:   printlab seed
  2. Start chatting:     printlab chat
  3. Or ask once:        printlab ask "Which printer fails most?"
`)

	root.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Config file (default ~/.config/printlab/config.toml)")
	root.PersistentFlags().StringVar(&a.dbPath, "db", "", "SQLite database path (overrides config)")
	root.PersistentFlags().StringVarP(&a.model, "model", "m", "", "Model name (overrides config)")
	root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Enable debug logging")

	root.AddCommand(
		a.chatCmd(),
		a.askCmd(),
		a.modelsCmd(),
		a.seedCmd(),
		a.statsCmd(),
		a.schemaCmd(),
		a.queryCmd(),
		a.samplesCmd(),
		a.voiceCmd(),
		a.mcpCmd(),
		a.configCmd(),
	)
	return root
}

func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.dbPath != "" {
		cfg.Database.Path = a.dbPath
	}
	if a.debug {
		config.Debug = true
		cfg.Log.Level = "debug"
	}
	a.cfg = cfg

	if err := logging.Init(cfg.Log.Level, cfg.LogFile()); err != nil {
		return err
	}
	logging.Debug("Config loaded",
		zap.String("command", cmd.Name()),
		zap.String("provider", cfg.Provider.Type),
		zap.String("db", cfg.DBPath()))
	return nil
}

func (a *app) registry() *tools.Registry {
	return tools.NewRegistry(tools.NewExecutor(a.cfg.DBPath()), a.cfg.Ticket.GitHubToken)
}

func (a *app) configFile() string {
	if a.configPath != "" {
		return a.configPath
	}
	return config.ConfigFilePath()
}

func (a *app) newProvider() (model.Provider, error) {
	p, err := provider.FromConfig(a.cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s provider: %w", config.ProviderDisplayName(a.cfg.Provider.Type), err)
	}
	if a.model != "" {
		p.SetModel(a.model)
	}
	return p, nil
}
