package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"printlab/agent"
	"printlab/config"
	"printlab/logging"
	"printlab/model"
	"printlab/ui"
)

func (a *app) chatCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start the interactive chat",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// The alt screen owns stderr, so logs go to a file.
			logFile := a.cfg.LogFile()
			if logFile == "" {
				if err := config.EnsureDir(a.cfg.DataDir()); err != nil {
					return fmt.Errorf("failed to create data directory: %w", err)
				}
				logFile = filepath.Join(a.cfg.DataDir(), "printlab.log")
			}
			if err := logging.Init(a.cfg.Log.Level, logFile); err != nil {
				return err
			}
			defer logging.Sync()

			p, err := a.newProvider()
			if err != nil {
				return err
			}
			ag := agent.New(p, a.registry())
			logging.Info("Chat started",
				zap.String("provider", a.cfg.Provider.Type),
				zap.String("model", p.GetModel()),
				zap.String("db", a.cfg.DBPath()))

			prog := tea.NewProgram(ui.NewChatView(ag, a.cfg.DBPath(), a.version), tea.WithAltScreen())
			if _, err := prog.Run(); err != nil {
				return fmt.Errorf("chat failed: %w", err)
			}
			return nil
		},
	}
}

func (a *app) askCmd() *cobra.Command {
	var showTools bool

	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a single question and print the answer",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer logging.Sync()

			p, err := a.newProvider()
			if err != nil {
				return err
			}
			ag := agent.New(p, a.registry())

			answer, err := ag.Chat(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if showTools {
				for _, m := range ag.History() {
					for _, tc := range m.ToolCalls {
						fmt.Fprintf(out, "→ %s %s\n", tc.Name, tc.RawArguments)
					}
					if m.Role == model.RoleTool {
						fmt.Fprintf(out, "← %s\n", m.Content)
					}
				}
				fmt.Fprintln(out)
			}
			fmt.Fprintln(out, answer)
			return nil
		},
	}
	cmd.Flags().BoolVar(&showTools, "show-tools", false, "Print tool calls and results before the answer")
	return cmd
}
