package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"printlab/config"
)

func (a *app) modelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the models the configured provider offers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.newProvider()
			if err != nil {
				return err
			}
			name := config.ProviderDisplayName(a.cfg.Provider.Type)
			if err := p.Ping(cmd.Context()); err != nil {
				return fmt.Errorf("%s at %s is not reachable: %w", name, a.cfg.ProviderBaseURL(), err)
			}
			models, err := p.ListModels(cmd.Context())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for _, m := range models {
				marker := " "
				if m.InternalName == p.GetModel() || m.Name == p.GetModel() {
					marker = "*"
				}
				fmt.Fprintf(tw, "%s %s\t%s\n", marker, m.Name, sizeLabel(m.Size))
			}
			return tw.Flush()
		},
	}
}

func sizeLabel(bytes int64) string {
	if bytes <= 0 {
		return ""
	}
	return fmt.Sprintf("%.1f GB", float64(bytes)/1e9)
}
