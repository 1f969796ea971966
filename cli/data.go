package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"printlab/storage"
	"printlab/tools"
)

func (a *app) seedCmd() *cobra.Command {
	var opts storage.SeedOptions

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Recreate print_jobs with synthetic print history",
		Long: `Drops and recreates the print_jobs table and fills it with synthetic
print jobs from the last year. Existing rows are lost.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := a.cfg.DBPath()
			n, err := storage.Seed(cmd.Context(), path, opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created %d print jobs in %s\n", n, path)
			return nil
		},
	}
	cmd.Flags().IntVar(&opts.Rows, "rows", storage.DefaultSeedRows, "Number of print jobs to generate")
	cmd.Flags().Uint64Var(&opts.Seed, "seed", 0, "Random seed (0 picks one)")
	return cmd
}

func (a *app) statsCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show headline print statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stats, err := storage.LoadStats(cmd.Context(), a.cfg.DBPath())
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), stats)
			}
			writeStats(cmd.OutOrStdout(), stats)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print as JSON")
	return cmd
}

func writeStats(w io.Writer, s *storage.Stats) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Total prints\t%d\n", s.TotalPrints)
	fmt.Fprintf(tw, "Success rate\t%.1f%%\n", s.SuccessRate)
	fmt.Fprintf(tw, "Filament used\t%.2f kg\n", s.TotalKg)
	fmt.Fprintf(tw, "Print time\t%.1f h\n", s.TotalHours)
	fmt.Fprintf(tw, "Total cost\t$%.2f\n", s.TotalCost)
	tw.Flush()

	if len(s.ByMaterial) > 0 {
		fmt.Fprintln(w, "\nBy material:")
		for _, m := range s.ByMaterial {
			fmt.Fprintf(tw, "  %s\t%d\n", m.Material, m.Count)
		}
		tw.Flush()
	}
	if len(s.ByPrinter) > 0 {
		fmt.Fprintln(w, "\nSuccess by printer:")
		for _, p := range s.ByPrinter {
			fmt.Fprintf(tw, "  %s\t%.1f%%\n", p.Printer, p.SuccessRate)
		}
		tw.Flush()
	}
}

func (a *app) schemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the database schema as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res := tools.NewExecutor(a.cfg.DBPath()).Describe(cmd.Context())
			if err := writeJSON(cmd.OutOrStdout(), res); err != nil {
				return err
			}
			if !res.Success {
				return fmt.Errorf("schema lookup failed: %s", res.Error)
			}
			return nil
		},
	}
}

func (a *app) queryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "query <sql>",
		Short: "Run a read-only SELECT through the same guard the agent uses",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res := tools.NewExecutor(a.cfg.DBPath()).Execute(cmd.Context(), strings.Join(args, " "))
			if err := writeJSON(cmd.OutOrStdout(), res); err != nil {
				return err
			}
			if !res.Success {
				return fmt.Errorf("query failed: %s", res.Error)
			}
			return nil
		},
	}
}

func (a *app) samplesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "samples [filter]",
		Short: "List the sample questions",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var pattern string
			if len(args) == 1 {
				pattern = args[0]
			}
			matches := tools.MatchSamples(pattern)
			if len(matches) == 0 {
				return fmt.Errorf("no sample matches %q", pattern)
			}
			for _, s := range matches {
				fmt.Fprintf(cmd.OutOrStdout(), "%-24s %s\n", s.Label, s.Text)
			}
			return nil
		},
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
