package cmd

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"lottogen/config"
	"lottogen/domain/services"

	"github.com/spf13/cobra"
)

func newAnalyzeCmd() *cobra.Command {
	var (
		years  string
		trials int
		topK   int
		seed   uint64
		rows   int
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Simulate many tickets and report how often each number is picked",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg := config.Get()
			if trials < 1 {
				return fmt.Errorf("--trials must be at least 1, got %d", trials)
			}

			opts := services.DefaultGeneratorOptions()
			opts.TopK = cfg.TopK
			if cmd.Flags().Changed("top-k") {
				opts.TopK = topK
			}
			var seedPtr *uint64
			if cmd.Flags().Changed("seed") {
				seedPtr = &seed
			} else {
				seedPtr = cfg.Seed
			}

			a := buildApp(ctx, cfg, appOptions{})
			defer a.Close()

			from, to := resolveYearRange(years, cfg.StartYear, time.Now().Year())
			history, err := a.workflow.LoadHistory(ctx, from, to)
			if err != nil {
				return err
			}

			generator := services.NewTicketGenerator(services.NewRandomSource(seedPtr), opts)
			report := services.AnalyzeSelection(generator, history.Frequency, trials)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\n=== Selection analysis: %d draws (%d-%d), %d tickets, top-k %d ===\n",
				len(history.Draws), from, to, report.Trials, generator.Options().TopK)
			fmt.Fprintf(out, "Top-k pool share:   %.2f%%\n", report.TopPoolShare()*100)
			fmt.Fprintf(out, "Tickets with runs:  %d\n", report.LongRuns)
			fmt.Fprintf(out, "χ² vs uniform:      %.2f (above 112 means not uniform at 95%% confidence)\n", report.ChiSquaredUniform())
			fmt.Fprintln(out, "\nMost selected numbers:")
			for _, row := range report.MostSelected(rows) {
				fmt.Fprintf(out, "  %2d  %6.2f%%  drawn %d times\n", row.Number, row.Rate*100, history.Frequency.Count(row.Number))
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&years, "years", "", "archive years to read, e.g. 2015-2024")
	flags.IntVar(&trials, "trials", 100000, "number of tickets to simulate")
	flags.IntVar(&topK, "top-k", 0, "size of the high-frequency pool (default TOP_K)")
	flags.Uint64Var(&seed, "seed", 0, "seed for a reproducible simulation")
	flags.IntVar(&rows, "rows", 15, "numbers to list")

	return cmd
}
