package cmd

import (
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"lottogen/application"
	"lottogen/config"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type generateOptions struct {
	years     string
	count     int
	topK      int
	seed      uint64
	outputDir string
}

func (o *generateOptions) bindFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVar(&o.years, "years", "", "archive years to read, e.g. 2015-2024 (default START_YEAR to current year)")
	flags.IntVar(&o.count, "count", 0, "number of tickets to generate (default TICKET_COUNT)")
	flags.IntVar(&o.topK, "top-k", 0, "size of the high-frequency pool (default TOP_K)")
	flags.Uint64Var(&o.seed, "seed", 0, "seed for reproducible tickets (default SEED or random)")
	flags.StringVar(&o.outputDir, "out", "", "directory for the exported files (default OUTPUT_DIR)")
}

func newGenerateCmd() *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Download the draw archives and generate tickets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, opts)
		},
	}
	opts.bindFlags(cmd)

	return cmd
}

// request merges the flags over the configuration
func (o *generateOptions) request(cmd *cobra.Command, cfg *config.Config, now time.Time) application.GenerationRequest {
	from, to := resolveYearRange(o.years, cfg.StartYear, now.Year())

	req := application.GenerationRequest{
		FromYear: from,
		ToYear:   to,
		Count:    cfg.TicketCount,
		TopK:     cfg.TopK,
		Seed:     cfg.Seed,
	}
	if cmd.Flags().Changed("count") {
		req.Count = o.count
	}
	if cmd.Flags().Changed("top-k") {
		req.TopK = o.topK
	}
	if cmd.Flags().Changed("seed") {
		seed := o.seed
		req.Seed = &seed
	}
	return req
}

func runGenerate(cmd *cobra.Command, opts *generateOptions) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Get()
	req := opts.request(cmd, cfg, time.Now())

	outputDir := cfg.OutputDir
	if opts.outputDir != "" {
		outputDir = opts.outputDir
	}

	a := buildApp(ctx, cfg, appOptions{outputDir: outputDir})
	defer a.Close()

	log.WithFields(log.Fields{
		"from_year": req.FromYear,
		"to_year":   req.ToYear,
	}).Info("Downloading draw archives")

	run, err := a.workflow.Run(ctx, req)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "\n%d schedine generate:\n", run.Produced())
	for i, ticket := range run.Tickets {
		fmt.Fprintf(out, "Schedina %d: %s\n", i+1, ticket)
	}

	log.WithFields(log.Fields{
		"run_id": run.ID,
		"draws":  run.DrawCount,
		"output": outputDir,
	}).Info("Tickets saved")
	return nil
}

