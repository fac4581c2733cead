package cmd

import (
	"os/signal"
	"syscall"

	"lottogen/api"
	"lottogen/application"
	"lottogen/config"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve frequencies and ticket generation over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cfg := config.Get()
			if cfg.Environment == "production" {
				gin.SetMode(gin.ReleaseMode)
			}

			// Files are only written by the generate command
			a := buildApp(ctx, cfg, appOptions{})
			defer a.Close()

			worker := application.NewRefreshWorker(a.workflow, a.publisher, cfg.StartYear, cfg.RefreshInterval())
			stopWorker := worker.Start(ctx)
			defer stopWorker()

			server := api.NewServer(api.ServerConfig{
				History:     worker,
				Generator:   a.workflow,
				Runs:        a.runs,
				Metrics:     a.metrics,
				DefaultTopK: cfg.TopK,
			})

			log.WithField("environment", cfg.Environment).Info("lottogen API starting")
			return server.Run(ctx, listenAddr(cmd, cfg, addr))
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default HTTP_ADDR)")

	return cmd
}

// listenAddr prefers the --addr flag over HTTP_ADDR without touching the shared config
func listenAddr(cmd *cobra.Command, cfg *config.Config, addr string) string {
	if cmd.Flags().Changed("addr") {
		return addr
	}
	return cfg.HTTPAddr
}
