package cmd

import (
	"os"

	"lottogen/config"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the lottogen command tree. Running it without a
// subcommand generates tickets.
func NewRootCmd() *cobra.Command {
	genOpts := &generateOptions{}

	rootCmd := &cobra.Command{
		Use:           "lottogen",
		Short:         "SuperEnalotto ticket generator driven by historical draw frequencies",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			setupLogging(config.Get().LogLevel)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd, genOpts)
		},
	}

	genOpts.bindFlags(rootCmd)

	rootCmd.AddCommand(
		newGenerateCmd(),
		newServeCmd(),
		newMigrateCmd(),
		newAnalyzeCmd(),
	)

	return rootCmd
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		log.WithError(err).Error("Command failed")
		os.Exit(1)
	}
}

func setupLogging(level string) {
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05",
	})

	parsed, err := log.ParseLevel(level)
	if err != nil {
		log.WithField("level", level).Warn("Unknown log level, using info")
		parsed = log.InfoLevel
	}
	log.SetLevel(parsed)
}
