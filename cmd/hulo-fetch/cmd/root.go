package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hulo-lang/hulo-npm/internal/config"
	"github.com/hulo-lang/hulo-npm/internal/logger"
	"github.com/hulo-lang/hulo-npm/internal/service/fetcher"
	"github.com/hulo-lang/hulo-npm/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// logLevel controls console log verbosity.
	logLevel string
	// skipVerify disables checksum verification of downloaded archives.
	skipVerify bool

	// rootCmd represents the base command for downloading release archives.
	rootCmd = &cobra.Command{
		Use:   "hulo-fetch [version]",
		Short: "Download a Hulo compiler release into the staging directory.",
		Long: `Downloads the checksum manifest of a Hulo compiler release and every archive
it references into the staging directory.

The version argument is a release tag like v1.2.3; when omitted, the release
matching this build is fetched. Individual download failures are reported and
skipped; only structural failures (staging directory not resettable, manifest
unreachable) abort the run.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			if level, ok := logger.ParseLogLevel(logLevel); ok {
				logger.SetLevel(level)
			}

			var releaseTag string
			if len(args) > 0 {
				releaseTag = args[0]
			}

			options := &fetcher.Options{
				ConfigPath: configPath,
				Version:    releaseTag,
				SkipVerify: skipVerify,
			}

			return fetcher.Run(ctx, options)
		},
	}
)

// Execute runs the hulo-fetch CLI and exits with non-zero status on error.
func Execute() {
	version.AttachCobraVersionCommand(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Required by Cobra CLI framework architecture.
func init() {
	// Setup command flags with consistent naming and descriptions.
	rootCmd.Flags().StringVarP(&configPath, "config", "c", config.DefaultConfigFilename, "path to configuration file")
	rootCmd.Flags().StringVarP(&logLevel, "log-level", "l", "info", "console log level")
	rootCmd.Flags().BoolVar(&skipVerify, "skip-verify", false, "skip SHA-256 verification of downloads")
}
