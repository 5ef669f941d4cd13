package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hulo-lang/hulo-npm/internal/config"
	"github.com/hulo-lang/hulo-npm/internal/logger"
	"github.com/hulo-lang/hulo-npm/internal/service/packager"
	"github.com/hulo-lang/hulo-npm/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// logLevel controls console log verbosity.
	logLevel string

	// rootCmd represents the base command for assembling platform packages.
	rootCmd = &cobra.Command{
		Use:   "hulo-package [version]",
		Short: "Repackage staged release archives into per-platform npm packages.",
		Long: `Reads the checksum manifest from the staging directory populated by
hulo-fetch and assembles one npm package per recognized platform archive:
the compiler binary and stdlib are relocated under bin/, and the package
descriptor, launcher stub and readme are generated from platform metadata.

Entries with unrecognized names or unsupported platforms are skipped. The
version argument must match the fetched release; it defaults to the release
matching this build.`,
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

			options := &packager.Options{
				ConfigPath: configPath,
				Version:    releaseTag,
			}

			return packager.Run(ctx, options)
		},
	}
)

// Execute runs the hulo-package CLI and exits with non-zero status on error.
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
}
