package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/hulo-lang/hulo-npm/internal/config"
	"github.com/hulo-lang/hulo-npm/internal/logger"
	"github.com/hulo-lang/hulo-npm/internal/service/installer"
	"github.com/hulo-lang/hulo-npm/internal/version"
)

var (
	// configPath to the configuration YAML file.
	configPath string
	// logLevel controls console log verbosity.
	logLevel string

	// rootCmd represents the base command for installing the host's platform package.
	rootCmd = &cobra.Command{
		Use:   "hulo-setup",
		Short: "Install the Hulo compiler package matching this machine.",
		Long: `Detects the host operating system and CPU architecture, maps them to a
canonical platform name, and installs the matching @hulo platform package
globally via npm. Unrecognized host identifiers are passed through unmapped,
leaving the final decision to the package manager.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			// Setup graceful shutdown handling.
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
			defer stop()

			if level, ok := logger.ParseLogLevel(logLevel); ok {
				logger.SetLevel(level)
			}

			options := &installer.Options{
				ConfigPath: configPath,
			}

			return installer.Run(ctx, options)
		},
	}
)

// Execute runs the hulo-setup CLI and exits with non-zero status on error.
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
