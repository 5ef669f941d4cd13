package installer

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/hulo-lang/hulo-npm/internal/config"
	"github.com/hulo-lang/hulo-npm/internal/logger"
	"github.com/hulo-lang/hulo-npm/internal/platform"
)

// npmExecutable is the package manager used to install the platform package.
const npmExecutable = "npm"

// Options are inputs accepted by the installer entry point.
type Options struct {
	// ConfigPath is the optional path to the settings YAML file.
	ConfigPath string
}

// Run resolves the host platform and delegates installation of the matching
// package to the package manager. The subprocess inherits stdio, so npm's
// own progress and prompts reach the user directly.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "hulo-setup")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	host := platform.Host()
	packageName := cfg.Scope + "/" + host

	if _, ok := platform.Lookup(host); !ok {
		// Best-effort degradation: let npm decide whether the package exists.
		logger.WarnKV(ctx, "Host platform is not in the support table, trying anyway",
			"platform", host)
	}

	logger.InfoKV(ctx, "Installing platform package",
		"platform", host, "package", packageName)

	cmd := exec.CommandContext(ctx, npmExecutable, "install", "-g", packageName)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err = cmd.Run(); err != nil {
		return fmt.Errorf("install %s: %w", packageName, err)
	}

	logger.InfoKV(ctx, "Installed platform package", "package", packageName)

	return nil
}
