package packager

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hulo-lang/hulo-npm/internal/archive"
	"github.com/hulo-lang/hulo-npm/internal/checksum"
	"github.com/hulo-lang/hulo-npm/internal/config"
	"github.com/hulo-lang/hulo-npm/internal/logger"
	"github.com/hulo-lang/hulo-npm/internal/npm"
	"github.com/hulo-lang/hulo-npm/internal/platform"
	"github.com/hulo-lang/hulo-npm/internal/service/common"
	"github.com/hulo-lang/hulo-npm/internal/version"
)

const (
	// outputPrefix names per-platform package directories, e.g. "hulo-darwin-arm64".
	outputPrefix = "hulo-"

	// binDirName is the subdirectory holding the relocated binary and stdlib.
	binDirName = "bin"

	// stdDirName is the compiler's support-file tree inside each archive.
	stdDirName = "std"
)

var (
	errPipelineRunning = errors.New("another pipeline stage is already running")
	errStagingMissing  = errors.New("staging directory not found, run hulo-fetch first")
	errNoExecutable    = errors.New("extracted archive carries no compiler executable")
)

// Options are inputs accepted by the packager entry point.
type Options struct {
	// ConfigPath is the optional path to the settings YAML file.
	ConfigPath string
	// Version is the release tag being packaged (defaults to the build's own release).
	Version string
}

// runner holds the state for a single packaging execution.
type runner struct {
	cfg     *config.Config
	release version.Release
}

// Run assembles one npm package per recognized platform archive found in the
// staging directory. Per-entry failures are soft; a missing staging directory
// or unreadable manifest aborts the run.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "hulo-package")

	if common.IsPipelineRunning(ctx) {
		return errPipelineRunning
	}

	if err := common.AcquireMarker(); err != nil {
		return fmt.Errorf("acquire run marker: %w", err)
	}

	defer common.ReleaseMarker()

	r, err := newRunner(opts)
	if err != nil {
		return err
	}

	if err = r.Run(ctx); err != nil {
		logger.ErrorKV(ctx, "Packager run failed", "error", err)
		return err
	}

	logger.Info(ctx, "Packager completed")

	return nil
}

// newRunner loads configuration and resolves the release being packaged.
func newRunner(opts *Options) (*runner, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	release, err := version.ParseRelease(opts.Version)
	if err != nil {
		return nil, err
	}

	return &runner{
		cfg:     cfg,
		release: release,
	}, nil
}

// Run executes the packaging workflow:
// 1) Re-read the checksum manifest from staging (the stages communicate only
// through the filesystem).
// 2) For each entry, extract, relocate and render inside a per-entry error
// boundary, so one broken archive never aborts the others.
func (r *runner) Run(ctx context.Context) error {
	if _, err := os.Stat(r.cfg.DistDir); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%s: %w", r.cfg.DistDir, errStagingMissing)
		}

		return fmt.Errorf("stat staging directory: %w", err)
	}

	manifestPath := filepath.Join(r.cfg.DistDir, checksum.ManifestFilename)

	contents, err := os.ReadFile(filepath.Clean(manifestPath))
	if err != nil {
		return fmt.Errorf("read checksum manifest: %w", err)
	}

	entries := checksum.Parse(string(contents))

	logger.InfoKV(ctx, "Packaging release",
		"tag", r.release.Tag, "manifest_entries", len(entries))

	var packaged, skipped, failed int

	for _, entry := range entries {
		ok, err := r.processEntry(ctx, entry)

		switch {
		case err != nil:
			failed++

			logger.WarnKV(ctx, "Packaging entry failed",
				"file", entry.Filename, "error", err)
		case ok:
			packaged++
		default:
			skipped++
		}
	}

	logger.InfoKV(ctx, "Packaging summary",
		"packaged", packaged, "skipped", skipped, "failed", failed)

	return nil
}

// processEntry builds the platform package for one manifest entry.
// It reports (false, nil) for entries that are skipped by design:
// unrecognized filename patterns, unsupported platforms, missing staged files.
func (r *runner) processEntry(ctx context.Context, entry checksum.Entry) (bool, error) {
	key, ext, ok := platform.FromArchiveName(entry.Filename)
	if !ok {
		logger.InfoKV(ctx, "Skipping file without platform token", "file", entry.Filename)
		return false, nil
	}

	descriptor, ok := platform.Lookup(key)
	if !ok {
		logger.InfoKV(ctx, "Skipping unsupported platform", "file", entry.Filename, "platform", key)
		return false, nil
	}

	staged := filepath.Join(r.cfg.DistDir, entry.Filename)
	if _, err := os.Stat(staged); err != nil {
		logger.WarnKV(ctx, "Staged file missing, skipping", "file", entry.Filename)
		return false, nil
	}

	outputDir := filepath.Join(r.cfg.PackagesDir, outputPrefix+descriptor.Key)

	logger.InfoKV(ctx, "Assembling platform package",
		"platform", descriptor.Key, "output", outputDir)

	// Each run regenerates the package from scratch.
	if err := os.RemoveAll(outputDir); err != nil {
		return false, fmt.Errorf("clear output directory: %w", err)
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return false, fmt.Errorf("create output directory: %w", err)
	}

	if err := archive.Extract(ctx, staged, ext, outputDir); err != nil {
		return false, fmt.Errorf("extract archive: %w", err)
	}

	executable := npm.BinaryName + platform.ExeSuffix(descriptor.OS)
	if err := r.relocate(ctx, outputDir, executable); err != nil {
		return false, err
	}

	if err := r.renderArtifacts(outputDir, descriptor, executable); err != nil {
		return false, err
	}

	return true, nil
}

// renderArtifacts writes the three generated files of a platform package.
func (r *runner) renderArtifacts(outputDir string, descriptor platform.Descriptor, executable string) error {
	manifest := npm.BuildManifest(descriptor, r.cfg.Scope, r.release.Number)

	if err := manifest.WriteManifest(outputDir); err != nil {
		return err
	}

	if err := npm.WriteLauncher(outputDir, executable); err != nil {
		return err
	}

	return npm.WriteReadme(outputDir, manifest.Name, descriptor.Description, r.release.Number)
}
