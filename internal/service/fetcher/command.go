package fetcher

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/hulo-lang/hulo-npm/internal/checksum"
	"github.com/hulo-lang/hulo-npm/internal/config"
	"github.com/hulo-lang/hulo-npm/internal/logger"
	"github.com/hulo-lang/hulo-npm/internal/service/common"
	"github.com/hulo-lang/hulo-npm/internal/version"
)

var (
	errPipelineRunning  = errors.New("another pipeline stage is already running")
	errStagingNotEmpty  = errors.New("staging directory is not empty after reset")
	errBadHTTPStatus    = errors.New("unexpected http status")
	errTooManyRedirects = errors.New("stopped after too many redirects")
)

// Options are inputs accepted by the fetcher entry point.
type Options struct {
	// ConfigPath is the optional path to the settings YAML file.
	ConfigPath string
	// Version is the release tag to download (defaults to the build's own release).
	Version string
	// SkipVerify disables SHA-256 verification of downloaded archives.
	SkipVerify bool
}

// runner holds the state for a single fetch execution.
// It is intentionally unexported; call Run(ctx, Options) from callers.
type runner struct {
	cfg        *config.Config
	release    version.Release
	baseURL    string
	client     *http.Client
	skipVerify bool
}

// Run downloads the checksum manifest and every archive it references into
// the staging directory. Per-archive failures are soft; structural failures
// (staging not resettable, manifest unreachable) abort the run.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "hulo-fetch")

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
		logger.ErrorKV(ctx, "Fetcher run failed", "error", err)
		return err
	}

	logger.Info(ctx, "Fetcher completed")

	return nil
}

// newRunner loads configuration and resolves the release to download.
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
		cfg:        cfg,
		release:    release,
		baseURL:    cfg.ReleaseBaseURL(release.Tag),
		client:     newHTTPClient(),
		skipVerify: opts.SkipVerify,
	}, nil
}

// Run executes the fetch workflow:
// 1) Reset the staging directory.
// 2) Download and persist the checksum manifest.
// 3) Download every referenced archive through a bounded worker pool.
// 4) Verify checksums and report the outcome.
func (r *runner) Run(ctx context.Context) error {
	logger.InfoKV(ctx, "Fetching release", "tag", r.release.Tag, "base_url", r.baseURL)

	if err := r.resetStagingDir(ctx); err != nil {
		return fmt.Errorf("reset staging directory: %w", err)
	}

	manifest, err := r.fetchManifest(ctx)
	if err != nil {
		return fmt.Errorf("download checksum manifest: %w", err)
	}

	entries := checksum.Parse(string(manifest))
	if len(entries) == 0 {
		logger.Warn(ctx, "Checksum manifest lists no files")
		return nil
	}

	succeeded, failed := r.downloadAll(ctx, entries)

	logger.InfoKV(ctx, "Download summary",
		"total", len(entries), "succeeded", succeeded, "failed", failed)

	return nil
}

// resetStagingDir forcibly clears and recreates the staging directory, then
// verifies the reset actually took to prevent contamination from a previous run.
func (r *runner) resetStagingDir(ctx context.Context) error {
	dir := r.cfg.DistDir

	logger.InfoKV(ctx, "Resetting staging directory", "path", dir)

	if err := os.RemoveAll(dir); err != nil {
		return err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	leftovers, err := os.ReadDir(dir)
	if err != nil {
		return err
	}

	if len(leftovers) > 0 {
		return fmt.Errorf("%s: %w", dir, errStagingNotEmpty)
	}

	return nil
}

// fetchManifest downloads checksums.txt and persists it verbatim into staging.
func (r *runner) fetchManifest(ctx context.Context) ([]byte, error) {
	reqCtx, cancel := context.WithTimeout(ctx, r.cfg.ManifestTimeout)
	defer cancel()

	data, err := r.getFile(reqCtx, checksum.ManifestFilename)
	if err != nil {
		return nil, err
	}

	target := filepath.Join(r.cfg.DistDir, checksum.ManifestFilename)
	if err = os.WriteFile(target, data, 0o644); err != nil {
		return nil, fmt.Errorf("persist manifest: %w", err)
	}

	logger.InfoKV(ctx, "Saved checksum manifest", "path", target, "bytes", len(data))

	return data, nil
}
