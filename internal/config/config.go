package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds settings shared by the release pipeline binaries.
type Config struct {
	// ReleaseURLTemplate is the release download location with a {version}
	// placeholder, e.g. "https://github.com/hulo-lang/hulo/releases/download/{version}".
	ReleaseURLTemplate string `yaml:"release_url_template"`
	// DistDir is the staging directory populated by hulo-fetch.
	DistDir string `yaml:"dist_dir"`
	// PackagesDir is the output root for generated npm packages.
	PackagesDir string `yaml:"packages_dir"`
	// Scope is the npm scope for generated platform packages.
	Scope string `yaml:"scope"`
	// Workers caps how many archive downloads run at once.
	Workers int `yaml:"workers"`
	// DownloadTimeout is the per-archive network timeout.
	DownloadTimeout time.Duration `yaml:"download_timeout"`
	// ManifestTimeout is the network timeout for fetching checksums.txt.
	ManifestTimeout time.Duration `yaml:"manifest_timeout"`
}

const (
	// DefaultConfigFilename is the default filename for pipeline settings.
	DefaultConfigFilename = "hulo-release-settings.yaml"

	// DefaultReleaseURLTemplate points at the upstream compiler releases.
	DefaultReleaseURLTemplate = "https://github.com/hulo-lang/hulo/releases/download/{version}"

	// DefaultDistDir is where downloaded archives are staged.
	DefaultDistDir = "dist"

	// DefaultPackagesDir is where per-platform packages are assembled.
	DefaultPackagesDir = "packages"

	// DefaultScope is the npm scope of the generated platform packages.
	DefaultScope = "@hulo"

	// DefaultWorkers bounds concurrent archive downloads.
	DefaultWorkers = 4

	// DefaultDownloadTimeout is the per-archive network timeout.
	DefaultDownloadTimeout = 30 * time.Second

	// DefaultManifestTimeout is the checksums.txt network timeout.
	DefaultManifestTimeout = 10 * time.Second

	// DefaultFilePermissions is the default file permission for config files.
	DefaultFilePermissions = 0o600

	// versionPlaceholder is substituted with the release tag in URL templates.
	versionPlaceholder = "{version}"
)

var (
	// errConfigIsNotSet is returned when a nil configuration is provided.
	errConfigIsNotSet = errors.New("configuration is not set")
	// errNoVersionPlaceholder is returned when the URL template cannot carry a release tag.
	errNoVersionPlaceholder = errors.New("release URL template must contain {version}")
)

// Default returns a configuration populated with defaults.
func Default() *Config {
	cfg := new(Config)
	applyDefaults(cfg)

	return cfg
}

// Load reads configuration from the provided path and validates essential fields.
// A missing file is not an error: defaults are returned, so the binaries work
// out of the box without a settings file.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFilename
	}

	contents, err := os.ReadFile(filepath.Clean(path))
	if errors.Is(err, os.ErrNotExist) {
		return Default(), nil
	} else if err != nil {
		return nil, fmt.Errorf("read settings: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(contents, &cfg); err != nil {
		return nil, fmt.Errorf("unmarshal settings: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Save writes the configuration to the provided path.
func Save(path string, cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	if path == "" {
		path = DefaultConfigFilename
	}

	if err := Validate(cfg); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}

	// Restrict permissions.
	if err := os.WriteFile(filepath.Clean(path), data, DefaultFilePermissions); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}

	return nil
}

// Validate checks the provided settings for required fields and formatting,
// filling in defaults for anything left empty.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errConfigIsNotSet
	}

	applyDefaults(cfg)

	if !strings.Contains(cfg.ReleaseURLTemplate, versionPlaceholder) {
		return errNoVersionPlaceholder
	}

	if _, err := url.ParseRequestURI(cfg.ReleaseBaseURL("v0.0.0")); err != nil {
		return fmt.Errorf("invalid release URL template: %w", err)
	}

	return nil
}

// ReleaseBaseURL resolves the URL template for the given release tag.
func (c *Config) ReleaseBaseURL(tag string) string {
	return strings.ReplaceAll(c.ReleaseURLTemplate, versionPlaceholder, tag)
}

func applyDefaults(cfg *Config) {
	if cfg.ReleaseURLTemplate == "" {
		cfg.ReleaseURLTemplate = DefaultReleaseURLTemplate
	}

	if cfg.DistDir == "" {
		cfg.DistDir = DefaultDistDir
	}

	if cfg.PackagesDir == "" {
		cfg.PackagesDir = DefaultPackagesDir
	}

	if cfg.Scope == "" {
		cfg.Scope = DefaultScope
	}

	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}

	if cfg.DownloadTimeout <= 0 {
		cfg.DownloadTimeout = DefaultDownloadTimeout
	}

	if cfg.ManifestTimeout <= 0 {
		cfg.ManifestTimeout = DefaultManifestTimeout
	}
}
