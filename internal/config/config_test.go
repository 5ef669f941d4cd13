package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestValidate checks template requirements and default filling.
func TestValidate(t *testing.T) {
	t.Parallel()

	// Empty config is valid and gets defaults.
	cfg := new(Config)
	require.NoError(t, Validate(cfg))
	require.Equal(t, DefaultDistDir, cfg.DistDir)
	require.Equal(t, DefaultWorkers, cfg.Workers)
	require.Equal(t, DefaultScope, cfg.Scope)

	// Template without a version placeholder is rejected.
	cfg = &Config{
		ReleaseURLTemplate: "https://example.com/releases",
	}

	require.Error(t, Validate(cfg))

	// Template that resolves to a bogus URL is rejected.
	cfg = &Config{
		ReleaseURLTemplate: "::{version}::",
	}

	require.Error(t, Validate(cfg))
}

// TestReleaseBaseURL ensures the tag is substituted into the template.
func TestReleaseBaseURL(t *testing.T) {
	t.Parallel()

	cfg := Default()
	require.Equal(t,
		"https://github.com/hulo-lang/hulo/releases/download/v1.2.3",
		cfg.ReleaseBaseURL("v1.2.3"))
}

// TestSaveLoadRoundtrip ensures settings are persisted and loaded back correctly.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "settings.yaml")

	cfg := &Config{
		ReleaseURLTemplate: "https://mirror.local/hulo/{version}",
		DistDir:            "staging",
		Workers:            2,
	}

	require.NoError(t, Save(path, cfg))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg.ReleaseURLTemplate, loaded.ReleaseURLTemplate)
	require.Equal(t, "staging", loaded.DistDir)
	require.Equal(t, 2, loaded.Workers)

	// File exists.
	_, err = os.Stat(path)
	require.NoError(t, err)
}

// TestLoadMissingFile ensures a missing settings file yields defaults.
func TestLoadMissingFile(t *testing.T) {
	t.Parallel()

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	require.Equal(t, DefaultReleaseURLTemplate, cfg.ReleaseURLTemplate)
}
