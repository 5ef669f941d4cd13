package version

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestVersionStrings ensures Short and Full return non-empty consistent information.
func TestVersionStrings(t *testing.T) {
	t.Parallel()

	require.NotEmpty(t, Short())
	require.Contains(t, Full(), Short())
}

// TestParseRelease checks tag normalization with and without the "v" prefix.
func TestParseRelease(t *testing.T) {
	t.Parallel()

	release, err := ParseRelease("v1.2.3")
	require.NoError(t, err)
	require.Equal(t, "v1.2.3", release.Tag)
	require.Equal(t, "1.2.3", release.Number)

	release, err = ParseRelease("1.2.3")
	require.NoError(t, err)
	require.Equal(t, "v1.2.3", release.Tag)
	require.Equal(t, "1.2.3", release.Number)

	// Empty input falls back to the build's own release.
	release, err = ParseRelease("")
	require.NoError(t, err)
	require.Equal(t, DefaultReleaseTag(), release.Tag)

	_, err = ParseRelease("not-a-version")
	require.Error(t, err)
}
