package platform

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// TestFromArchiveName covers the release naming convention and its edge cases.
func TestFromArchiveName(t *testing.T) {
	t.Parallel()

	key, ext, ok := FromArchiveName("hulo_Darwin_arm64.tar.gz")
	require.True(t, ok)
	require.Equal(t, "darwin-arm64", key)
	require.Equal(t, ExtTarGz, ext)

	key, ext, ok = FromArchiveName("hulo_Windows_x86_64.zip")
	require.True(t, ok)
	require.Equal(t, "windows-x86-64", key)
	require.Equal(t, ExtZip, ext)

	// Uncompressed artifact still carries a platform token.
	key, ext, ok = FromArchiveName("hulo_Linux_x86_64")
	require.True(t, ok)
	require.Equal(t, "linux-x86-64", key)
	require.Equal(t, ExtNone, ext)

	// No platform token at all.
	_, _, ok = FromArchiveName("checksums.txt")
	require.False(t, ok)

	_, _, ok = FromArchiveName("_Linux_x86_64.tar.gz")
	require.False(t, ok)
}

// TestLookup checks table membership and the descriptor contents used in metadata.
func TestLookup(t *testing.T) {
	t.Parallel()

	d, ok := Lookup("linux-x86-64")
	require.True(t, ok)
	require.Equal(t, "linux", d.OS)
	require.Equal(t, "x64", d.CPU)
	require.NotEmpty(t, d.Description)
	require.NotEmpty(t, d.Keywords)

	d, ok = Lookup("windows-arm64")
	require.True(t, ok)
	require.Equal(t, "win32", d.OS)

	_, ok = Lookup("plan9-mips")
	require.False(t, ok)
}

// TestHostKey verifies the OS/arch lookup tables and raw passthrough.
func TestHostKey(t *testing.T) {
	t.Parallel()

	require.Equal(t, "linux-x86-64", hostKey("linux", "amd64"))
	require.Equal(t, "darwin-arm64", hostKey("darwin", "arm64"))
	require.Equal(t, "windows-x86-64", hostKey("windows", "amd64"))

	// Unrecognized identifiers pass through unmapped.
	require.Equal(t, "freebsd-riscv64", hostKey("freebsd", "riscv64"))
}

// TestExeSuffix checks the target-OS executable suffix rule.
func TestExeSuffix(t *testing.T) {
	t.Parallel()

	require.Equal(t, ".exe", ExeSuffix("win32"))
	require.Empty(t, ExeSuffix("linux"))
	require.Empty(t, ExeSuffix("darwin"))
}
