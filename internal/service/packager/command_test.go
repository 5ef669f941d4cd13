package packager

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/require"
)

// stageTarGz writes a release tarball with a compiler binary and stdlib tree
// into the staging directory.
func stageTarGz(t *testing.T, name string, files map[string]string) {
	t.Helper()

	var buf bytes.Buffer

	gzw := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gzw)

	for fileName, content := range files {
		require.NoError(t, tw.WriteHeader(&tar.Header{
			Name:     fileName,
			Mode:     0o755,
			Size:     int64(len(content)),
			Typeflag: tar.TypeReg,
		}))

		_, err := tw.Write([]byte(content))
		require.NoError(t, err)
	}

	require.NoError(t, tw.Close())
	require.NoError(t, gzw.Close())
	require.NoError(t, os.WriteFile(filepath.Join("dist", name), buf.Bytes(), 0o644))
}

// stageZip writes a release zip archive into the staging directory.
func stageZip(t *testing.T, name string, files map[string]string) {
	t.Helper()

	var buf bytes.Buffer

	zw := zip.NewWriter(&buf)

	for fileName, content := range files {
		w, err := zw.Create(fileName)
		require.NoError(t, err)

		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}

	require.NoError(t, zw.Close())
	require.NoError(t, os.WriteFile(filepath.Join("dist", name), buf.Bytes(), 0o644))
}

// stageManifest writes checksums.txt naming the given files. The packager
// does not verify hashes, so placeholder digests are fine.
func stageManifest(t *testing.T, names ...string) {
	t.Helper()

	var buf bytes.Buffer
	for _, name := range names {
		buf.WriteString("deadbeef  " + name + "\n")
	}

	require.NoError(t, os.WriteFile(filepath.Join("dist", "checksums.txt"), buf.Bytes(), 0o644))
}

func setupStaging(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	require.NoError(t, os.MkdirAll("dist", 0o755))
}

// TestRunAssemblesPackage covers the end-to-end single-platform flow:
// extraction, relocation under bin/, and artifact generation.
func TestRunAssemblesPackage(t *testing.T) {
	setupStaging(t)

	stageTarGz(t, "hulo_Darwin_arm64.tar.gz", map[string]string{
		"hulo":         "binary",
		"std/fs/fs.hl": "module fs",
	})
	stageManifest(t, "hulo_Darwin_arm64.tar.gz")

	require.NoError(t, Run(context.Background(), &Options{Version: "v1.2.3"}))

	outputDir := filepath.Join("packages", "hulo-darwin-arm64")

	// Relocated binary and stdlib.
	_, err := os.Stat(filepath.Join(outputDir, "bin", "hulo"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(outputDir, "bin", "std", "fs", "fs.hl"))
	require.NoError(t, err)

	// No duplicates left at the top level.
	_, err = os.Stat(filepath.Join(outputDir, "hulo"))
	require.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(outputDir, "std"))
	require.True(t, os.IsNotExist(err))

	// Generated artifacts.
	data, err := os.ReadFile(filepath.Join(outputDir, "package.json"))
	require.NoError(t, err)

	var manifest map[string]any
	require.NoError(t, json.Unmarshal(data, &manifest))
	require.Equal(t, "@hulo/darwin-arm64", manifest["name"])
	require.Equal(t, "1.2.3", manifest["version"])
	require.Equal(t, []any{"darwin"}, manifest["os"])
	require.Equal(t, []any{"arm64"}, manifest["cpu"])

	_, err = os.Stat(filepath.Join(outputDir, "hulo.js"))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(outputDir, "README.md"))
	require.NoError(t, err)

	// The compressed archive stays in staging.
	_, err = os.Stat(filepath.Join("dist", "hulo_Darwin_arm64.tar.gz"))
	require.NoError(t, err)
}

// TestRunWindowsZip checks the zip path and the .exe suffix for win32 targets.
func TestRunWindowsZip(t *testing.T) {
	setupStaging(t)

	stageZip(t, "hulo_Windows_x86_64.zip", map[string]string{
		"hulo.exe":     "binary",
		"std/fs/fs.hl": "module fs",
	})
	stageManifest(t, "hulo_Windows_x86_64.zip")

	require.NoError(t, Run(context.Background(), &Options{Version: "v1.2.3"}))

	outputDir := filepath.Join("packages", "hulo-windows-x86-64")

	_, err := os.Stat(filepath.Join(outputDir, "bin", "hulo.exe"))
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(outputDir, "package.json"))
	require.NoError(t, err)

	var manifest map[string]any
	require.NoError(t, json.Unmarshal(data, &manifest))
	require.Equal(t, []any{"win32"}, manifest["os"])
	require.Equal(t, []any{"x64"}, manifest["cpu"])
}

// TestRunSkipsAndContinues ensures unmatched names, unknown platforms and
// missing staged files are skipped while later entries still get packaged.
func TestRunSkipsAndContinues(t *testing.T) {
	setupStaging(t)

	stageTarGz(t, "hulo_Linux_x86_64.tar.gz", map[string]string{
		"hulo":         "binary",
		"std/fs/fs.hl": "module fs",
	})
	stageManifest(t,
		"checksums.sig",             // no platform token
		"hulo_Plan9_mips.tar.gz",    // platform not in the table
		"hulo_Darwin_arm64.tar.gz",  // listed but never staged
		"hulo_Linux_x86_64.tar.gz",  // the one that should be packaged
	)

	require.NoError(t, Run(context.Background(), &Options{Version: "v1.2.3"}))

	_, err := os.Stat(filepath.Join("packages", "hulo-linux-x86-64", "bin", "hulo"))
	require.NoError(t, err)

	entries, err := os.ReadDir("packages")
	require.NoError(t, err)
	require.Len(t, entries, 1)
}

// TestRunIdempotent checks two runs over the same staging produce
// byte-identical generated artifacts.
func TestRunIdempotent(t *testing.T) {
	setupStaging(t)

	stageTarGz(t, "hulo_Linux_arm64.tar.gz", map[string]string{
		"hulo":         "binary",
		"std/fs/fs.hl": "module fs",
	})
	stageManifest(t, "hulo_Linux_arm64.tar.gz")

	opts := &Options{Version: "v1.2.3"}
	require.NoError(t, Run(context.Background(), opts))

	outputDir := filepath.Join("packages", "hulo-linux-arm64")
	first := map[string][]byte{}

	for _, name := range []string{"package.json", "hulo.js", "README.md"} {
		data, err := os.ReadFile(filepath.Join(outputDir, name))
		require.NoError(t, err)

		first[name] = data
	}

	require.NoError(t, Run(context.Background(), opts))

	for name, want := range first {
		data, err := os.ReadFile(filepath.Join(outputDir, name))
		require.NoError(t, err)
		require.Equal(t, want, data, name)
	}
}

// TestRunRequiresStaging ensures a missing staging directory is fatal.
func TestRunRequiresStaging(t *testing.T) {
	t.Chdir(t.TempDir())

	err := Run(context.Background(), &Options{Version: "v1.2.3"})
	require.ErrorIs(t, err, errStagingMissing)
}
