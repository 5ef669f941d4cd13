package platform

import (
	"path/filepath"
	"runtime"
	"strings"
)

// Ext identifies how a staged release artifact is packaged.
type Ext string

const (
	// ExtTarGz marks gzip-compressed tarballs.
	ExtTarGz Ext = ".tar.gz"
	// ExtZip marks zip archives.
	ExtZip Ext = ".zip"
	// ExtNone marks artifacts that are not in a recognized container
	// and are copied verbatim.
	ExtNone Ext = ""
)

// Descriptor is the static description of one supported platform.
type Descriptor struct {
	// Key is the canonical platform name, e.g. "darwin-arm64".
	Key string
	// OS is the npm "os" constraint for the generated package.
	OS string
	// CPU is the npm "cpu" constraint for the generated package.
	CPU string
	// Description is the human-readable summary used in package metadata.
	Description string
	// Keywords are the npm search keywords for the platform package.
	Keywords []string
}

// descriptors is the only place platform support is declared.
// Platforms missing from this table are skipped, never errored.
//
//nolint:gochecknoglobals // Static build-time table.
var descriptors = map[string]Descriptor{
	"darwin-arm64": {
		Key:         "darwin-arm64",
		OS:          "darwin",
		CPU:         "arm64",
		Description: "Hulo compiler binary for macOS on Apple Silicon",
		Keywords:    []string{"hulo", "compiler", "macos", "arm64"},
	},
	"darwin-x86-64": {
		Key:         "darwin-x86-64",
		OS:          "darwin",
		CPU:         "x64",
		Description: "Hulo compiler binary for macOS on Intel",
		Keywords:    []string{"hulo", "compiler", "macos", "x64"},
	},
	"linux-arm64": {
		Key:         "linux-arm64",
		OS:          "linux",
		CPU:         "arm64",
		Description: "Hulo compiler binary for Linux on ARM64",
		Keywords:    []string{"hulo", "compiler", "linux", "arm64"},
	},
	"linux-x86-64": {
		Key:         "linux-x86-64",
		OS:          "linux",
		CPU:         "x64",
		Description: "Hulo compiler binary for Linux on x64",
		Keywords:    []string{"hulo", "compiler", "linux", "x64"},
	},
	"windows-arm64": {
		Key:         "windows-arm64",
		OS:          "win32",
		CPU:         "arm64",
		Description: "Hulo compiler binary for Windows on ARM64",
		Keywords:    []string{"hulo", "compiler", "windows", "arm64"},
	},
	"windows-x86-64": {
		Key:         "windows-x86-64",
		OS:          "win32",
		CPU:         "x64",
		Description: "Hulo compiler binary for Windows on x64",
		Keywords:    []string{"hulo", "compiler", "windows", "x64"},
	},
}

// hostOSNames maps runtime.GOOS values to canonical platform OS parts.
//
//nolint:gochecknoglobals // Static build-time table.
var hostOSNames = map[string]string{
	"darwin":  "darwin",
	"linux":   "linux",
	"windows": "windows",
}

// hostArchNames maps runtime.GOARCH values to canonical platform CPU parts.
//
//nolint:gochecknoglobals // Static build-time table.
var hostArchNames = map[string]string{
	"amd64": "x86-64",
	"arm64": "arm64",
}

// Lookup returns the descriptor for a canonical platform key.
func Lookup(key string) (Descriptor, bool) {
	d, ok := descriptors[key]

	return d, ok
}

// Keys returns all supported canonical platform keys.
func Keys() []string {
	keys := make([]string, 0, len(descriptors))
	for key := range descriptors {
		keys = append(keys, key)
	}

	return keys
}

// Normalize converts a raw platform token from an archive name into its
// canonical form: lowercase, underscores replaced with hyphens.
func Normalize(raw string) string {
	return strings.ReplaceAll(strings.ToLower(raw), "_", "-")
}

// FromArchiveName extracts the canonical platform key and packaging type
// from a staged filename following the `<prefix>_<PlatformKey>.<ext>`
// release naming convention, e.g. "hulo_Darwin_arm64.tar.gz".
// ok is false when the name carries no platform token at all.
func FromArchiveName(name string) (key string, ext Ext, ok bool) {
	base := name

	switch {
	case strings.HasSuffix(base, string(ExtTarGz)):
		ext = ExtTarGz
		base = strings.TrimSuffix(base, string(ExtTarGz))
	case strings.HasSuffix(base, string(ExtZip)):
		ext = ExtZip
		base = strings.TrimSuffix(base, string(ExtZip))
	default:
		// Uncompressed artifact: strip a single trailing extension, if any.
		ext = ExtNone
		base = strings.TrimSuffix(base, filepath.Ext(base))
	}

	prefix, rest, found := strings.Cut(base, "_")
	if !found || prefix == "" || rest == "" {
		return "", ext, false
	}

	return Normalize(rest), ext, true
}

// Host maps the current operating system and CPU architecture to the
// canonical two-part platform name. Unrecognized identifiers are passed
// through unmapped, so resolution degrades instead of failing.
func Host() string {
	return hostKey(runtime.GOOS, runtime.GOARCH)
}

func hostKey(goos, goarch string) string {
	osName, ok := hostOSNames[goos]
	if !ok {
		osName = goos
	}

	archName, ok := hostArchNames[goarch]
	if !ok {
		archName = goarch
	}

	return osName + "-" + archName
}

// ExeSuffix returns ".exe" for Windows targets and "" elsewhere.
// The argument is the descriptor's OS tag, not the host OS.
func ExeSuffix(osTag string) string {
	if osTag == "win32" {
		return ".exe"
	}

	return ""
}
