package version

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

var (
	// Version is the semantic version of the build. It can be overridden via ldflags.
	Version = "0.2.1"
	// Commit is the short git SHA embedded at build time (or "none").
	Commit = "none"
	// BuildTime is the UTC build timestamp embedded at build time.
	BuildTime = "unknown"
)

// Short returns only the semantic version string.
func Short() string {
	return Version
}

// Full returns a human-readable version string with commit and build time.
func Full() string {
	return fmt.Sprintf("version: %s, commit: %s, built at: %s", Version, Commit, BuildTime)
}

// DefaultReleaseTag returns the release tag matching this build,
// in the "vX.Y.Z" form used by the release download URLs.
func DefaultReleaseTag() string {
	return "v" + strings.TrimPrefix(Version, "v")
}

// Release is a validated release identifier.
type Release struct {
	// Tag is the release tag as it appears in download URLs, e.g. "v1.2.3".
	Tag string
	// Number is the bare semantic version used in package metadata, e.g. "1.2.3".
	Number string
}

// ParseRelease validates a release tag and returns both the URL form
// and the bare version number. Both "1.2.3" and "v1.2.3" are accepted.
func ParseRelease(tag string) (Release, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		tag = DefaultReleaseTag()
	}

	parsed, err := semver.NewVersion(strings.TrimPrefix(tag, "v"))
	if err != nil {
		return Release{}, fmt.Errorf("parse release tag %q: %w", tag, err)
	}

	return Release{
		Tag:    "v" + parsed.String(),
		Number: parsed.String(),
	}, nil
}
