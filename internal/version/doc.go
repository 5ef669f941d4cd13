// Package version exposes build metadata and release tag handling.
//
// Variables Version, Commit, and BuildTime are injected at build time via
// Go ldflags and default to sensible values for local builds. ParseRelease
// validates user-supplied release tags and normalizes them to the forms used
// by download URLs (with "v") and package metadata (without).
package version
