// Package packager turns staged release archives into per-platform npm packages.
//
// For every checksum manifest entry naming a supported platform archive it
// extracts the archive, relocates the compiler binary and stdlib under bin/,
// and renders the package descriptor, launcher stub and readme. Entries are
// processed in manifest order, each inside its own error boundary.
package packager
