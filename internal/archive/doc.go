// Package archive extracts release artifacts (gzipped tarballs and zip
// archives) into a target directory, preserving file modes and refusing
// entries that would escape it.
package archive
