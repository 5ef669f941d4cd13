// Package checksum parses goreleaser-style checksums.txt manifests and
// verifies downloaded files against their SHA-256 digests.
//
// The manifest is the sole source of truth for what the pipeline downloads
// and repackages; parsing performs no deduplication and no filename
// sanitization, matching the published format.
package checksum
