package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ManifestFilename is the checksum manifest published alongside each release.
const ManifestFilename = "checksums.txt"

// sha256HexLength is the length of a hex-encoded SHA-256 digest.
const sha256HexLength = sha256.Size * 2

// ErrMismatch is returned when a file's digest differs from the manifest.
var ErrMismatch = errors.New("checksum mismatch")

// Entry is one record of the checksum manifest: a digest and the file it covers.
type Entry struct {
	// Hash is the digest exactly as it appears in the manifest.
	Hash string
	// Filename is the rest of the line, so names with embedded spaces survive.
	Filename string
}

// Verifiable reports whether the entry's hash looks like a SHA-256 digest
// this package can check. Manifests using other schemes still parse; their
// entries simply cannot be verified.
func (e Entry) Verifiable() bool {
	if len(e.Hash) != sha256HexLength {
		return false
	}

	_, err := hex.DecodeString(e.Hash)

	return err == nil
}

// Parse turns a checksum manifest into its entries, preserving input order.
// Blank lines and lines with fewer than two whitespace-separated tokens are
// dropped. The first token is the hash, the remainder of the line
// (whitespace rejoined) is the filename. Duplicates are kept as-is.
func Parse(text string) []Entry {
	lines := strings.Split(text, "\n")
	entries := make([]Entry, 0, len(lines))

	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		tokens := strings.Fields(line)
		if len(tokens) < 2 {
			continue
		}

		entries = append(entries, Entry{
			Hash:     tokens[0],
			Filename: strings.Join(tokens[1:], " "),
		})
	}

	return entries
}

// FileDigest streams the file through SHA-256 and returns the hex digest.
func FileDigest(path string) (string, error) {
	file, err := os.Open(filepath.Clean(path))
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}

	defer func() {
		_ = file.Close()
	}()

	hasher := sha256.New()
	if _, err = io.Copy(hasher, file); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// VerifyFile compares the file's SHA-256 digest against the expected hex hash.
// The comparison is case-insensitive; a difference yields ErrMismatch.
func VerifyFile(path, expected string) error {
	actual, err := FileDigest(path)
	if err != nil {
		return err
	}

	if !strings.EqualFold(actual, expected) {
		return fmt.Errorf("%s: expected %s, got %s: %w", path, expected, actual, ErrMismatch)
	}

	return nil
}
