package packager

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hulo-lang/hulo-npm/internal/logger"
)

// relocate moves the extracted executable and the stdlib tree from the
// package root into bin/, leaving no duplicates at the top level.
func (r *runner) relocate(ctx context.Context, outputDir, executable string) error {
	binDir := filepath.Join(outputDir, binDirName)
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("create bin directory: %w", err)
	}

	exeSrc := filepath.Join(outputDir, executable)
	if _, err := os.Stat(exeSrc); err != nil {
		return fmt.Errorf("%s: %w", executable, errNoExecutable)
	}

	if err := moveEntry(exeSrc, filepath.Join(binDir, executable)); err != nil {
		return fmt.Errorf("relocate executable: %w", err)
	}

	stdSrc := filepath.Join(outputDir, stdDirName)
	if _, err := os.Stat(stdSrc); err != nil {
		// Older releases shipped the binary alone.
		logger.WarnKV(ctx, "Archive has no stdlib tree", "path", stdSrc)
		return nil
	}

	if err := moveEntry(stdSrc, filepath.Join(binDir, stdDirName)); err != nil {
		return fmt.Errorf("relocate stdlib tree: %w", err)
	}

	return nil
}

// moveEntry renames src to dst, falling back to copy+delete only when the
// rename fails (e.g. crossing filesystem boundaries). The rename path is
// atomic, so an interrupted run cannot leave both copies behind.
func moveEntry(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	info, err := os.Stat(src)
	if err != nil {
		return err
	}

	if info.IsDir() {
		if err = os.CopyFS(dst, os.DirFS(src)); err != nil {
			return fmt.Errorf("copy %s: %w", src, err)
		}
	} else {
		if err = copyRegularFile(src, dst, info.Mode()); err != nil {
			return err
		}
	}

	return os.RemoveAll(src)
}

func copyRegularFile(src, dst string, mode os.FileMode) error {
	contents, err := os.ReadFile(filepath.Clean(src))
	if err != nil {
		return fmt.Errorf("read %s: %w", src, err)
	}

	if err = os.WriteFile(filepath.Clean(dst), contents, mode.Perm()); err != nil {
		return fmt.Errorf("write %s: %w", dst, err)
	}

	return nil
}
