package archive

import (
	"archive/tar"
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/hulo-lang/hulo-npm/internal/logger"
	"github.com/hulo-lang/hulo-npm/internal/platform"
)

const defaultDirMode os.FileMode = 0o755

// Extract unpacks the artifact at src into dir according to its packaging
// type. Artifacts without a recognized container are copied into dir verbatim.
func Extract(ctx context.Context, src string, ext platform.Ext, dir string) error {
	switch ext {
	case platform.ExtTarGz:
		file, err := os.Open(filepath.Clean(src))
		if err != nil {
			return fmt.Errorf("open archive: %w", err)
		}

		defer func() {
			_ = file.Close()
		}()

		return Guntar(ctx, file, dir)
	case platform.ExtZip:
		return Unzip(ctx, src, dir)
	case platform.ExtNone:
		return copyFile(src, filepath.Join(dir, filepath.Base(src)))
	default:
		return fmt.Errorf("unsupported packaging type %q", ext)
	}
}

// Guntar is the same as Untar, but it first decodes the gzipped archive.
func Guntar(ctx context.Context, r io.Reader, dir string) error {
	gzp, err := gzip.NewReader(r)
	if err != nil {
		return fmt.Errorf("open gzip stream: %w", err)
	}

	defer func() {
		_ = gzp.Close()
	}()

	return Untar(ctx, gzp, dir)
}

// Untar expands a tar stream into the given directory.
// Entries that would escape the directory are skipped, not extracted.
func Untar(ctx context.Context, r io.Reader, dir string) error {
	tr := tar.NewReader(r)

	for {
		header, err := tr.Next()
		switch {
		case err == io.EOF:
			return nil
		case err != nil:
			return fmt.Errorf("read archive entry: %w", err)
		case header == nil:
			continue
		}

		target, ok := secureJoin(dir, header.Name)
		if !ok {
			logger.WarnKV(ctx, "Skipping archive entry escaping target directory", "entry", header.Name)
			continue
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err = os.MkdirAll(target, defaultDirMode); err != nil {
				return fmt.Errorf("create directory %s: %w", target, err)
			}
		case tar.TypeReg:
			if err = writeFileFrom(tr, target, os.FileMode(header.Mode)); err != nil {
				return err
			}
		}
	}
}

// Unzip expands a zip archive into the given directory.
// Entries that would escape the directory are skipped, not extracted.
func Unzip(ctx context.Context, src, dir string) error {
	reader, err := zip.OpenReader(filepath.Clean(src))
	if err != nil {
		return fmt.Errorf("open zip archive: %w", err)
	}

	defer func() {
		_ = reader.Close()
	}()

	for _, entry := range reader.File {
		target, ok := secureJoin(dir, entry.Name)
		if !ok {
			logger.WarnKV(ctx, "Skipping archive entry escaping target directory", "entry", entry.Name)
			continue
		}

		if entry.FileInfo().IsDir() {
			if err = os.MkdirAll(target, defaultDirMode); err != nil {
				return fmt.Errorf("create directory %s: %w", target, err)
			}

			continue
		}

		if err = unzipFile(entry, target); err != nil {
			return err
		}
	}

	return nil
}

func unzipFile(entry *zip.File, target string) error {
	contents, err := entry.Open()
	if err != nil {
		return fmt.Errorf("open zip entry %s: %w", entry.Name, err)
	}

	defer func() {
		_ = contents.Close()
	}()

	return writeFileFrom(contents, target, entry.Mode())
}

// writeFileFrom materializes one extracted file, creating parent directories
// and preserving the archived file mode.
func writeFileFrom(r io.Reader, target string, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), defaultDirMode); err != nil {
		return fmt.Errorf("create parent directory for %s: %w", target, err)
	}

	file, err := os.OpenFile(filepath.Clean(target), os.O_CREATE|os.O_RDWR|os.O_TRUNC, mode.Perm())
	if err != nil {
		return fmt.Errorf("create file %s: %w", target, err)
	}

	if _, err = io.Copy(file, r); err != nil {
		_ = file.Close()

		return fmt.Errorf("extract file %s: %w", target, err)
	}

	return file.Close()
}

// secureJoin joins an archive entry name onto the extraction directory and
// reports whether the result stays inside it.
func secureJoin(dir, name string) (string, bool) {
	target := filepath.Join(dir, filepath.Clean("/"+name))
	if target != dir && !strings.HasPrefix(target, dir+string(os.PathSeparator)) {
		return "", false
	}

	return target, true
}

// copyFile duplicates src at dst, preserving the source file mode.
func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("stat %s: %w", src, err)
	}

	in, err := os.Open(filepath.Clean(src))
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}

	defer func() {
		_ = in.Close()
	}()

	if err = os.MkdirAll(filepath.Dir(dst), defaultDirMode); err != nil {
		return fmt.Errorf("create parent directory for %s: %w", dst, err)
	}

	out, err := os.OpenFile(filepath.Clean(dst), os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}

	if _, err = io.Copy(out, in); err != nil {
		_ = out.Close()

		return fmt.Errorf("copy %s: %w", dst, err)
	}

	return out.Close()
}
