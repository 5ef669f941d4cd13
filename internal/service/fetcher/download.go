package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/hulo-lang/hulo-npm/internal/checksum"
	"github.com/hulo-lang/hulo-npm/internal/logger"
)

const (
	// maxRedirects caps redirect following when talking to the release host.
	maxRedirects = 5

	// userAgent is sent with every request; the release host rejects
	// requests without a browser-like agent string.
	userAgent = "Mozilla/5.0 (compatible; hulo-release-pipeline)"

	progressThrottle = 100 * time.Millisecond
)

// newHTTPClient builds the client used for all release downloads.
// Timeouts are applied per request via context, not on the client.
func newHTTPClient() *http.Client {
	return &http.Client{
		CheckRedirect: func(_ *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return errTooManyRedirects
			}

			return nil
		},
	}
}

// getFile fetches one file from the release base URL and returns its body.
func (r *runner) getFile(ctx context.Context, fileName string) ([]byte, error) {
	body, err := r.openFile(ctx, fileName)
	if err != nil {
		return nil, err
	}

	defer func() {
		_ = body.Close()
	}()

	return io.ReadAll(body)
}

// openFile issues the GET request for one file under the release base URL.
func (r *runner) openFile(ctx context.Context, fileName string) (io.ReadCloser, error) {
	releaseURL, err := url.Parse(r.baseURL)
	if err != nil {
		return nil, err
	}

	// Use path.Join to normalize duplicate slashes when composing the URL path.
	releaseURL.Path = path.Join(releaseURL.Path, fileName)
	finalURL := releaseURL.String()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, finalURL, http.NoBody)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", userAgent)

	response, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}

	if response.StatusCode != http.StatusOK {
		_ = response.Body.Close()

		return nil, fmt.Errorf("%s, %s: %w", finalURL, response.Status, errBadHTTPStatus)
	}

	return response.Body, nil
}

// downloadAll fetches every manifest entry through a bounded pool of workers
// and returns how many downloads succeeded and failed. A failing entry never
// blocks its siblings.
func (r *runner) downloadAll(ctx context.Context, entries []checksum.Entry) (succeeded, failed int) {
	workers := r.cfg.Workers
	if workers > len(entries) {
		workers = len(entries)
	}

	bar := progressbar.NewOptions(len(entries),
		progressbar.OptionFullWidth(),
		progressbar.OptionSetDescription("downloading"),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(progressThrottle),
	)

	jobs := make(chan checksum.Entry, len(entries))

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)

	for range workers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for entry := range jobs {
				err := r.downloadEntry(ctx, entry)

				mu.Lock()
				if err != nil {
					failed++

					logger.WarnKV(ctx, "Download failed",
						"file", entry.Filename, "error", err)
				} else {
					succeeded++
				}
				mu.Unlock()

				_ = bar.Add(1)
			}
		}()
	}

	for _, entry := range entries {
		jobs <- entry
	}

	close(jobs)
	wg.Wait()

	_ = bar.Finish()

	return succeeded, failed
}

// downloadEntry fetches one archive into the staging directory and verifies
// its checksum. On any failure the partial file is removed from staging.
func (r *runner) downloadEntry(ctx context.Context, entry checksum.Entry) error {
	reqCtx, cancel := context.WithTimeout(ctx, r.cfg.DownloadTimeout)
	defer cancel()

	body, err := r.openFile(reqCtx, entry.Filename)
	if err != nil {
		return err
	}

	defer func() {
		_ = body.Close()
	}()

	target := filepath.Clean(filepath.Join(r.cfg.DistDir, entry.Filename))

	outputFile, err := os.Create(target)
	if err != nil {
		return err
	}

	if _, err = io.Copy(outputFile, body); err != nil {
		_ = outputFile.Close()
		_ = os.Remove(target)

		return err
	}

	if err = outputFile.Close(); err != nil {
		_ = os.Remove(target)

		return err
	}

	if err = r.verifyEntry(ctx, entry, target); err != nil {
		_ = os.Remove(target)

		return err
	}

	logger.DebugKV(ctx, "Downloaded file", "path", target)

	return nil
}

// verifyEntry checks the staged file against the manifest digest.
// Entries whose hash is not a SHA-256 digest are left unverified.
func (r *runner) verifyEntry(ctx context.Context, entry checksum.Entry, target string) error {
	if r.skipVerify {
		return nil
	}

	if !entry.Verifiable() {
		logger.WarnKV(ctx, "Manifest hash is not a SHA-256 digest, skipping verification",
			"file", entry.Filename)

		return nil
	}

	return checksum.VerifyFile(target, entry.Hash)
}
