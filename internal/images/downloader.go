package images

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// DownloadError reports a single failed image fetch. One URL failing
// never aborts the rest of the batch.
type DownloadError struct {
	URL string
	Err error
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("download %s: %v", e.URL, e.Err)
}

func (e *DownloadError) Unwrap() error {
	return e.Err
}

// Downloader fetches product images over HTTP and stores them under a
// per-product directory.
type Downloader struct {
	client  *http.Client
	baseDir string
	logger  *slog.Logger
}

func NewDownloader(baseDir string, timeout time.Duration) *Downloader {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Downloader{
		client:  &http.Client{Timeout: timeout},
		baseDir: baseDir,
		logger:  slog.Default().With("component", "image_downloader"),
	}
}

// Download fetches one image and writes it to
// <base>/<productID>/<productID>_<index><ext>, overwriting any existing
// file. Returns the local path.
func (d *Downloader) Download(ctx context.Context, url, productID string, index int) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", &DownloadError{URL: url, Err: err}
	}
	req.Header.Set("User-Agent", defaultUserAgent)

	resp, err := d.client.Do(req)
	if err != nil {
		return "", &DownloadError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", &DownloadError{URL: url, Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}

	dir := filepath.Join(d.baseDir, productID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", &DownloadError{URL: url, Err: err}
	}

	ext := imageExtension(url, resp.Header.Get("Content-Type"))
	dest := filepath.Join(dir, fmt.Sprintf("%s_%d%s", productID, index, ext))

	file, err := os.Create(dest)
	if err != nil {
		return "", &DownloadError{URL: url, Err: err}
	}

	if _, err := io.Copy(file, resp.Body); err != nil {
		file.Close()
		os.Remove(dest)
		return "", &DownloadError{URL: url, Err: err}
	}

	if err := file.Close(); err != nil {
		return "", &DownloadError{URL: url, Err: err}
	}

	return dest, nil
}

// DownloadAll fetches urls in order, capped at maxImages when positive.
// Failed URLs are logged and skipped; the returned paths keep the
// original relative order of the URLs that succeeded.
func (d *Downloader) DownloadAll(ctx context.Context, urls []string, productID string, maxImages int) []string {
	if maxImages > 0 && len(urls) > maxImages {
		urls = urls[:maxImages]
	}

	paths := make([]string, 0, len(urls))
	for i, url := range urls {
		if ctx.Err() != nil {
			break
		}

		dest, err := d.Download(ctx, url, productID, i)
		if err != nil {
			d.logger.Error("image download failed", "product_id", productID, "url", url, "error", err)
			continue
		}
		paths = append(paths, dest)
	}

	d.logger.Info("images downloaded", "product_id", productID, "downloaded", len(paths), "requested", len(urls))

	return paths
}

// imageExtension derives a file extension from the URL path, falling
// back to the response Content-Type.
func imageExtension(url, contentType string) string {
	base := path.Base(url)
	if i := strings.IndexByte(base, '?'); i >= 0 {
		base = base[:i]
	}

	switch ext := strings.ToLower(path.Ext(base)); ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".webp":
		return ext
	}

	switch contentType {
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	default:
		return ".jpg"
	}
}
