package http

import (
	"context"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/attfetch/attfetch"
)

// downloadChunkSize is the fixed buffer size for streaming response bodies
// to disk, bounding peak memory for arbitrarily large files.
const downloadChunkSize = 8192

// DefaultProgressThreshold is the payload size above which the progress
// callback is invoked. Small files complete silently.
const DefaultProgressThreshold = 1 << 20 // 1MB

// Ensure Downloader implements attfetch.Downloader at compile time.
var _ attfetch.Downloader = (*Downloader)(nil)

// Downloader streams remote files to disk and stamps local modification
// times with the remote Last-Modified value. The stamped mtime is what
// makes fs.Resolver's later timestamp comparisons meaningful; the two
// agree on Last-Modified semantics through attfetch.Metadata.
type Downloader struct {
	client    *http.Client
	timeout   time.Duration
	threshold int64
	progress  attfetch.DownloadProgressFunc
}

// DownloaderOption configures a Downloader.
type DownloaderOption func(*Downloader)

// WithDownloadTimeout sets the per-download timeout.
// Defaults to DefaultDownloadTimeout (30s) if not specified.
func WithDownloadTimeout(d time.Duration) DownloaderOption {
	return func(dl *Downloader) {
		dl.timeout = d
	}
}

// WithProgress sets a progress callback, invoked only for payloads larger
// than the threshold.
func WithProgress(fn attfetch.DownloadProgressFunc) DownloaderOption {
	return func(dl *Downloader) {
		dl.progress = fn
	}
}

// WithProgressThreshold overrides the size above which progress is reported.
func WithProgressThreshold(n int64) DownloaderOption {
	return func(dl *Downloader) {
		dl.threshold = n
	}
}

// NewDownloader creates a new streaming Downloader. If client is nil,
// http.DefaultClient is used.
func NewDownloader(client *http.Client, opts ...DownloaderOption) *Downloader {
	dl := &Downloader{
		client:    client,
		timeout:   DefaultDownloadTimeout,
		threshold: DefaultProgressThreshold,
	}
	for _, opt := range opts {
		opt(dl)
	}

	if dl.client == nil {
		dl.client = http.DefaultClient
	}

	return dl
}

// Download streams the body of url to savePath in fixed-size chunks.
// The status check happens before the destination file is created, so a
// failed request never leaves a file behind. On completion the local
// mtime is set to the remote Last-Modified value when available.
func (dl *Downloader) Download(ctx context.Context, url string, savePath string) error {
	ctx, cancel := context.WithTimeout(ctx, dl.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := dl.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &attfetch.RetrievalError{Op: "download", URL: url, Status: resp.StatusCode}
	}

	total := int64(-1)
	if cl := resp.Header.Get("Content-Length"); cl != "" {
		if n, err := strconv.ParseInt(cl, 10, 64); err == nil {
			total = n
		}
	}

	f, err := os.Create(savePath)
	if err != nil {
		return err
	}

	var src io.Reader = resp.Body
	if dl.progress != nil && total > dl.threshold {
		src = io.TeeReader(resp.Body, &progressWriter{
			path:     savePath,
			total:    total,
			progress: dl.progress,
		})
	}

	buf := make([]byte, downloadChunkSize)
	_, copyErr := io.CopyBuffer(f, src, buf)
	closeErr := f.Close()
	if copyErr != nil {
		return copyErr
	}
	if closeErr != nil {
		return closeErr
	}

	if lastModified := resp.Header.Get("Last-Modified"); lastModified != "" {
		if t, err := http.ParseTime(lastModified); err == nil {
			if err := os.Chtimes(savePath, t, t); err != nil {
				return err
			}
		}
	}

	return nil
}

// progressWriter adapts a DownloadProgressFunc to io.Writer for TeeReader.
type progressWriter struct {
	path     string
	written  int64
	total    int64
	progress attfetch.DownloadProgressFunc
}

func (w *progressWriter) Write(p []byte) (int, error) {
	w.written += int64(len(p))
	w.progress(attfetch.DownloadProgress{
		Path:    w.path,
		Written: w.written,
		Total:   w.total,
	})
	return len(p), nil
}
