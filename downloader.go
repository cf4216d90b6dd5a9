package attfetch

import "context"

// DownloadProgress reports bytes written while a download streams to disk.
// Total is -1 when the response carried no Content-Length.
type DownloadProgress struct {
	Path    string
	Written int64
	Total   int64
}

// DownloadProgressFunc is called as download chunks are written.
// Implementations only invoke it for payloads above a size threshold;
// small files complete silently.
type DownloadProgressFunc func(DownloadProgress)

// Downloader streams a remote file to disk.
type Downloader interface {
	// Download streams the body of url to savePath in fixed-size chunks
	// and, when the response carries a Last-Modified header, stamps the
	// local file's modification time with the remote one. A non-success
	// status is reported as a *RetrievalError before any file is
	// created at savePath.
	Download(ctx context.Context, url string, savePath string) error
}
