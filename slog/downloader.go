package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/attfetch/attfetch"
)

// Ensure LoggingDownloader implements attfetch.Downloader.
var _ attfetch.Downloader = (*LoggingDownloader)(nil)

// LoggingDownloader wraps a Downloader with debug logging.
type LoggingDownloader struct {
	next   attfetch.Downloader
	logger *slog.Logger
}

// NewLoggingDownloader creates a new LoggingDownloader.
func NewLoggingDownloader(next attfetch.Downloader, logger *slog.Logger) *LoggingDownloader {
	return &LoggingDownloader{next: next, logger: logger}
}

// Download delegates to the wrapped downloader and logs the operation.
func (d *LoggingDownloader) Download(ctx context.Context, url string, savePath string) (err error) {
	defer func(begin time.Time) {
		d.logger.Info("download",
			"url", url,
			"path", savePath,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return d.next.Download(ctx, url, savePath)
}
