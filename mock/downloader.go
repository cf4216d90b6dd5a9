package mock

import (
	"context"

	"github.com/attfetch/attfetch"
)

var _ attfetch.Downloader = (*Downloader)(nil)

// Downloader is a mock implementation of attfetch.Downloader.
type Downloader struct {
	DownloadFn func(ctx context.Context, url string, savePath string) error
}

func (d *Downloader) Download(ctx context.Context, url string, savePath string) error {
	return d.DownloadFn(ctx, url, savePath)
}
