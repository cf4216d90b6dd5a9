// Package mock provides function-field mock implementations of the
// attfetch interfaces for use in tests.
package mock

import (
	"context"

	"github.com/attfetch/attfetch"
)

var _ attfetch.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of attfetch.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string) (string, error)
}

func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	return f.FetchFn(ctx, url)
}
