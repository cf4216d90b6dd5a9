package mock

import (
	"context"

	"github.com/attfetch/attfetch"
)

var _ attfetch.Resolver = (*Resolver)(nil)

// Resolver is a mock implementation of attfetch.Resolver.
type Resolver struct {
	ResolveFn func(ctx context.Context, remoteURL string, basePath string) (attfetch.Decision, error)
}

func (r *Resolver) Resolve(ctx context.Context, remoteURL string, basePath string) (attfetch.Decision, error) {
	return r.ResolveFn(ctx, remoteURL, basePath)
}
