package mock

import (
	"context"

	"github.com/attfetch/attfetch"
)

var _ attfetch.Prober = (*Prober)(nil)

// Prober is a mock implementation of attfetch.Prober.
type Prober struct {
	ProbeFn func(ctx context.Context, url string) (attfetch.Metadata, error)
}

func (p *Prober) Probe(ctx context.Context, url string) (attfetch.Metadata, error) {
	return p.ProbeFn(ctx, url)
}
