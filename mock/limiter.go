package mock

import (
	"context"

	"github.com/attfetch/attfetch"
)

var _ attfetch.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of attfetch.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return d.WaitFn(ctx, domain)
}
