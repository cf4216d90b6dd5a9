package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/attfetch/attfetch"
)

// Ensure Prober implements attfetch.Prober at compile time.
var _ attfetch.Prober = (*Prober)(nil)

// Prober fetches remote metadata with HEAD requests, never transferring
// the resource body.
type Prober struct {
	client  *http.Client
	timeout time.Duration
}

// ProberOption configures a Prober.
type ProberOption func(*Prober)

// WithProbeTimeout sets the per-probe timeout.
// Defaults to DefaultTimeout (10s) if not specified.
func WithProbeTimeout(d time.Duration) ProberOption {
	return func(p *Prober) {
		p.timeout = d
	}
}

// NewProber creates a new HEAD-based Prober. If client is nil,
// http.DefaultClient is used.
func NewProber(client *http.Client, opts ...ProberOption) *Prober {
	p := &Prober{
		client:  client,
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}

	if p.client == nil {
		p.client = http.DefaultClient
	}

	return p
}

// Probe issues a HEAD request and extracts the Last-Modified timestamp.
// A non-200 status, a transport failure, or a missing/unparseable header
// all degrade to zero Metadata with a nil error: without a reliable remote
// timestamp the caller declines to judge staleness rather than failing.
// Context cancellation is still surfaced so a crawl abort propagates.
func (p *Prober) Probe(ctx context.Context, url string) (attfetch.Metadata, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return attfetch.Metadata{}, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		// Probe timeouts degrade to "no metadata"; a caller-initiated
		// abort still propagates.
		if errors.Is(err, context.Canceled) {
			return attfetch.Metadata{}, context.Canceled
		}
		return attfetch.Metadata{}, nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return attfetch.Metadata{}, nil
	}

	lastModified := resp.Header.Get("Last-Modified")
	if lastModified == "" {
		return attfetch.Metadata{}, nil
	}

	t, err := http.ParseTime(lastModified)
	if err != nil {
		return attfetch.Metadata{}, nil
	}

	return attfetch.Metadata{LastModified: t}, nil
}
