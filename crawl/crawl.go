// Package crawl provides the concurrent pagination-and-reconciliation core:
// discovering how many pages a listing has, fetching all pages under a
// bounded worker pool with deterministic result ordering, and syncing
// attachments against local filesystem state.
package crawl

import (
	"context"
	"fmt"
	"net/url"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/attfetch/attfetch"
)

// maxWorkers caps the worker pool regardless of hardware parallelism.
// The pool bounds outstanding concurrent connections to one host, so
// raw parallelism past this point buys nothing.
const maxWorkers = 32

// DefaultWorkerCount returns the default bounded pool size for parallel
// page fetches: twice the available hardware parallelism, capped.
func DefaultWorkerCount() int {
	return min(maxWorkers, runtime.NumCPU()*2)
}

// FetchOptions controls how FetchAll schedules page fetches.
type FetchOptions struct {
	// Parallel selects bounded-parallel fetching. When false, pages are
	// fetched strictly in order.
	Parallel bool

	// Workers is the pool size for parallel fetching.
	// Zero or negative means DefaultWorkerCount().
	Workers int
}

// Crawler fetches a paginated listing into one ordered item collection.
// The Fetcher's session is shared read-only across workers.
type Crawler struct {
	Fetcher   attfetch.Fetcher
	Extractor attfetch.Extractor

	// ListURL is the listing root; page n is ListURL?page=n.
	ListURL string

	// Limiter, if set, throttles requests per host.
	Limiter attfetch.DomainLimiter
}

// TotalPages issues one request to the listing root and reads the "last
// page" pagination control. An absent or unparseable control means a
// single-page listing, not a failure.
func (c *Crawler) TotalPages(ctx context.Context) (int, error) {
	html, err := c.fetch(ctx, c.ListURL)
	if err != nil {
		return 0, fmt.Errorf("discover pages: %w", err)
	}

	if n, ok := c.Extractor.LastPage(html); ok {
		return n, nil
	}
	return 1, nil
}

// FetchAll fetches pages 1..TotalPages and flattens the per-page items in
// page order, then in-page order. Under parallel execution the final
// ordering is reconstructed by page index after all tasks complete, never
// by completion order. One page's failure aborts the whole crawl: a
// partial listing is worse than a hard failure. Caller cancellation
// abandons in-flight and unscheduled pages and surfaces ctx.Err().
func (c *Crawler) FetchAll(ctx context.Context, opts FetchOptions) ([]attfetch.Item, error) {
	total, err := c.TotalPages(ctx)
	if err != nil {
		return nil, err
	}

	if !opts.Parallel {
		return c.fetchSequential(ctx, total)
	}

	workers := opts.Workers
	if workers <= 0 {
		workers = DefaultWorkerCount()
	}

	// One task per page index, each writing only its own slot, so the
	// reassembly is independent of worker scheduling.
	pages := make([][]attfetch.Item, total)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for page := 1; page <= total; page++ {
		g.Go(func() error {
			// A task observing cancellation must not begin its fetch.
			if err := gctx.Err(); err != nil {
				return err
			}

			items, err := c.fetchPage(gctx, page)
			if err != nil {
				return fmt.Errorf("page %d: %w", page, err)
			}
			pages[page-1] = items
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return flatten(pages), nil
}

// Attachments fetches one project page and extracts its attachment links.
// Zero attachments is valid and not an error.
func (c *Crawler) Attachments(ctx context.Context, project attfetch.Item) ([]attfetch.Item, error) {
	html, err := c.fetch(ctx, project.URL)
	if err != nil {
		return nil, fmt.Errorf("project %s: %w", project.Name, err)
	}
	return c.Extractor.Attachments(html, project.URL)
}

func (c *Crawler) fetchSequential(ctx context.Context, total int) ([]attfetch.Item, error) {
	var all []attfetch.Item
	for page := 1; page <= total; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		items, err := c.fetchPage(ctx, page)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", page, err)
		}
		all = append(all, items...)
	}
	return all, nil
}

func (c *Crawler) fetchPage(ctx context.Context, page int) ([]attfetch.Item, error) {
	html, err := c.fetch(ctx, fmt.Sprintf("%s?page=%d", c.ListURL, page))
	if err != nil {
		return nil, err
	}
	return c.Extractor.Items(html, c.ListURL)
}

// fetch applies the optional per-domain limiter before delegating to the
// Fetcher.
func (c *Crawler) fetch(ctx context.Context, rawURL string) (string, error) {
	if c.Limiter != nil {
		u, err := url.Parse(rawURL)
		if err != nil {
			return "", attfetch.Errorf(attfetch.EINVALID, "invalid URL %q: %v", rawURL, err)
		}
		if err := c.Limiter.Wait(ctx, u.Host); err != nil {
			return "", err
		}
	}
	return c.Fetcher.Fetch(ctx, rawURL)
}

func flatten(pages [][]attfetch.Item) []attfetch.Item {
	var n int
	for _, p := range pages {
		n += len(p)
	}
	all := make([]attfetch.Item, 0, n)
	for _, p := range pages {
		all = append(all, p...)
	}
	return all
}
