package attfetch

import "context"

// Fetcher retrieves raw HTML from URLs using a shared authenticated session.
// The session is read-only for the duration of a crawl: implementations must
// be safe for concurrent use by multiple workers.
type Fetcher interface {
	// Fetch performs a GET and returns the response body.
	// A non-success status is reported as a *RetrievalError.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (html string, err error)
}
