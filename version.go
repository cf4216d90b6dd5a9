package attfetch

import (
	"context"
	"time"
)

// Metadata describes a remote resource without its body.
// A zero LastModified means the remote did not expose a usable timestamp.
type Metadata struct {
	LastModified time.Time
}

// Prober fetches remote metadata without transferring the resource body.
type Prober interface {
	// Probe issues a HEAD request and extracts the Last-Modified
	// timestamp. An unreachable resource or a missing header degrades
	// to zero Metadata, not an error — without a reliable remote
	// timestamp the system declines to judge staleness.
	Probe(ctx context.Context, url string) (Metadata, error)
}

// Decision is the outcome of comparing a remote resource's last-modified
// time against local filesystem state. It is derived, never stored, and is
// a pure function of (remote metadata, filesystem state at decision time).
type Decision struct {
	// Path is the effective save path: the plain base path for a first
	// download, or a dated sibling (stem_YYYYMMDD_HHMMSS.ext) when the
	// base file holds a different version.
	Path string

	// Download reports whether a download is warranted.
	Download bool
}

// Resolver decides, for a remote file, whether a local copy is stale,
// missing, or current.
type Resolver interface {
	// Resolve probes remoteURL and returns the effective save path and
	// whether to download. It performs no mutation.
	Resolve(ctx context.Context, remoteURL string, basePath string) (Decision, error)
}
