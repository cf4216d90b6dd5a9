// Package fs implements timestamp-based version resolution against local
// filesystem state.
package fs

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/attfetch/attfetch"
)

// DefaultTolerance absorbs filesystem and clock-resolution jitter when
// comparing a local mtime to a remote timestamp.
const DefaultTolerance = 1 * time.Second

// versionedTimeLayout is the timestamp token inserted between a filename's
// stem and extension.
const versionedTimeLayout = "20060102_150405"

// VersionedPath derives the dated sibling path for basePath: the remote
// modification time (in UTC) is inserted between the stem and extension,
// in the same directory. Example: /d/file.pdf at 2025-05-09T12:16:12Z
// becomes /d/file_20250509_121612.pdf.
func VersionedPath(basePath string, remote time.Time) string {
	dir := filepath.Dir(basePath)
	name := filepath.Base(basePath)
	ext := filepath.Ext(name)
	stem := strings.TrimSuffix(name, ext)
	return filepath.Join(dir, fmt.Sprintf("%s_%s%s", stem, remote.UTC().Format(versionedTimeLayout), ext))
}

// Ensure Resolver implements attfetch.Resolver at compile time.
var _ attfetch.Resolver = (*Resolver)(nil)

// Resolver decides whether a local copy of a remote file is stale, missing,
// or current. The policy never deletes or overwrites an existing versioned
// file, and never overwrites the base file once it holds a different remote
// version: a new version always lands under a dated sibling name.
type Resolver struct {
	Prober attfetch.Prober

	// Tolerance is the maximum local/remote mtime difference still
	// considered "same version". Zero or negative means
	// DefaultTolerance.
	Tolerance time.Duration
}

// Resolve probes remoteURL for metadata and derives the effective save
// path and download decision from local filesystem state. It performs no
// mutation; calling it twice with unchanged filesystem state yields the
// same decision.
func (r *Resolver) Resolve(ctx context.Context, remoteURL string, basePath string) (attfetch.Decision, error) {
	meta, err := r.Prober.Probe(ctx, remoteURL)
	if err != nil {
		return attfetch.Decision{}, err
	}

	// Without a reliable remote timestamp staleness cannot be judged;
	// decline to re-download rather than fetch needlessly.
	if meta.LastModified.IsZero() {
		return attfetch.Decision{Path: basePath, Download: false}, nil
	}

	versionedPath := VersionedPath(basePath, meta.LastModified)

	// That exact version was already captured.
	if _, err := os.Stat(versionedPath); err == nil {
		return attfetch.Decision{Path: versionedPath, Download: false}, nil
	}

	if info, err := os.Stat(basePath); err == nil {
		if withinTolerance(info.ModTime(), meta.LastModified, r.tolerance()) {
			return attfetch.Decision{Path: basePath, Download: false}, nil
		}
		// The base file holds a different version; leave it untouched
		// and route the new version to the dated sibling.
		return attfetch.Decision{Path: versionedPath, Download: true}, nil
	}

	// First download establishes the baseline under the plain name;
	// only later changes acquire timestamp suffixes.
	return attfetch.Decision{Path: basePath, Download: true}, nil
}

func (r *Resolver) tolerance() time.Duration {
	if r.Tolerance <= 0 {
		return DefaultTolerance
	}
	return r.Tolerance
}

func withinTolerance(local, remote time.Time, tolerance time.Duration) bool {
	diff := local.Sub(remote)
	if diff < 0 {
		diff = -diff
	}
	return diff <= tolerance
}
