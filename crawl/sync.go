package crawl

import (
	"context"
	"os"

	"github.com/attfetch/attfetch"
)

// Outcome classifies what happened to one attachment during a sync.
type Outcome int

const (
	// OutcomeDownloaded means a new file or a dated sibling was written.
	OutcomeDownloaded Outcome = iota
	// OutcomeCurrent means the local copy already matches the remote.
	OutcomeCurrent
	// OutcomeSkipped means no local file exists and no reliable remote
	// timestamp was obtainable, so the sync declined to download.
	OutcomeSkipped
)

// String returns a short label for the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeDownloaded:
		return "downloaded"
	case OutcomeCurrent:
		return "current"
	case OutcomeSkipped:
		return "skipped"
	default:
		return "unknown"
	}
}

// SyncResult reports what a sync did for one attachment.
type SyncResult struct {
	Item    attfetch.Item
	Path    string
	Outcome Outcome
}

// Summary accumulates sync outcomes across attachments.
type Summary struct {
	Downloaded int
	Current    int
	Skipped    int
}

// Add counts one result into the summary.
func (s *Summary) Add(r SyncResult) {
	switch r.Outcome {
	case OutcomeDownloaded:
		s.Downloaded++
	case OutcomeCurrent:
		s.Current++
	case OutcomeSkipped:
		s.Skipped++
	}
}

// Syncer reconciles one remote attachment with local filesystem state:
// resolve the version decision, then download only when warranted.
type Syncer struct {
	Resolver   attfetch.Resolver
	Downloader attfetch.Downloader
}

// Sync resolves item.URL against basePath and downloads if the decision
// says to. The decision is computed fresh per call; staleness after the
// decision is accepted.
func (s *Syncer) Sync(ctx context.Context, item attfetch.Item, basePath string) (SyncResult, error) {
	decision, err := s.Resolver.Resolve(ctx, item.URL, basePath)
	if err != nil {
		return SyncResult{}, err
	}

	result := SyncResult{Item: item, Path: decision.Path}

	if !decision.Download {
		// A declined download with a file already at the effective path
		// means that version is captured; with no file it means the
		// remote never exposed a usable timestamp.
		if _, err := os.Stat(decision.Path); err == nil {
			result.Outcome = OutcomeCurrent
		} else {
			result.Outcome = OutcomeSkipped
		}
		return result, nil
	}

	if err := s.Downloader.Download(ctx, item.URL, decision.Path); err != nil {
		return SyncResult{}, err
	}

	result.Outcome = OutcomeDownloaded
	return result, nil
}
