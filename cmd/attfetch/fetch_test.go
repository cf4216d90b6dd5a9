package main_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/attfetch/attfetch"
	main "github.com/attfetch/attfetch/cmd/attfetch"
	"github.com/attfetch/attfetch/crawl"
	"github.com/attfetch/attfetch/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// singlePageCrawler returns a Crawler whose listing is one page of the
// given projects and whose project pages each carry the given attachments.
func singlePageCrawler(projects []attfetch.Item, attachments map[string][]attfetch.Item) *crawl.Crawler {
	return &crawl.Crawler{
		Fetcher: &mock.Fetcher{
			FetchFn: func(_ context.Context, url string) (string, error) {
				return url, nil
			},
		},
		Extractor: &mock.Extractor{
			LastPageFn: func(string) (int, bool) { return 0, false },
			ItemsFn: func(string, string) ([]attfetch.Item, error) {
				return projects, nil
			},
			AttachmentsFn: func(html string, _ string) ([]attfetch.Item, error) {
				return attachments[html], nil
			},
		},
		ListURL: "https://example.com/projects/list",
	}
}

func newDeps(crawler *crawl.Crawler, syncer *crawl.Syncer, outDir string) (*main.Dependencies, *bytes.Buffer) {
	stdout := &bytes.Buffer{}
	return &main.Dependencies{
		Ctx:     context.Background(),
		Stdout:  stdout,
		Stderr:  &bytes.Buffer{},
		Crawler: crawler,
		Syncer:  syncer,
		OutDir:  outDir,
	}, stdout
}

// Story: List Mode
//
// With --list the command prints every project name found in the listing
// and never touches the filesystem or the sync pipeline.

func TestFetchCmd_ListMode(t *testing.T) {
	t.Parallel()

	t.Run("prints every project name in listing order", func(t *testing.T) {
		t.Parallel()

		// Given: a listing with two projects and no syncer wired
		crawler := singlePageCrawler([]attfetch.Item{
			{Name: "libft", URL: "https://example.com/projects/libft"},
			{Name: "get_next_line", URL: "https://example.com/projects/gnl"},
		}, nil)
		deps, stdout := newDeps(crawler, nil, t.TempDir())

		// When: running in list mode
		cmd := &main.FetchCmd{List: true}
		err := cmd.Run(deps)

		// Then: both names are printed in order
		require.NoError(t, err)
		assert.Equal(t, "libft\nget_next_line\n", stdout.String())
	})

	t.Run("propagates listing fetch failure", func(t *testing.T) {
		t.Parallel()

		// Given: a fetcher that always fails
		crawler := &crawl.Crawler{
			Fetcher: &mock.Fetcher{
				FetchFn: func(context.Context, string) (string, error) {
					return "", attfetch.Errorf(attfetch.EUNAVAILABLE, "listing down")
				},
			},
			Extractor: &mock.Extractor{},
			ListURL:   "https://example.com/projects/list",
		}
		deps, _ := newDeps(crawler, nil, t.TempDir())

		// When: running in list mode
		err := (&main.FetchCmd{List: true}).Run(deps)

		// Then: the failure surfaces
		require.Error(t, err)
		assert.Equal(t, attfetch.EUNAVAILABLE, attfetch.ErrorCode(err))
	})
}

// Story: Sync Mode
//
// Named projects are matched against the listing case-insensitively, each
// matched project's attachments are resolved and synced under a per-project
// directory, and a summary line closes the run.

func TestFetchCmd_SyncMode(t *testing.T) {
	t.Parallel()

	projects := []attfetch.Item{
		{Name: "Libft", URL: "https://example.com/projects/libft"},
		{Name: "minishell", URL: "https://example.com/projects/minishell"},
	}
	attachments := map[string][]attfetch.Item{
		"https://example.com/projects/libft": {
			{Name: "Subject", URL: "https://example.com/uploads/libft.en.pdf"},
		},
	}

	t.Run("downloads matched project attachments into per-project dirs", func(t *testing.T) {
		t.Parallel()

		// Given: a syncer that reports every attachment as downloaded
		var syncedPaths []string
		syncer := &crawl.Syncer{
			Resolver: &mock.Resolver{
				ResolveFn: func(_ context.Context, _ string, basePath string) (attfetch.Decision, error) {
					return attfetch.Decision{Path: basePath, Download: true}, nil
				},
			},
			Downloader: &mock.Downloader{
				DownloadFn: func(_ context.Context, _ string, savePath string) error {
					syncedPaths = append(syncedPaths, savePath)
					return nil
				},
			},
		}
		outDir := t.TempDir()
		deps, stdout := newDeps(singlePageCrawler(projects, attachments), syncer, outDir)

		// When: syncing by lower-cased name
		err := (&main.FetchCmd{Projects: []string{"libft"}}).Run(deps)

		// Then: the attachment lands under outDir/<project>/<url basename>
		require.NoError(t, err)
		require.Len(t, syncedPaths, 1)
		assert.Equal(t, filepath.Join(outDir, "Libft", "libft.en.pdf"), syncedPaths[0])
		assert.Contains(t, stdout.String(), "downloaded")
		assert.Contains(t, stdout.String(), "done: 1 downloaded, 0 current, 0 skipped")
	})

	t.Run("reports a project without attachments and keeps going", func(t *testing.T) {
		t.Parallel()

		// Given: minishell's page has no attachment links
		deps, stdout := newDeps(singlePageCrawler(projects, attachments), nil, t.TempDir())

		// When: syncing the attachment-less project
		err := (&main.FetchCmd{Projects: []string{"minishell"}}).Run(deps)

		// Then: the run succeeds and says so
		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "no attachments")
	})

	t.Run("fails when no requested project is in the listing", func(t *testing.T) {
		t.Parallel()

		// Given: a listing without the requested name
		deps, _ := newDeps(singlePageCrawler(projects, attachments), nil, t.TempDir())

		// When: asking for an unknown project
		err := (&main.FetchCmd{Projects: []string{"philosophers"}}).Run(deps)

		// Then: a not-found error names the request
		require.Error(t, err)
		assert.Equal(t, attfetch.ENOTFOUND, attfetch.ErrorCode(err))
		assert.Contains(t, attfetch.ErrorMessage(err), "philosophers")
	})

	t.Run("stops at the first sync failure", func(t *testing.T) {
		t.Parallel()

		// Given: a resolver that fails outright
		syncer := &crawl.Syncer{
			Resolver: &mock.Resolver{
				ResolveFn: func(context.Context, string, string) (attfetch.Decision, error) {
					return attfetch.Decision{}, attfetch.Errorf(attfetch.EUNAVAILABLE, "probe refused")
				},
			},
		}
		deps, _ := newDeps(singlePageCrawler(projects, attachments), syncer, t.TempDir())

		// When: syncing a project with an attachment
		err := (&main.FetchCmd{Projects: []string{"libft"}}).Run(deps)

		// Then: the failure surfaces
		require.Error(t, err)
		assert.Equal(t, attfetch.EUNAVAILABLE, attfetch.ErrorCode(err))
	})

	t.Run("counts current and skipped outcomes in the summary", func(t *testing.T) {
		t.Parallel()

		// Given: one attachment already captured on disk, one unresolvable
		outDir := t.TempDir()
		many := map[string][]attfetch.Item{
			"https://example.com/projects/libft": {
				{Name: "Subject", URL: "https://example.com/uploads/libft.en.pdf"},
				{Name: "Extras", URL: "https://example.com/uploads/extras.tgz"},
			},
		}
		syncer := &crawl.Syncer{
			Resolver: &mock.Resolver{
				ResolveFn: func(_ context.Context, remoteURL string, basePath string) (attfetch.Decision, error) {
					if filepath.Base(basePath) == "libft.en.pdf" {
						// Pretend the local copy is up to date.
						require.NoError(t, os.WriteFile(basePath, []byte("pdf"), 0644))
						return attfetch.Decision{Path: basePath, Download: false}, nil
					}
					return attfetch.Decision{Path: basePath, Download: false}, nil
				},
			},
		}
		deps, stdout := newDeps(singlePageCrawler(projects, many), syncer, outDir)

		// When: syncing
		err := (&main.FetchCmd{Projects: []string{"Libft"}}).Run(deps)

		// Then: one current, one skipped
		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "done: 0 downloaded, 1 current, 1 skipped")
	})
}
