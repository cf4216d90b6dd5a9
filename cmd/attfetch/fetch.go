package main

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/attfetch/attfetch"
	"github.com/attfetch/attfetch/crawl"
)

// FetchCmd syncs attachments for the named projects, or lists all projects.
type FetchCmd struct {
	Projects   []string
	List       bool
	Sequential bool
	Workers    int
}

// Run executes the fetch command.
func (c *FetchCmd) Run(deps *Dependencies) error {
	items, err := deps.Crawler.FetchAll(deps.Ctx, crawl.FetchOptions{
		Parallel: !c.Sequential,
		Workers:  c.Workers,
	})
	if err != nil {
		return fmt.Errorf("fetch listing: %w", err)
	}

	if c.List {
		for _, item := range items {
			fmt.Fprintln(deps.Stdout, item.Name)
		}
		return nil
	}

	projects := attfetch.FilterByName(items, c.Projects)
	if len(projects) == 0 {
		return attfetch.Errorf(attfetch.ENOTFOUND, "none of %s found in the listing", strings.Join(c.Projects, ", "))
	}

	var summary crawl.Summary
	for _, project := range projects {
		fmt.Fprintf(deps.Stdout, "%s\n", project.Name)

		attachments, err := deps.Crawler.Attachments(deps.Ctx, project)
		if err != nil {
			return err
		}
		if len(attachments) == 0 {
			fmt.Fprintln(deps.Stdout, "  no attachments")
			continue
		}

		projectDir := filepath.Join(deps.OutDir, project.Name)
		if err := os.MkdirAll(projectDir, 0755); err != nil {
			return err
		}

		for _, att := range attachments {
			basePath := filepath.Join(projectDir, attachmentFilename(att))

			result, err := deps.Syncer.Sync(deps.Ctx, att, basePath)
			if err != nil {
				return err
			}

			summary.Add(result)
			fmt.Fprintf(deps.Stdout, "  %-10s %s\n", result.Outcome, filepath.Base(result.Path))
		}
	}

	fmt.Fprintf(deps.Stdout, "done: %d downloaded, %d current, %d skipped\n",
		summary.Downloaded, summary.Current, summary.Skipped)
	return nil
}

// attachmentFilename derives a local filename for an attachment, preferring
// the last URL path segment and falling back to the link text.
func attachmentFilename(att attfetch.Item) string {
	if u, err := url.Parse(att.URL); err == nil {
		if name := path.Base(u.Path); name != "" && name != "." && name != "/" {
			return name
		}
	}
	return att.Name
}

// progressLine renders in-place download progress for large payloads.
func progressLine(w io.Writer) attfetch.DownloadProgressFunc {
	return func(p attfetch.DownloadProgress) {
		name := filepath.Base(p.Path)
		if p.Total > 0 {
			fmt.Fprintf(w, "\r  %s %3d%% (%s / %s)", name,
				p.Written*100/p.Total, crawl.FormatBytes(p.Written), crawl.FormatBytes(p.Total))
		} else {
			fmt.Fprintf(w, "\r  %s %s", name, crawl.FormatBytes(p.Written))
		}
		if p.Written == p.Total {
			fmt.Fprintf(w, "\r%60s\r", "")
		}
	}
}
