package main_test

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/attfetch/attfetch"
	main "github.com/attfetch/attfetch/cmd/attfetch"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Story: CLI Help and Validation
//
// The CLI validates arguments before any network or filesystem work.
// Project names are required unless --list is given, and a missing config
// file is reported as such.

func TestCLI_ShowsHelpWhenAsked(t *testing.T) {
	t.Parallel()

	// Given: a CLI instance
	m := main.NewMain()
	var stdout, stderr bytes.Buffer

	// When: running with --help flag
	err := m.Run(context.Background(), []string{"--help"}, &stdout, &stderr)

	// Then: help is displayed without error
	require.NoError(t, err)
	assert.Contains(t, stdout.String(), "attfetch")
	assert.Contains(t, stdout.String(), "--list")
}

func TestCLI_RequiresProjectsUnlessListing(t *testing.T) {
	t.Parallel()

	// Given: a CLI instance
	m := main.NewMain()
	var stdout, stderr bytes.Buffer

	// When: running with no project names and no --list
	err := m.Run(context.Background(), []string{}, &stdout, &stderr)

	// Then: an error explains what is missing
	require.Error(t, err)
	assert.Contains(t, err.Error(), "project names are required")
}

func TestCLI_ReportsMissingConfigFile(t *testing.T) {
	t.Parallel()

	// Given: a config path that does not exist
	m := main.NewMain()
	var stdout, stderr bytes.Buffer

	// When: running with that path
	err := m.Run(context.Background(), []string{"-c", filepath.Join(t.TempDir(), "nope.toml"), "libft"}, &stdout, &stderr)

	// Then: a not-found error surfaces
	require.Error(t, err)
	assert.Equal(t, attfetch.ENOTFOUND, attfetch.ErrorCode(err))
}

// Story: End-to-End Sync
//
// Wired together against a real HTTP server, the CLI crawls the listing,
// finds the named project, resolves its attachment against an empty
// download dir and streams the file to disk with the remote mtime.

func TestCLI_SyncsAttachmentEndToEnd(t *testing.T) {
	t.Parallel()

	remoteTime := time.Date(2025, 5, 9, 12, 16, 12, 0, time.UTC)

	listing := `<html><body><div id="projects-list-container">
		<ul class="projects-list--list">
			<li class="project-item"><div class="project-name"><a href="/projects/libft">libft</a></div></li>
		</ul>
	</div></body></html>`
	project := `<html><body>
		<h4 class="attachment-name"><a href="/uploads/libft.en.pdf">Subject</a></h4>
	</body></html>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/projects/list":
			fmt.Fprint(w, listing)
		case "/projects/libft":
			fmt.Fprint(w, project)
		case "/uploads/libft.en.pdf":
			w.Header().Set("Last-Modified", remoteTime.Format(http.TimeFormat))
			fmt.Fprint(w, "%PDF-1.4 subject")
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	// Given: a config pointing at the server and an empty download dir
	outDir := t.TempDir()
	cfgPath := filepath.Join(t.TempDir(), "attfetch.toml")
	cfg := fmt.Sprintf("list_url = %q\ndownload_dir = %q\n", srv.URL+"/projects/list", outDir)
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0644))

	// When: syncing the project
	m := main.NewMain()
	var stdout, stderr bytes.Buffer
	err := m.Run(context.Background(), []string{"-c", cfgPath, "libft"}, &stdout, &stderr)

	// Then: the attachment is on disk with the remote mtime
	require.NoError(t, err)
	savedPath := filepath.Join(outDir, "libft", "libft.en.pdf")
	data, err := os.ReadFile(savedPath)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 subject", string(data))

	info, err := os.Stat(savedPath)
	require.NoError(t, err)
	assert.True(t, info.ModTime().Equal(remoteTime))

	assert.Contains(t, stdout.String(), "downloaded")
	assert.Contains(t, stdout.String(), "done: 1 downloaded, 0 current, 0 skipped")

	// When: syncing again without the remote changing
	var stdout2 bytes.Buffer
	require.NoError(t, m.Run(context.Background(), []string{"-c", cfgPath, "libft"}, &stdout2, &stderr))

	// Then: the local copy is recognized as current
	assert.Contains(t, stdout2.String(), "done: 0 downloaded, 1 current, 0 skipped")
}

func TestCLI_ListsProjectsEndToEnd(t *testing.T) {
	t.Parallel()

	listing := `<html><body>
		<ul class="projects-list--list">
			<li class="project-item"><div class="project-name"><a href="/projects/libft">libft</a></div></li>
			<li class="project-item"><div class="project-name"><a href="/projects/minishell">minishell</a></div></li>
		</ul>
	</body></html>`

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, listing)
	}))
	defer srv.Close()

	cfgPath := filepath.Join(t.TempDir(), "attfetch.toml")
	cfg := fmt.Sprintf("list_url = %q\n", srv.URL+"/projects/list")
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0644))

	m := main.NewMain()
	var stdout, stderr bytes.Buffer
	err := m.Run(context.Background(), []string{"-c", cfgPath, "--list"}, &stdout, &stderr)

	require.NoError(t, err)
	assert.Equal(t, "libft\nminishell\n", stdout.String())
}
