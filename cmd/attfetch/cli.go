package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"

	"github.com/attfetch/attfetch"
	"github.com/attfetch/attfetch/crawl"
	attfs "github.com/attfetch/attfetch/fs"
	attgoquery "github.com/attfetch/attfetch/goquery"
	atthttp "github.com/attfetch/attfetch/http"
	attslog "github.com/attfetch/attfetch/slog"
	atttoml "github.com/attfetch/attfetch/toml"
)

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Config     string   `short:"c" default:"attfetch.toml" help:"Path to the TOML config file"`
	List       bool     `short:"l" help:"List all projects in the listing and exit"`
	Sequential bool     `short:"s" help:"Fetch listing pages one at a time instead of in parallel"`
	Workers    int      `short:"w" help:"Parallel page-fetch limit (default: 2x CPUs, capped at 32)"`
	Out        string   `short:"o" help:"Download directory (overrides config)"`
	Retries    int      `default:"3" help:"Retry attempts per page fetch (0 disables)"`
	Verbose    bool     `short:"v" help:"Enable structured request logging"`
	Projects   []string `arg:"" optional:"" help:"Project names whose attachments to sync"`
}

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer

	Crawler *crawl.Crawler
	Syncer  *crawl.Syncer
	OutDir  string
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("attfetch"),
		kong.Description("Sync versioned project attachments from a paginated listing"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Handle help flags
	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	if _, err := parser.Parse(args); err != nil {
		return err
	}

	if !cli.List && len(cli.Projects) == 0 {
		return fmt.Errorf("project names are required unless --list is given")
	}

	cfg, err := atttoml.Load(cli.Config)
	if err != nil {
		return err
	}

	outDir := cfg.DownloadDir
	if cli.Out != "" {
		outDir = cli.Out
	}

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{
		Level: logLevel(cli.Verbose),
	})).With("run_id", uuid.NewString())

	// API credentials sidestep the HTML listing entirely for --list.
	if cli.List && cfg.API.BaseURL != "" {
		return listProjectsAPI(ctx, cfg, stdout)
	}

	client, err := atthttp.NewClient(cfg.ListURL, cfg.Cookies)
	if err != nil {
		return fmt.Errorf("failed to build session client: %w", err)
	}

	var fetcher attfetch.Fetcher = attslog.NewLoggingFetcher(atthttp.NewFetcher(client), logger)
	if cli.Retries > 0 {
		fetcher = &retryingFetcher{
			next:   fetcher,
			delays: crawl.DefaultRetryDelays()[:min(cli.Retries, 3)],
			logger: logger,
		}
	}

	var limiter attfetch.DomainLimiter
	if cfg.RequestsPerSecond > 0 {
		limiter = crawl.NewDomainLimiter(cfg.RequestsPerSecond)
	}

	workers := cli.Workers
	if workers <= 0 {
		workers = cfg.Workers
	}

	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Crawler: &crawl.Crawler{
			Fetcher:   fetcher,
			Extractor: attgoquery.NewExtractor(),
			ListURL:   cfg.ListURL,
			Limiter:   limiter,
		},
		Syncer:  newSyncer(client, cfg, logger, stdout),
		OutDir:  outDir,
	}

	cmd := &FetchCmd{
		Projects:   cli.Projects,
		List:       cli.List,
		Sequential: cli.Sequential,
		Workers:    workers,
	}

	return cmd.Run(deps)
}

// listProjectsAPI prints project names from the site's JSON API.
func listProjectsAPI(ctx context.Context, cfg *atttoml.Config, stdout io.Writer) error {
	api := atthttp.NewAPIClient(&http.Client{Timeout: atthttp.DefaultTimeout},
		cfg.API.BaseURL, cfg.API.UID, cfg.API.Secret)

	pages, err := api.GetAllPages(ctx, "/v2/projects", nil, atthttp.DefaultPageSize)
	if err != nil {
		return fmt.Errorf("list projects: %w", err)
	}

	for _, raw := range pages {
		var project struct {
			Name string `json:"name"`
		}
		if err := json.Unmarshal(raw, &project); err != nil {
			return attfetch.Errorf(attfetch.EINTERNAL, "decode project: %v", err)
		}
		fmt.Fprintln(stdout, project.Name)
	}
	return nil
}

func newSyncer(client *http.Client, cfg *atttoml.Config, logger *slog.Logger, stdout io.Writer) *crawl.Syncer {
	prober := attslog.NewLoggingProber(atthttp.NewProber(client), logger)
	downloader := attslog.NewLoggingDownloader(atthttp.NewDownloader(client,
		atthttp.WithProgress(progressLine(stdout)),
	), logger)

	return &crawl.Syncer{
		Resolver: &attfs.Resolver{
			Prober:    prober,
			Tolerance: cfg.Tolerance.Duration,
		},
		Downloader: downloader,
	}
}

func logLevel(verbose bool) slog.Level {
	if verbose {
		return slog.LevelInfo
	}
	return slog.LevelWarn
}

// retryingFetcher layers caller-side retry policy over a Fetcher.
// The crawl core itself never retries.
type retryingFetcher struct {
	next   attfetch.Fetcher
	delays []time.Duration
	logger *slog.Logger
}

func (f *retryingFetcher) Fetch(ctx context.Context, url string) (string, error) {
	return crawl.FetchWithRetryDelays(ctx, url, f.next.Fetch, func(format string, args ...any) {
		f.logger.Warn(fmt.Sprintf(format, args...))
	}, f.delays)
}
