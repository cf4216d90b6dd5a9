package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/attfetch/attfetch"
)

// Ensure LoggingProber implements attfetch.Prober.
var _ attfetch.Prober = (*LoggingProber)(nil)

// LoggingProber wraps a Prober with debug logging.
type LoggingProber struct {
	next   attfetch.Prober
	logger *slog.Logger
}

// NewLoggingProber creates a new LoggingProber.
func NewLoggingProber(next attfetch.Prober, logger *slog.Logger) *LoggingProber {
	return &LoggingProber{next: next, logger: logger}
}

// Probe delegates to the wrapped prober and logs the operation.
func (p *LoggingProber) Probe(ctx context.Context, url string) (meta attfetch.Metadata, err error) {
	defer func(begin time.Time) {
		p.logger.Info("probe",
			"url", url,
			"last_modified", meta.LastModified,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return p.next.Probe(ctx, url)
}
