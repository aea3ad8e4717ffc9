package archive

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"nvr-archiver/internal/device"
	"nvr-archiver/internal/domain"
	"nvr-archiver/internal/namecache"
	"nvr-archiver/internal/retry"
)

// Options carries the knobs for one archiving run.
type Options struct {
	NVRID         string
	ArchiveDir    string
	PageSize      int
	MaxConcurrent int
	ScanCeiling   int
	FileDelay     time.Duration
	RetryPolicy   retry.Policy
}

// Orchestrator runs one download worker per channel under a global
// concurrency cap and aggregates one outcome per channel.
type Orchestrator struct {
	client     device.Client
	opts       Options
	downloader *Downloader
	scanner    *Scanner
}

func NewOrchestrator(client device.Client, opts Options) *Orchestrator {
	pager := NewPager(client, opts.PageSize)
	return &Orchestrator{
		client:     client,
		opts:       opts,
		downloader: NewDownloader(client, pager, opts.ArchiveDir, opts.NVRID, opts.RetryPolicy, opts.FileDelay),
		scanner:    NewScanner(client, opts.ArchiveDir, opts.NVRID),
	}
}

// Run downloads the window's recordings from the explicit channel list, or
// from every channel the scanner discovers when the list is empty. Workers
// are admitted as slots free under the concurrency cap; each produces
// exactly one outcome. An empty channel set is a valid, empty result.
func (o *Orchestrator) Run(ctx context.Context, window domain.TimeWindow, contentType domain.ContentType, explicit []int) (map[int]domain.DownloadOutcome, error) {
	log := slog.With("run_id", uuid.New().String()[:8], "nvr", o.opts.NVRID)

	var (
		channels []int
		names    map[int]string
	)
	if len(explicit) > 0 {
		channels = explicit
		names = namecache.Load(o.opts.ArchiveDir, o.opts.NVRID)
		log.Info("downloading from specified channels", "channels", channels)
	} else {
		var err error
		channels, names, err = o.scanner.Scan(ctx, window, contentType, o.opts.ScanCeiling)
		if err != nil {
			return nil, err
		}
	}

	if len(channels) == 0 {
		log.Info("no channels with recordings in the requested window")
		return map[int]domain.DownloadOutcome{}, nil
	}

	log.Info("starting downloads",
		"channels", len(channels),
		"content_type", contentType.String(),
		"max_concurrent", o.opts.MaxConcurrent,
	)

	outcomes := make(chan domain.DownloadOutcome, len(channels))

	var g errgroup.Group
	g.SetLimit(o.opts.MaxConcurrent)
	for _, channel := range channels {
		channel := channel
		g.Go(func() error {
			outcomes <- o.runWorker(ctx, channel, window, contentType, names)
			return nil
		})
	}

	// workers report through outcomes, never through an error
	_ = g.Wait()
	close(outcomes)

	results := make(map[int]domain.DownloadOutcome, len(channels))
	for outcome := range outcomes {
		results[outcome.Channel] = outcome
	}

	return results, nil
}

func (o *Orchestrator) runWorker(ctx context.Context, channel int, window domain.TimeWindow, contentType domain.ContentType, names map[int]string) domain.DownloadOutcome {
	count, err := o.downloader.DownloadChannel(ctx, channel, window, contentType, folderFor(channel, names))
	if err != nil {
		slog.Error("channel download failed", "channel", channel, "error", err)
		return domain.DownloadOutcome{Channel: channel, Files: count, Err: err.Error()}
	}

	slog.Info("channel download finished", "channel", channel, "files", count)
	return domain.DownloadOutcome{Channel: channel, Success: true, Files: count}
}
