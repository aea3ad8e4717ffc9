package archive

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"nvr-archiver/internal/device"
	"nvr-archiver/internal/domain"
	"nvr-archiver/internal/metrics"
	"nvr-archiver/internal/pathsafety"
	"nvr-archiver/internal/retry"
)

// Downloader fetches the recordings of a single channel, one file at a
// time, retrying each transfer per its policy until it succeeds.
type Downloader struct {
	client     device.Client
	pager      *Pager
	archiveDir string
	nvrID      string
	policy     retry.Policy
	fileDelay  time.Duration
}

func NewDownloader(client device.Client, pager *Pager, archiveDir, nvrID string, policy retry.Policy, fileDelay time.Duration) *Downloader {
	return &Downloader{
		client:     client,
		pager:      pager,
		archiveDir: archiveDir,
		nvrID:      nvrID,
		policy:     policy,
		fileDelay:  fileDelay,
	}
}

// DownloadChannel lists all tracks for the channel and downloads them
// sequentially, pacing successful downloads with the inter-file delay.
// A listing failure with partial results keeps going with what was
// collected; a listing failure before any track is fatal for the channel.
func (d *Downloader) DownloadChannel(ctx context.Context, channel int, window domain.TimeWindow, contentType domain.ContentType, folder string) (int, error) {
	log := slog.With("channel", channel)
	log.Info("getting track list")

	tracks, listErr := d.pager.ListAll(ctx, channel, window, contentType)
	if listErr != nil && len(tracks) == 0 {
		return 0, fmt.Errorf("list tracks: %w", listErr)
	}
	log.Info("track list ready", "files", len(tracks), "partial", listErr != nil)

	downloaded := 0
	for i, track := range tracks {
		ok, err := d.DownloadTrack(ctx, channel, folder, track, contentType)
		if err != nil {
			return downloaded, err
		}
		if !ok {
			continue
		}
		downloaded++

		// pacing applies between files only, not after the last one
		if i < len(tracks)-1 {
			if err := retry.Sleep(ctx, d.fileDelay); err != nil {
				return downloaded, err
			}
		}
	}

	return downloaded, nil
}

// DownloadTrack fetches one recording. The destination path is built from
// sanitized components and validated against the archive root before any
// directory is created; a rejected path skips the file without retrying.
// Transfer failures are retried per the policy; a bounded policy that runs
// out of attempts also skips the file rather than failing the channel.
// The returned bool reports whether the file ended up on disk.
func (d *Downloader) DownloadTrack(ctx context.Context, channel int, folder string, track domain.Track, contentType domain.ContentType) (bool, error) {
	log := slog.With("channel", channel)

	stamp := pathsafety.Sanitize(track.Window.ToLocal().FilenameText())
	dest := filepath.Join(d.archiveDir, d.nvrID, folder, stamp+"."+contentType.Ext())

	if !pathsafety.Validate(dest, d.archiveDir) {
		log.Error("invalid destination path, skipping file", "path", dest)
		metrics.DownloadsSkipped.Inc()
		return false, nil
	}

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return false, fmt.Errorf("create channel directory: %w", err)
	}

	log.Info("downloading", "file", filepath.Base(dest))

	err := d.policy.Do(ctx, func() bool {
		return d.attempt(ctx, track, dest, log)
	})
	if err != nil {
		if errors.Is(err, retry.ErrExhausted) {
			log.Error("download abandoned", "file", filepath.Base(dest), "error", err)
			return false, nil
		}
		return false, err
	}

	return true, nil
}

func (d *Downloader) attempt(ctx context.Context, track domain.Track, dest string, log *slog.Logger) bool {
	metrics.DownloadsTotal.Inc()

	result := d.client.DownloadFile(ctx, track.PlaybackURI, dest)
	switch result.Kind {
	case device.ResultOK:
		metrics.DownloadsSuccess.Inc()
		return true
	case device.ResultTimeout:
		log.Error("timeout during file downloading")
	case device.ResultDeviceError:
		// No device reboot here: restarting the device would abort
		// sibling channel downloads.
		log.Error("device error during file downloading", "detail", result.Text)
	default:
		log.Error("file downloading failed", "detail", result.Text)
	}

	metrics.DownloadsFailed.Inc()
	return false
}

// folderFor picks the archive subdirectory for a channel: its sanitized
// display name when one is known, a channel_NN fallback otherwise.
func folderFor(channel int, names map[int]string) string {
	if name, ok := names[channel]; ok && name != "" {
		return pathsafety.Sanitize(name)
	}
	return fmt.Sprintf("channel_%02d", channel)
}
