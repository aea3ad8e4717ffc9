package archive

import (
	"context"
	"log/slog"

	"nvr-archiver/internal/device"
	"nvr-archiver/internal/domain"
	"nvr-archiver/internal/metrics"
	"nvr-archiver/internal/namecache"
)

// Scanner probes a channel range to discover which channels hold any
// recordings in a window, and resolves display names for them.
type Scanner struct {
	client     device.Client
	archiveDir string
	nvrID      string
}

func NewScanner(client device.Client, archiveDir, nvrID string) *Scanner {
	return &Scanner{client: client, archiveDir: archiveDir, nvrID: nvrID}
}

// Scan probes channels 1..ceiling with single-track listings and returns
// the channels that have recordings plus the channel-name map for the run.
// A probe failure is indistinguishable from an absent channel: it is logged
// and the candidate skipped, which keeps scan cost bounded at the price of
// possibly under-reporting during transient device trouble.
//
// Freshly discovered names are merged into the cached map (cached entries
// win) and persisted before returning.
func (s *Scanner) Scan(ctx context.Context, window domain.TimeWindow, contentType domain.ContentType, ceiling int) ([]int, map[int]string, error) {
	slog.Info("scanning for channels with recordings", "nvr", s.nvrID, "ceiling", ceiling)

	cached := namecache.Load(s.archiveDir, s.nvrID)
	discovered := map[int]string{}

	var channels []int
	for channel := 1; channel <= ceiling; channel++ {
		if err := ctx.Err(); err != nil {
			return nil, nil, err
		}

		metrics.ChannelsScanned.Inc()

		tracks, err := s.client.SearchTracks(ctx, window, 1, contentType.TrackID(channel))
		if err != nil {
			slog.Debug("channel probe failed, treating as absent", "channel", channel, "error", err)
			continue
		}
		if len(tracks) == 0 {
			continue
		}

		channels = append(channels, channel)
		slog.Info("channel has recordings", "channel", channel)

		if _, ok := cached[channel]; !ok {
			if name, err := s.client.ChannelName(ctx, channel); err == nil {
				discovered[channel] = name
			}
		}
	}

	names := namecache.Merge(cached, discovered)
	if len(discovered) > 0 {
		namecache.Save(s.archiveDir, s.nvrID, names)
	}

	slog.Info("channel scan complete", "found", len(channels))
	return channels, names, nil
}
