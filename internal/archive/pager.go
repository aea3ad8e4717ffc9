// Package archive drives recorded-media retrieval from a multi-channel NVR:
// channel discovery, paginated track enumeration and bounded-concurrency
// per-channel downloads.
package archive

import (
	"context"
	"log/slog"

	"nvr-archiver/internal/device"
	"nvr-archiver/internal/domain"
	"nvr-archiver/internal/metrics"
)

// Pager enumerates all recordings for one channel and time window through
// repeated paginated search queries.
type Pager struct {
	client   device.Client
	pageSize int
}

func NewPager(client device.Client, pageSize int) *Pager {
	return &Pager{client: client, pageSize: pageSize}
}

// ListAll collects every track for the channel inside the UTC window. A
// short page ends enumeration; a full page advances the window start to the
// last track's end time and queries again. The advance relies on the device
// returning non-overlapping, time-ordered tracks.
//
// A query failure ends enumeration early: the tracks collected so far are
// returned together with the error, and the caller decides whether a
// partial list is usable.
func (p *Pager) ListAll(ctx context.Context, channel int, window domain.TimeWindow, contentType domain.ContentType) ([]domain.Track, error) {
	trackID := contentType.TrackID(channel)
	search := window

	var tracks []domain.Track
	for {
		page, err := p.client.SearchTracks(ctx, search, p.pageSize, trackID)
		if err != nil {
			slog.Error("track listing query failed", "channel", channel, "collected", len(tracks), "error", err)
			return tracks, err
		}

		tracks = append(tracks, page...)
		metrics.TracksListed.Add(float64(len(page)))

		if len(page) < p.pageSize {
			return tracks, nil
		}

		search.Start = page[len(page)-1].Window.End
	}
}
