package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	DownloadsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nvr_archiver_downloads_total",
		Help: "Total number of file download attempts",
	})

	DownloadsSuccess = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nvr_archiver_downloads_success_total",
		Help: "Total number of successful file downloads",
	})

	DownloadsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nvr_archiver_downloads_failed_total",
		Help: "Total number of failed download attempts",
	})

	DownloadsSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nvr_archiver_downloads_skipped_total",
		Help: "Total number of files skipped by path validation",
	})

	TracksListed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nvr_archiver_tracks_listed_total",
		Help: "Total number of tracks returned by listing queries",
	})

	ChannelsScanned = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nvr_archiver_channels_scanned_total",
		Help: "Total number of channels probed during discovery",
	})
)
