// Package device defines the contract the archiving core consumes from an
// NVR client. Transport, authentication handshakes and response parsing all
// live behind this interface.
package device

import (
	"context"
	"errors"
	"time"

	"nvr-archiver/internal/domain"
)

// ErrUnauthorized reports rejected credentials during Authenticate.
var ErrUnauthorized = errors.New("unauthorized: check login and password")

// ResultKind classifies the outcome of a single file transfer. There is no
// silent-failure state: every transfer maps onto one of these.
type ResultKind int

const (
	ResultOK ResultKind = iota
	ResultTimeout
	ResultDeviceError
	ResultOther
)

// FileResult is the transfer primitive's verdict plus any device-supplied
// or transport-supplied detail text.
type FileResult struct {
	Kind ResultKind
	Text string
}

// Client is the device-API collaborator. Implementations keep the
// authenticated session internally; after a successful Authenticate the
// client is safe for concurrent read-only use by all channel workers.
type Client interface {
	// Authenticate verifies credentials against the device. Returns
	// ErrUnauthorized when they are rejected.
	Authenticate(ctx context.Context) error

	// SearchTracks lists up to pageSize recorded tracks for a device track
	// id inside a UTC window, in device (time) order.
	SearchTracks(ctx context.Context, window domain.TimeWindow, pageSize, trackID int) ([]domain.Track, error)

	// DownloadFile transfers one recording to destPath.
	DownloadFile(ctx context.Context, playbackURI, destPath string) FileResult

	// TimeOffset reports the device's local-time offset from UTC.
	TimeOffset(ctx context.Context) (time.Duration, error)

	// ChannelName looks up a display name for a channel. Best effort: an
	// error means only that no name is available.
	ChannelName(ctx context.Context, channel int) (string, error)
}
