package archive

import (
	"context"
	"errors"
	"sync"
	"time"

	"nvr-archiver/internal/device"
	"nvr-archiver/internal/domain"
)

type searchCall struct {
	window   domain.TimeWindow
	pageSize int
	trackID  int
}

// fakeClient scripts device behavior per test through function fields and
// records every search call.
type fakeClient struct {
	mu          sync.Mutex
	searchFn    func(call searchCall) ([]domain.Track, error)
	downloadFn  func(playbackURI, destPath string) device.FileResult
	nameFn      func(channel int) (string, error)
	searchCalls []searchCall
	nameCalls   []int
}

func (f *fakeClient) Authenticate(ctx context.Context) error { return nil }

func (f *fakeClient) TimeOffset(ctx context.Context) (time.Duration, error) { return 0, nil }

func (f *fakeClient) SearchTracks(ctx context.Context, window domain.TimeWindow, pageSize, trackID int) ([]domain.Track, error) {
	call := searchCall{window: window, pageSize: pageSize, trackID: trackID}

	f.mu.Lock()
	f.searchCalls = append(f.searchCalls, call)
	fn := f.searchFn
	f.mu.Unlock()

	if fn == nil {
		return nil, nil
	}
	return fn(call)
}

func (f *fakeClient) DownloadFile(ctx context.Context, playbackURI, destPath string) device.FileResult {
	f.mu.Lock()
	fn := f.downloadFn
	f.mu.Unlock()

	if fn == nil {
		return device.FileResult{Kind: device.ResultOK}
	}
	return fn(playbackURI, destPath)
}

func (f *fakeClient) ChannelName(ctx context.Context, channel int) (string, error) {
	f.mu.Lock()
	f.nameCalls = append(f.nameCalls, channel)
	fn := f.nameFn
	f.mu.Unlock()

	if fn == nil {
		return "", errors.New("no name available")
	}
	return fn(channel)
}

func (f *fakeClient) searchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.searchCalls)
}

// trackAt builds a track spanning [hour, hour+1) on a fixed day.
func trackAt(hour int) domain.Track {
	start := time.Date(2024, 11, 25, hour, 0, 0, 0, time.UTC)
	return domain.Track{
		Window:      domain.TimeWindow{Start: start, End: start.Add(time.Hour)},
		PlaybackURI: "rtsp://device/track",
	}
}

func testWindow() domain.TimeWindow {
	return domain.TimeWindow{
		Start: time.Date(2024, 11, 25, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 11, 26, 0, 0, 0, 0, time.UTC),
	}
}
