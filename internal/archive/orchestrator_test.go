package archive

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nvr-archiver/internal/domain"
	"nvr-archiver/internal/retry"
)

func testOptions(t *testing.T) Options {
	t.Helper()
	return Options{
		NVRID:         "10.0.0.1",
		ArchiveDir:    t.TempDir(),
		PageSize:      10,
		MaxConcurrent: 3,
		ScanCeiling:   8,
		RetryPolicy:   retry.Policy{MaxAttempts: 3},
	}
}

func TestRun_EmptyChannelSetIsNotAnError(t *testing.T) {
	client := &fakeClient{}

	orch := NewOrchestrator(client, testOptions(t))
	results, err := orch.Run(context.Background(), testWindow(), domain.Video, nil)

	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRun_ConcurrencyCap(t *testing.T) {
	var (
		mu        sync.Mutex
		active    int
		maxActive int
	)

	client := &fakeClient{
		searchFn: func(call searchCall) ([]domain.Track, error) {
			mu.Lock()
			active++
			if active > maxActive {
				maxActive = active
			}
			mu.Unlock()

			time.Sleep(30 * time.Millisecond)

			mu.Lock()
			active--
			mu.Unlock()
			return nil, nil
		},
	}

	opts := testOptions(t)
	opts.MaxConcurrent = 2

	orch := NewOrchestrator(client, opts)
	results, err := orch.Run(context.Background(), testWindow(), domain.Video, []int{1, 2, 3, 4, 5})

	require.NoError(t, err)
	assert.Len(t, results, 5)
	assert.LessOrEqual(t, maxActive, 2, "no instant may have more than 2 active workers")
	assert.Equal(t, 2, maxActive, "the cap should actually be reached")
}

func TestRun_OneOutcomePerChannel(t *testing.T) {
	client := &fakeClient{
		searchFn: func(call searchCall) ([]domain.Track, error) {
			switch call.trackID {
			case 201:
				return nil, errors.New("listing blew up")
			default:
				return []domain.Track{trackAt(8)}, nil
			}
		},
	}

	orch := NewOrchestrator(client, testOptions(t))
	results, err := orch.Run(context.Background(), testWindow(), domain.Video, []int{1, 2, 3})

	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.True(t, results[1].Success)
	assert.Equal(t, 1, results[1].Files)
	assert.False(t, results[2].Success)
	assert.Contains(t, results[2].Err, "listing blew up")
	assert.True(t, results[3].Success)
	assert.Equal(t, 1, results[3].Files)
}

func TestRun_SummaryCountsOutcomes(t *testing.T) {
	client := &fakeClient{
		searchFn: func(call searchCall) ([]domain.Track, error) {
			if call.trackID == 201 {
				return nil, errors.New("listing blew up")
			}
			return []domain.Track{trackAt(8)}, nil
		},
	}

	orch := NewOrchestrator(client, testOptions(t))
	results, err := orch.Run(context.Background(), testWindow(), domain.Video, []int{1, 2, 3})
	require.NoError(t, err)

	var buf bytes.Buffer
	WriteSummary(&buf, "10.0.0.1", results)
	report := buf.String()

	assert.Contains(t, report, "DOWNLOAD SUMMARY FOR NVR: 10.0.0.1")
	assert.Contains(t, report, "Total channels processed: 3")
	assert.Contains(t, report, "Successful: 2")
	assert.Contains(t, report, "Failed: 1")
	assert.Contains(t, report, "Total files downloaded: 2")
	assert.Contains(t, report, "Channel 02: ")
	assert.Contains(t, report, "listing blew up")
}

func TestRun_ScansWhenNoExplicitChannels(t *testing.T) {
	client := &fakeClient{
		searchFn: func(call searchCall) ([]domain.Track, error) {
			if call.trackID == 301 {
				return []domain.Track{trackAt(8)}, nil
			}
			return nil, nil
		},
	}

	orch := NewOrchestrator(client, testOptions(t))
	results, err := orch.Run(context.Background(), testWindow(), domain.Video, nil)

	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.True(t, results[3].Success)
}
