package archive

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nvr-archiver/internal/domain"
	"nvr-archiver/internal/namecache"
)

func TestScanner_FindsChannelsWithRecordings(t *testing.T) {
	dir := t.TempDir()
	namecache.Save(dir, "10.0.0.1", map[int]string{2: "front door"})

	client := &fakeClient{
		searchFn: func(call searchCall) ([]domain.Track, error) {
			switch call.trackID {
			case 201, 401:
				return []domain.Track{trackAt(0)}, nil
			case 301:
				return nil, errors.New("probe timeout")
			default:
				return nil, nil
			}
		},
		nameFn: func(channel int) (string, error) {
			if channel == 4 {
				return "Back Gate", nil
			}
			return "", errors.New("no name")
		},
	}

	scanner := NewScanner(client, dir, "10.0.0.1")
	channels, names, err := scanner.Scan(context.Background(), testWindow(), domain.Video, 4)

	require.NoError(t, err)
	assert.Equal(t, []int{2, 4}, channels)

	// probes are single-track listings
	for _, call := range client.searchCalls {
		assert.Equal(t, 1, call.pageSize)
	}

	// cached name wins without a device lookup
	assert.Equal(t, "front door", names[2])
	assert.NotContains(t, client.nameCalls, 2)
	assert.Equal(t, "Back Gate", names[4])
}

func TestScanner_PersistsDiscoveredNames(t *testing.T) {
	dir := t.TempDir()

	client := &fakeClient{
		searchFn: func(call searchCall) ([]domain.Track, error) {
			if call.trackID == 101 {
				return []domain.Track{trackAt(0)}, nil
			}
			return nil, nil
		},
		nameFn: func(channel int) (string, error) {
			return "Lobby", nil
		},
	}

	scanner := NewScanner(client, dir, "10.0.0.1")
	_, _, err := scanner.Scan(context.Background(), testWindow(), domain.Video, 2)
	require.NoError(t, err)

	persisted := namecache.Load(dir, "10.0.0.1")
	assert.Equal(t, "Lobby", persisted[1])
}

func TestScanner_ProbeFailureMeansAbsent(t *testing.T) {
	client := &fakeClient{
		searchFn: func(call searchCall) ([]domain.Track, error) {
			return nil, errors.New("device unreachable")
		},
	}

	scanner := NewScanner(client, t.TempDir(), "10.0.0.1")
	channels, _, err := scanner.Scan(context.Background(), testWindow(), domain.Video, 8)

	require.NoError(t, err)
	assert.Empty(t, channels)
	assert.Equal(t, 8, client.searchCount())
}

func TestScanner_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	scanner := NewScanner(&fakeClient{}, t.TempDir(), "10.0.0.1")
	_, _, err := scanner.Scan(ctx, testWindow(), domain.Video, 8)

	assert.ErrorIs(t, err, context.Canceled)
}
