package hikvision

import (
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"

	"nvr-archiver/internal/domain"
)

const (
	isapiSchema     = "http://www.hikvision.com/ver20/XMLSchema"
	isapiTimeLayout = "2006-01-02T15:04:05Z"
)

type searchDescription struct {
	XMLName    xml.Name `xml:"CMSearchDescription"`
	Xmlns      string   `xml:"xmlns,attr"`
	SearchID   string   `xml:"searchID"`
	TrackID    int      `xml:"trackList>trackID"`
	StartTime  string   `xml:"timeSpanList>timeSpan>startTime"`
	EndTime    string   `xml:"timeSpanList>timeSpan>endTime"`
	Position   int      `xml:"searchResultPosition"`
	MaxResults int      `xml:"maxResults"`
}

type searchResult struct {
	XMLName        xml.Name      `xml:"CMSearchResult"`
	ResponseStatus bool          `xml:"responseStatus"`
	Matches        []searchMatch `xml:"matchList>searchMatchItem"`
}

type searchMatch struct {
	StartTime   string `xml:"timeSpan>startTime"`
	EndTime     string `xml:"timeSpan>endTime"`
	PlaybackURI string `xml:"mediaSegmentDescriptor>playbackURI"`
}

type downloadRequest struct {
	XMLName     xml.Name `xml:"downloadRequest"`
	Xmlns       string   `xml:"xmlns,attr"`
	PlaybackURI string   `xml:"playbackURI"`
}

// SearchTracks lists up to pageSize recorded tracks for trackID inside a
// UTC window, in the order the device returns them.
func (c *Client) SearchTracks(ctx context.Context, window domain.TimeWindow, pageSize, trackID int) ([]domain.Track, error) {
	desc := searchDescription{
		Xmlns:      isapiSchema,
		SearchID:   uuid.New().String(),
		TrackID:    trackID,
		StartTime:  window.Start.Format(isapiTimeLayout),
		EndTime:    window.End.Format(isapiTimeLayout),
		MaxResults: pageSize,
	}

	body, err := xml.Marshal(desc)
	if err != nil {
		return nil, fmt.Errorf("marshal search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/ISAPI/ContentMgmt/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/xml")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("search returned status %s: %s", resp.Status, text)
	}

	var result searchResult
	if err := xml.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode search result: %w", err)
	}
	if !result.ResponseStatus {
		return nil, fmt.Errorf("device rejected search for track %d", trackID)
	}

	tracks := make([]domain.Track, 0, len(result.Matches))
	for _, match := range result.Matches {
		track, err := match.toTrack(window.Offset)
		if err != nil {
			return nil, fmt.Errorf("malformed search match: %w", err)
		}
		tracks = append(tracks, track)
	}

	return tracks, nil
}

func (m searchMatch) toTrack(offset time.Duration) (domain.Track, error) {
	start, err := time.Parse(time.RFC3339, m.StartTime)
	if err != nil {
		return domain.Track{}, fmt.Errorf("parse track start %q: %w", m.StartTime, err)
	}

	end, err := time.Parse(time.RFC3339, m.EndTime)
	if err != nil {
		return domain.Track{}, fmt.Errorf("parse track end %q: %w", m.EndTime, err)
	}

	return domain.Track{
		Window: domain.TimeWindow{
			Start:  start.UTC(),
			End:    end.UTC(),
			Offset: offset,
		},
		PlaybackURI: m.PlaybackURI,
	}, nil
}

func downloadRequestXML(playbackURI string) string {
	body, err := xml.Marshal(downloadRequest{Xmlns: isapiSchema, PlaybackURI: playbackURI})
	if err != nil {
		// A string field cannot fail to marshal.
		panic(err)
	}
	return xml.Header + string(body)
}
