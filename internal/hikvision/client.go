// Package hikvision implements the device.Client contract against the ISAPI
// interface of Hikvision NVRs and DVRs.
package hikvision

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/icholy/digest"

	"nvr-archiver/internal/device"
)

const downloadTimeout = 30 * time.Minute

// Client talks to one NVR. After a successful Authenticate it is safe for
// concurrent use: the digest transport re-challenges per request and no
// other state is mutated.
type Client struct {
	baseURL  string
	http     *http.Client
	download *http.Client
}

// New builds a client for the NVR at host. timeout bounds control-plane
// requests; file transfers get a separate, much longer budget.
func New(host, username, password string, timeout time.Duration) *Client {
	transport := &digest.Transport{
		Username: username,
		Password: password,
	}

	return &Client{
		baseURL:  "http://" + host,
		http:     &http.Client{Transport: transport, Timeout: timeout},
		download: &http.Client{Transport: transport, Timeout: downloadTimeout},
	}
}

// Authenticate verifies credentials with a device-info request.
func (c *Client) Authenticate(ctx context.Context) error {
	resp, err := c.get(ctx, "/ISAPI/System/deviceInfo")
	if err != nil {
		return fmt.Errorf("reach device: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return device.ErrUnauthorized
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("device returned status %s", resp.Status)
	}
	return nil
}

// TimeOffset reads the device clock and reports its offset from UTC.
func (c *Client) TimeOffset(ctx context.Context) (time.Duration, error) {
	resp, err := c.get(ctx, "/ISAPI/System/time")
	if err != nil {
		return 0, fmt.Errorf("query device time: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("device time query returned status %s", resp.Status)
	}

	var info struct {
		LocalTime string `xml:"localTime"`
	}
	if err := xml.NewDecoder(resp.Body).Decode(&info); err != nil {
		return 0, fmt.Errorf("decode device time: %w", err)
	}

	local, err := time.Parse(time.RFC3339, info.LocalTime)
	if err != nil {
		return 0, fmt.Errorf("parse device local time %q: %w", info.LocalTime, err)
	}

	_, seconds := local.Zone()
	return time.Duration(seconds) * time.Second, nil
}

// ChannelName looks up the configured display name of an input channel.
func (c *Client) ChannelName(ctx context.Context, channel int) (string, error) {
	resp, err := c.get(ctx, fmt.Sprintf("/ISAPI/ContentMgmt/InputProxy/channels/%d", channel))
	if err != nil {
		return "", fmt.Errorf("query channel name: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("channel name query returned status %s", resp.Status)
	}

	var info struct {
		Name string `xml:"name"`
	}
	if err := xml.NewDecoder(resp.Body).Decode(&info); err != nil {
		return "", fmt.Errorf("decode channel info: %w", err)
	}

	name := strings.TrimSpace(info.Name)
	if name == "" {
		return "", errors.New("channel has no name configured")
	}
	return name, nil
}

// DownloadFile transfers one recording to destPath, classifying the result
// so the caller can decide between retrying and giving up.
func (c *Client) DownloadFile(ctx context.Context, playbackURI, destPath string) device.FileResult {
	body := downloadRequestXML(playbackURI)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/ISAPI/ContentMgmt/download", strings.NewReader(body))
	if err != nil {
		return device.FileResult{Kind: device.ResultOther, Text: err.Error()}
	}
	req.Header.Set("Content-Type", "application/xml")

	resp, err := c.download.Do(req)
	if err != nil {
		if isTimeout(err) {
			return device.FileResult{Kind: device.ResultTimeout, Text: err.Error()}
		}
		return device.FileResult{Kind: device.ResultOther, Text: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		text, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return device.FileResult{
			Kind: device.ResultDeviceError,
			Text: fmt.Sprintf("status %s: %s", resp.Status, strings.TrimSpace(string(text))),
		}
	}

	file, err := os.Create(destPath)
	if err != nil {
		return device.FileResult{Kind: device.ResultOther, Text: fmt.Sprintf("create file: %v", err)}
	}
	defer file.Close()

	written, err := io.Copy(file, resp.Body)
	if err != nil {
		os.Remove(destPath)
		if isTimeout(err) {
			return device.FileResult{Kind: device.ResultTimeout, Text: err.Error()}
		}
		return device.FileResult{Kind: device.ResultOther, Text: fmt.Sprintf("save file: %v", err)}
	}

	slog.Debug("file transferred", "path", destPath, "bytes", written)
	return device.FileResult{Kind: device.ResultOK}
}

func (c *Client) get(ctx context.Context, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, err
	}
	return c.http.Do(req)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
