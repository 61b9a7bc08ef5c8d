package channel

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// ErrMediaUnavailable marks a channel-side media fetch failure: the id cannot
// be resolved or the binary download is rejected.
var ErrMediaUnavailable = errors.New("media unavailable")

// RawMedia is the downloaded attachment content. It is passed by value through
// the extraction stages and never persisted.
type RawMedia struct {
	Bytes     []byte
	MimeType  string
	SourceURL string
}

type mediaInfo struct {
	URL      string `json:"url"`
	MimeType string `json:"mime_type"`
}

// FetchMedia resolves a media id to its short-lived download URL and MIME type,
// then downloads the binary. Both calls are bearer-authenticated. No retry: a
// failure surfaces to the caller, which owns the user messaging.
func (c *Client) FetchMedia(ctx context.Context, mediaID string) (RawMedia, error) {
	reqID := uuid.New().String()
	start := time.Now()

	info, err := c.lookupMedia(ctx, mediaID)
	if err != nil {
		c.logger.Error("channel.media.lookup_error", "req_id", reqID, "media_id", mediaID, "error", err)
		return RawMedia{}, fmt.Errorf("%w: lookup %s: %v", ErrMediaUnavailable, mediaID, err)
	}

	data, err := c.download(ctx, info.URL)
	if err != nil {
		c.logger.Error("channel.media.download_error", "req_id", reqID, "media_id", mediaID, "error", err)
		return RawMedia{}, fmt.Errorf("%w: download %s: %v", ErrMediaUnavailable, mediaID, err)
	}

	c.logger.Info("channel.media.ok",
		"req_id", reqID,
		"media_id", mediaID,
		"mime_type", info.MimeType,
		"bytes", len(data),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return RawMedia{Bytes: data, MimeType: info.MimeType, SourceURL: info.URL}, nil
}

func (c *Client) lookupMedia(ctx context.Context, mediaID string) (mediaInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+mediaID, nil)
	if err != nil {
		return mediaInfo{}, err
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return mediaInfo{}, err
	}
	defer closeBody(resp.Body, c.logger, mediaID)

	raw, _ := io.ReadAll(resp.Body)
	if resp.StatusCode/100 != 2 {
		return mediaInfo{}, fmt.Errorf("status %d: %s", resp.StatusCode, truncate(string(raw), 512))
	}
	var info mediaInfo
	if err := json.Unmarshal(raw, &info); err != nil {
		return mediaInfo{}, fmt.Errorf("decode media info: %w", err)
	}
	if info.URL == "" {
		return mediaInfo{}, errors.New("media info has no url")
	}
	return info, nil
}

func (c *Client) download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer closeBody(resp.Body, c.logger, url)

	if resp.StatusCode/100 != 2 {
		return nil, fmt.Errorf("status %d", resp.StatusCode)
	}
	return io.ReadAll(resp.Body)
}
