package channel

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Client talks to the WhatsApp Cloud API (Graph): outbound text messages and
// media retrieval.
type Client struct {
	baseURL       string
	accessToken   string
	phoneNumberID string
	httpClient    *http.Client
	logger        *slog.Logger
}

// Config for the channel client. Zero values get sensible defaults.
type Config struct {
	BaseURL       string
	AccessToken   string
	PhoneNumberID string
	Timeout       time.Duration
}

func NewClient(cfg Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://graph.facebook.com/v19.0"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &Client{
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		accessToken:   cfg.AccessToken,
		phoneNumberID: cfg.PhoneNumberID,
		httpClient:    &http.Client{Timeout: cfg.Timeout},
		logger:        logger,
	}
}

// SendText posts one text message to a recipient via the send-message API.
func (c *Client) SendText(ctx context.Context, to, body string) error {
	reqID := uuid.New().String()
	start := time.Now()

	payload := map[string]any{
		"messaging_product": "whatsapp",
		"to":                to,
		"type":              "text",
		"text":              map[string]string{"body": body},
	}
	bs, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode send-message payload: %w", err)
	}

	url := c.baseURL + "/" + c.phoneNumberID + "/messages"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bs))
	if err != nil {
		return fmt.Errorf("build send-message request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("channel.send.error", "req_id", reqID, "to", to, "error", err)
		return fmt.Errorf("send message: %w", err)
	}
	defer closeBody(resp.Body, c.logger, reqID)

	raw, _ := io.ReadAll(resp.Body)
	c.logger.Info("channel.send.response",
		"req_id", reqID,
		"to", to,
		"status", resp.StatusCode,
		"bytes", len(raw),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("send message: status %d: %s", resp.StatusCode, truncate(string(raw), 512))
	}
	return nil
}

func closeBody(body io.ReadCloser, logger *slog.Logger, reqID string) {
	if err := body.Close(); err != nil {
		logger.Warn("channel.body_close_error", "req_id", reqID, "error", err)
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
