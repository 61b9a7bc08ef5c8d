package submit

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/sinergialabs/receipt-intake/internal/entity"
)

// ErrDownstream marks a rejected or unreachable bookkeeping submission. Never
// retried automatically; recovery is user-driven.
var ErrDownstream = errors.New("downstream submission failed")

// Recorder is notified of every successful submission. The journal implements
// it; a nil recorder disables journaling.
type Recorder interface {
	Record(senderID string, rec entity.Record, submittedAt time.Time)
}

// Config for the downstream client.
type Config struct {
	SinkURL string
	Timeout time.Duration
}

// Client posts confirmed records to the bookkeeping sink, one POST per
// confirmation, with sender and date normalized to the sink's formats.
type Client struct {
	cfg      Config
	http     *http.Client
	recorder Recorder
	logger   *slog.Logger
}

func NewClient(cfg Config, recorder Recorder, logger *slog.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		cfg:      cfg,
		http:     &http.Client{Timeout: cfg.Timeout},
		recorder: recorder,
		logger:   logger,
	}
}

// sinkPayload is the downstream contract's field mapping.
type sinkPayload struct {
	UserPhone    string `json:"user_phone"`
	FileURL      string `json:"file_url"`
	Supplier     string `json:"supplier"`
	TaxID        string `json:"tax_id"`
	Amount       string `json:"amount"`
	DocumentDate string `json:"document_date"`
	Description  string `json:"description"`
	OCRText      string `json:"ocr_text"`
}

// Submit posts one confirmed record. Success is any 2xx; the response body is
// not interpreted beyond logging.
func (c *Client) Submit(ctx context.Context, senderID string, rec entity.Record) error {
	reqID := uuid.New().String()
	start := time.Now()

	if c.cfg.SinkURL == "" {
		return fmt.Errorf("%w: sink url not configured", ErrDownstream)
	}

	payload := sinkPayload{
		UserPhone:    NormalizePhone(senderID),
		FileURL:      rec.SourceFileURL,
		Supplier:     rec.Supplier,
		TaxID:        rec.TaxID,
		Amount:       rec.Amount,
		DocumentDate: NormalizeDate(rec.DocumentDate),
		Description:  rec.Description,
		OCRText:      rec.RawText,
	}
	bs, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("%w: encode payload: %v", ErrDownstream, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.SinkURL, bytes.NewReader(bs))
	if err != nil {
		return fmt.Errorf("%w: build request: %v", ErrDownstream, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Error("submit.send_error", "req_id", reqID, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds())
		return fmt.Errorf("%w: %v", ErrDownstream, err)
	}
	defer func(body io.ReadCloser) {
		if cErr := body.Close(); cErr != nil {
			c.logger.Warn("submit.body_close_error", "req_id", reqID, "error", cErr)
		}
	}(resp.Body)

	raw, _ := io.ReadAll(resp.Body)
	c.logger.Info("submit.response",
		"req_id", reqID,
		"status", resp.StatusCode,
		"bytes", len(raw),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("%w: status %d", ErrDownstream, resp.StatusCode)
	}

	if c.recorder != nil {
		c.recorder.Record(senderID, rec, time.Now().UTC())
	}
	return nil
}
