package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sinergialabs/receipt-intake/internal/entity"
	"github.com/sinergialabs/receipt-intake/internal/llm"
)

// ExtractFromText implements llm.FieldExtractor for the digital path: the
// document's own text goes to the model with the JSON-only instruction.
func (c *Client) ExtractFromText(ctx context.Context, text string) (entity.Record, error) {
	messages := []map[string]any{
		{"role": "system", "content": llm.BuildTextSystemPrompt()},
		{"role": "user", "content": text},
	}
	return c.extract(ctx, messages, "text", len(text))
}

// ExtractFromImage implements llm.FieldExtractor for the visual path: the
// image travels base64-encoded inside a data URL.
func (c *Client) ExtractFromImage(ctx context.Context, image []byte, mimeType string) (entity.Record, error) {
	messages := []map[string]any{
		{"role": "system", "content": llm.BuildVisionSystemPrompt()},
		{"role": "user", "content": []map[string]any{
			{"type": "text", "text": "Extract the fields from this receipt:"},
			{"type": "image_url", "image_url": map[string]any{"url": llm.EncodeDataURL(image, mimeType)}},
		}},
	}
	return c.extract(ctx, messages, "image", len(image))
}

func (c *Client) extract(ctx context.Context, messages []map[string]any, mode string, inputLen int) (entity.Record, error) {
	rid := uuid.New().String()
	start := time.Now()

	c.logger.Info("llm.extract.start",
		"req_id", rid,
		"model", c.cfg.Model,
		"temp", c.cfg.Temperature,
		"mode", mode,
		"input_len", inputLen,
	)

	body := map[string]any{
		"model":       c.cfg.Model,
		"temperature": c.cfg.Temperature,
		"messages":    messages,
	}

	endpoint := strings.TrimRight(c.cfg.BaseURL, "/") + "/chat/completions"
	raw, err := c.post(ctx, endpoint, body)
	if err != nil {
		c.logger.Error("llm.extract.http_error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return entity.Record{}, fmt.Errorf("%w: %v", llm.ErrExtractionService, err)
	}

	var cc struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(raw, &cc); err != nil {
		c.logger.Error("llm.extract.decode_error",
			"req_id", rid, "error", err, "raw_bytes", len(raw),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return entity.Record{}, fmt.Errorf("%w: decode response: %v", llm.ErrExtractionService, err)
	}
	if len(cc.Choices) == 0 {
		c.logger.Error("llm.extract.no_choices",
			"req_id", rid,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return entity.Record{}, fmt.Errorf("%w: no choices in response", llm.ErrExtractionService)
	}
	content := strings.TrimSpace(cc.Choices[0].Message.Content)

	rec, ok := llm.RecoverRecord(content, c.logger)
	if !ok {
		// Malformed output degrades, never fails: the full reply is kept in
		// raw_text for a human to read.
		c.logger.Warn("llm.extract.degraded",
			"req_id", rid, "content_len", len(content),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return entity.Record{RawText: content}, nil
	}

	c.logger.Info("llm.extract.ok",
		"req_id", rid,
		"supplier", rec.Supplier,
		"amount", rec.Amount,
		"document_date", rec.DocumentDate,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return rec, nil
}

func (c *Client) post(ctx context.Context, url string, body map[string]any) ([]byte, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openai http error: %w", err)
	}
	defer func(Body io.ReadCloser) {
		err := Body.Close()
		if err != nil {
			c.logger.Warn("openai response body close error", "error", err)
		}
	}(resp.Body)

	buf := new(bytes.Buffer)
	_, _ = buf.ReadFrom(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("openai status %d: %s", resp.StatusCode, buf.String())
	}
	return buf.Bytes(), nil
}
