// Command extractfile runs the extraction chain on a local file and prints the
// canonical record, for debugging prompts and the PDF classification without
// going through the webhook.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path/filepath"

	"github.com/sinergialabs/receipt-intake/internal/channel"
	"github.com/sinergialabs/receipt-intake/internal/config"
	"github.com/sinergialabs/receipt-intake/internal/extract"
	"github.com/sinergialabs/receipt-intake/internal/llm/openai"
)

// localFetcher serves a file from disk in place of the channel's media API.
type localFetcher struct {
	path     string
	mimeType string
}

func (f localFetcher) FetchMedia(_ context.Context, _ string) (channel.RawMedia, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return channel.RawMedia{}, fmt.Errorf("%w: %v", channel.ErrMediaUnavailable, err)
	}
	return channel.RawMedia{Bytes: data, MimeType: f.mimeType, SourceURL: "file://" + f.path}, nil
}

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	if len(os.Args) != 2 {
		logger.Error("usage", "cmd", "extractfile <path-to-receipt>")
		os.Exit(2)
	}
	path := os.Args[1]

	mimeType := mime.TypeByExtension(filepath.Ext(path))
	if mimeType == "" {
		logger.Error("cannot infer mime type from extension", "path", path)
		os.Exit(2)
	}

	cfg := config.Load()
	ctx, cancel := context.WithTimeout(context.Background(), cfg.LLM.Timeout)
	defer cancel()

	fields := openai.NewClient(openai.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	}, logger)
	raster := extract.NewRasterizer(extract.RasterConfig{
		Pdftoppm: cfg.Raster.Pdftoppm,
		DPI:      cfg.Raster.DPI,
	}, logger)

	o := extract.NewOrchestrator(localFetcher{path: path, mimeType: mimeType}, fields, raster, logger)
	rec, err := o.Extract(ctx, extract.Attachment{MediaID: path, MimeType: mimeType})
	if err != nil {
		logger.Error("extract failed", "error", err)
		os.Exit(1)
	}

	out, _ := json.MarshalIndent(rec, "", "  ")
	fmt.Println(string(out))
}
