package extract

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/sinergialabs/receipt-intake/constants"
	"github.com/sinergialabs/receipt-intake/internal/entity"
	"github.com/sinergialabs/receipt-intake/internal/llm"
)

const (
	// minViableTextLen is the whitespace-stripped length above which a PDF is
	// treated as digital. PDFs can carry a handful of non-informative embedded
	// glyphs (headers, footers) even when the body is a scanned image; a low
	// but nonzero count must not be misclassified as digital.
	minViableTextLen = 20

	// textBudgetChars caps what is sent to the extraction service for digital
	// PDFs, to bound cost and latency. The record's raw_text always carries
	// the full untruncated text.
	textBudgetChars = 16000
)

// Orchestrator composes the media fetcher, text-layer extractor, rasterizer,
// and field extractor into one extract-per-attachment operation, dispatched by
// MIME family.
type Orchestrator struct {
	fetcher   MediaFetcher
	fields    llm.FieldExtractor
	raster    *Rasterizer
	textLayer func([]byte) string
	logger    *slog.Logger
}

func NewOrchestrator(fetcher MediaFetcher, fields llm.FieldExtractor, raster *Rasterizer, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		fetcher:   fetcher,
		fields:    fields,
		raster:    raster,
		textLayer: TextLayer,
		logger:    logger,
	}
}

// Extract resolves the attachment and runs the fallback chain for its MIME
// family. Native text is tried first for PDFs because it is far cheaper and
// more accurate than visual OCR when available.
func (o *Orchestrator) Extract(ctx context.Context, att Attachment) (entity.Record, error) {
	family := constants.ClassifyMime(att.MimeType)
	if family == constants.FamilyUnsupported {
		return entity.Record{}, fmt.Errorf("%w: %q", ErrUnsupportedAttachment, att.MimeType)
	}

	start := time.Now()
	media, err := o.fetcher.FetchMedia(ctx, att.MediaID)
	if err != nil {
		return entity.Record{}, fmt.Errorf("fetch attachment: %w", err)
	}

	var rec entity.Record
	switch family {
	case constants.FamilyImage:
		rec, err = o.fields.ExtractFromImage(ctx, media.Bytes, media.MimeType)
	case constants.FamilyPDF:
		rec, err = o.extractPDF(ctx, media.Bytes)
	}
	if err != nil {
		return entity.Record{}, err
	}

	rec.SourceFileURL = media.SourceURL
	o.logger.Info("extract.ok",
		"media_id", att.MediaID,
		"mime_type", att.MimeType,
		"family", string(family),
		"structured_empty", rec.IsEmpty(),
		"raw_text_len", len(rec.RawText),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return rec, nil
}

func (o *Orchestrator) extractPDF(ctx context.Context, data []byte) (entity.Record, error) {
	full := o.textLayer(data)

	if IsDigitalText(full) {
		o.logger.Info("extract.pdf.digital", "text_len", len(full))
		input := full
		if len(input) > textBudgetChars {
			input = input[:textBudgetChars]
		}
		rec, err := o.fields.ExtractFromText(ctx, input)
		if err != nil {
			return entity.Record{}, err
		}
		// raw_text must reflect everything that was read, even if only a
		// prefix was analyzed.
		rec.RawText = full
		return rec, nil
	}

	o.logger.Info("extract.pdf.scanned", "stripped_len", len(stripWhitespace(full)))
	img, err := o.raster.RasterizeFirstPage(ctx, data)
	if err != nil {
		// A failed OCR attempt must still let the conversation continue.
		o.logger.Warn("extract.pdf.raster_failed", "error", err)
		return entity.Record{}, nil
	}
	return o.fields.ExtractFromImage(ctx, img, "image/png")
}

// IsDigitalText classifies PDF text as digital when its whitespace-stripped
// length exceeds the minimum viable signal. Pure and deterministic.
func IsDigitalText(text string) bool {
	return len(stripWhitespace(text)) > minViableTextLen
}

func stripWhitespace(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if !unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}
