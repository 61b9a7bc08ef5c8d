package llm

import (
	"context"
	"errors"

	"github.com/sinergialabs/receipt-intake/internal/entity"
)

// ErrExtractionService marks a failure of the hosted extraction call itself
// (transport error, non-2xx, empty choices) -- as opposed to the service
// returning unparseable content, which is recovered locally and never errors.
var ErrExtractionService = errors.New("extraction service error")

// FieldExtractor is the interface the extraction orchestrator depends on.
// Both entry points share one contract: they always return a structurally
// valid record on success, with unextracted fields set to "".
type FieldExtractor interface {
	ExtractFromText(ctx context.Context, text string) (entity.Record, error)
	ExtractFromImage(ctx context.Context, image []byte, mimeType string) (entity.Record, error)
}
