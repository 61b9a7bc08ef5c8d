package extract

import (
	"context"
	"errors"

	"github.com/sinergialabs/receipt-intake/internal/channel"
	"github.com/sinergialabs/receipt-intake/internal/entity"
)

var (
	// ErrUnsupportedAttachment marks a MIME type with no extraction path. The
	// caller messages the user instead of creating a pending entry.
	ErrUnsupportedAttachment = errors.New("unsupported attachment type")

	// ErrRasterizationFailed marks a scanned-PDF conversion failure: the
	// external process exited non-zero or produced no output file.
	ErrRasterizationFailed = errors.New("rasterization failed")
)

// Attachment is an inbound file reference carried by a chat message. Consumed
// exactly once per extraction; not retained afterwards.
type Attachment struct {
	MediaID  string
	MimeType string
	SizeHint int
}

// MediaFetcher resolves an opaque attachment reference into raw bytes and a
// declared content type.
type MediaFetcher interface {
	FetchMedia(ctx context.Context, mediaID string) (channel.RawMedia, error)
}

// Extractor is the one operation the conversation layer needs: attachment in,
// canonical record out.
type Extractor interface {
	Extract(ctx context.Context, att Attachment) (entity.Record, error)
}
