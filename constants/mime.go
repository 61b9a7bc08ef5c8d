package constants

import "strings"

// MimeFamily is the coarse classification driving the extraction strategy.
type MimeFamily string

const (
	// FamilyImage covers image/* attachments sent straight to visual extraction.
	FamilyImage MimeFamily = "IMAGE"
	// FamilyPDF covers application/pdf attachments (digital or scanned).
	FamilyPDF MimeFamily = "PDF"
	// FamilyUnsupported is everything else; no extraction path exists.
	FamilyUnsupported MimeFamily = "UNSUPPORTED"
)

const MimePDF = "application/pdf"

// ClassifyMime maps a declared MIME type to its extraction family.
// Parameters after a semicolon (e.g. "image/jpeg; q=1") are ignored.
func ClassifyMime(mimeType string) MimeFamily {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.IndexByte(mt, ';'); i >= 0 {
		mt = strings.TrimSpace(mt[:i])
	}
	switch {
	case strings.HasPrefix(mt, "image/"):
		return FamilyImage
	case mt == MimePDF:
		return FamilyPDF
	default:
		return FamilyUnsupported
	}
}
