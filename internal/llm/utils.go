package llm

import (
	"encoding/base64"
	"strings"
)

// EncodeDataURL packages binary content as a base64 data URL for the vision
// message format.
func EncodeDataURL(data []byte, mimeType string) string {
	mt := strings.TrimSpace(mimeType)
	if mt == "" {
		mt = "application/octet-stream"
	}
	return "data:" + mt + ";base64," + base64.StdEncoding.EncodeToString(data)
}
