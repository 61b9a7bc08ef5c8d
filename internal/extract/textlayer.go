package extract

import (
	"bytes"
	"io"

	"github.com/ledongthuc/pdf"
)

// TextLayer attempts a best-effort parse of the machine-readable text embedded
// in a PDF. Any failure returns "" rather than an error: many documents are
// legitimately text-free (scanned images inside a PDF container), so parse
// failure is an expected outcome. The parser can panic on hostile input, so
// the whole call is fenced with recover. No network I/O.
func TextLayer(data []byte) (text string) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return ""
	}
	plain, err := reader.GetPlainText()
	if err != nil {
		return ""
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return ""
	}
	return buf.String()
}
