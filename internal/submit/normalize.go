package submit

import (
	"strings"
	"time"
)

// NormalizePhone converts a channel sender id into the downstream system's
// national phone format. Input: E.164 digits with country code, with or
// without a leading "+", as WhatsApp delivers them (e.g. "5511999998888").
// Output: the national significant number for Brazilian ids (the leading 55
// is stripped when the remainder is a valid 10- or 11-digit number); any
// other input is returned with non-digits removed and nothing stripped.
func NormalizePhone(raw string) string {
	digits := keepDigits(raw)
	if strings.HasPrefix(digits, "55") {
		rest := digits[2:]
		if len(rest) == 10 || len(rest) == 11 {
			return rest
		}
	}
	return digits
}

func keepDigits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeDate converts a document date to ISO form. Input: "DD/MM/YYYY" as
// printed on Brazilian receipts, or an already-ISO "YYYY-MM-DD". Output:
// "YYYY-MM-DD". Anything unrecognized is returned trimmed but unchanged, so
// no information is lost on the way downstream.
func NormalizeDate(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	for _, layout := range []string{"02/01/2006", "2/1/2006"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	if _, err := time.Parse("2006-01-02", s); err == nil {
		return s
	}
	return s
}
