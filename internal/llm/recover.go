package llm

import (
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/kaptinlin/jsonrepair"

	"github.com/sinergialabs/receipt-intake/internal/entity"
)

// RecoverRecord turns raw model output into a canonical record. Recovery steps,
// in order: strip code fences, locate the first balanced {...} span, parse as
// JSON, repair with jsonrepair when plain parsing fails, sanitize field names
// and types, and validate against the record schema. ok is false only when no
// step produced a schema-valid object; the caller then degrades to an
// empty-fields record carrying the unparsed reply, never an error.
func RecoverRecord(content string, logger *slog.Logger) (entity.Record, bool) {
	if logger == nil {
		logger = slog.Default()
	}

	span := firstBalancedObject(StripCodeFences(content))
	if span == "" {
		logger.Warn("llm.recover.no_object", "content_len", len(content))
		return entity.Record{}, false
	}

	raw := []byte(span)
	var probe map[string]any
	if err := json.Unmarshal(raw, &probe); err != nil {
		repaired, rErr := jsonrepair.JSONRepair(span)
		if rErr != nil {
			logger.Warn("llm.recover.repair_failed", "error", rErr, "parse_error", err)
			return entity.Record{}, false
		}
		if uErr := json.Unmarshal([]byte(repaired), &probe); uErr != nil {
			logger.Warn("llm.recover.repaired_still_invalid", "error", uErr)
			return entity.Record{}, false
		}
		logger.Info("llm.recover.repair_applied", "before", len(span), "after", len(repaired))
		raw = []byte(repaired)
	}

	schema := BuildRecordJSONSchema()
	if err := ValidateJSONAgainstSchema(schema, raw); err != nil {
		cleaned, dropped, sErr := NormalizeAndSanitizeJSON(raw, logger)
		if sErr != nil {
			logger.Warn("llm.recover.sanitize_failed", "error", sErr)
			return entity.Record{}, false
		}
		if vErr := ValidateJSONAgainstSchema(schema, cleaned); vErr != nil {
			logger.Warn("llm.recover.schema_validation_failed", "error", vErr, "dropped", dropped)
			return entity.Record{}, false
		}
		raw = cleaned
	}

	var rec entity.Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		logger.Warn("llm.recover.unmarshal_failed", "error", err)
		return entity.Record{}, false
	}
	return rec, true
}

// StripCodeFences removes markdown fence markup the model may wrap its answer
// in, e.g. ```json ... ```.
func StripCodeFences(s string) string {
	s = strings.ReplaceAll(s, "```json", "")
	s = strings.ReplaceAll(s, "```JSON", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}

// firstBalancedObject returns the first {...} span with balanced braces,
// respecting string literals and escapes. Empty when none exists.
func firstBalancedObject(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	// unbalanced: hand the tail to the repair step
	return s[start:]
}
