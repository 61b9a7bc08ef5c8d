package llm

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"strings"
)

// NormalizeAndSanitizeJSON
// - Renames known synonyms the model drifts into (vendor -> supplier, date -> document_date, ...)
// - Coerces numeric amounts to strings
// - Replaces nulls with empty strings
// - Removes unknown keys (strict additionalProperties = false friendliness)
func NormalizeAndSanitizeJSON(raw []byte, logger *slog.Logger) ([]byte, []string, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, nil, fmt.Errorf("sanitize: decode: %w", err)
	}

	dropped := make([]string, 0, 8)
	renamed := func(from, to string) {
		if v, ok := m[from]; ok {
			// don't overwrite existing value if already present
			if _, exists := m[to]; !exists {
				m[to] = v
			}
			delete(m, from)
			dropped = append(dropped, from+"->"+to)
		}
	}

	// 1) rename synonyms to our schema (English and the Portuguese names the
	// model sometimes answers with for Brazilian receipts)
	renamed("vendor", "supplier")
	renamed("merchant", "supplier")
	renamed("fornecedor", "supplier")
	renamed("cnpj", "tax_id")
	renamed("cpf", "tax_id")
	renamed("total", "amount")
	renamed("valor", "amount")
	renamed("date", "document_date")
	renamed("data", "document_date")
	renamed("descricao", "description")
	renamed("texto_completo", "raw_text")
	renamed("full_text", "raw_text")

	// 2) every canonical field must be a string; coerce or blank out
	for _, k := range canonicalFields {
		v, ok := m[k]
		if !ok {
			m[k] = ""
			continue
		}
		switch t := v.(type) {
		case string:
			m[k] = strings.TrimSpace(t)
		case float64:
			if k == "amount" {
				m[k] = fmt.Sprintf("%.2f", t)
			} else {
				m[k] = strings.TrimRight(strings.TrimRight(fmt.Sprintf("%f", t), "0"), ".")
			}
			dropped = append(dropped, k+"(number)")
		case nil:
			m[k] = ""
			dropped = append(dropped, k+"(null)")
		default:
			m[k] = ""
			dropped = append(dropped, k+"(type)")
		}
	}

	// 3) remove unknown keys
	allowed := make(map[string]struct{}, len(canonicalFields))
	for _, k := range canonicalFields {
		allowed[k] = struct{}{}
	}
	for k := range maps.Clone(m) {
		if _, ok := allowed[k]; !ok {
			delete(m, k)
			dropped = append(dropped, k+"(unknown)")
		}
	}

	out, err := json.Marshal(m)
	if err != nil {
		return nil, dropped, fmt.Errorf("sanitize: encode: %w", err)
	}
	if len(dropped) > 0 {
		logger.Warn("llm.extract.normalize_sanitize", "dropped", dropped)
	}
	return out, dropped, nil
}
