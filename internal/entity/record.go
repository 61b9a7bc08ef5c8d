package entity

import "time"

// Record is the canonical six-field representation of an extracted receipt,
// independent of the source format. Every field defaults to the empty string,
// never null, so downstream consumers need no nil checks.
type Record struct {
	Supplier      string `json:"supplier"`
	TaxID         string `json:"tax_id"`
	Amount        string `json:"amount"`
	DocumentDate  string `json:"document_date"`
	Description   string `json:"description"`
	RawText       string `json:"raw_text"`
	SourceFileURL string `json:"source_file_url"`
}

// IsEmpty reports whether no structured field was extracted. RawText and
// SourceFileURL do not count: a record can carry raw text for a human to read
// even when the model produced nothing structured.
func (r Record) IsEmpty() bool {
	return r.Supplier == "" && r.TaxID == "" && r.Amount == "" &&
		r.DocumentDate == "" && r.Description == ""
}

// PendingEntry is an extracted-but-unconfirmed record awaiting the sender's
// explicit approval. At most one exists per sender at any time.
type PendingEntry struct {
	SenderID  string
	Record    Record
	CreatedAt time.Time
}
