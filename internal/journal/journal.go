package journal

import (
	"sync"
	"time"

	"github.com/sinergialabs/receipt-intake/internal/entity"
)

// Entry is one confirmed-and-submitted record.
type Entry struct {
	SenderID    string
	Record      entity.Record
	SubmittedAt time.Time
}

// Journal keeps the submissions made during this process lifetime, for the
// operator export. It is append-only and deliberately not persisted.
type Journal struct {
	mu      sync.Mutex
	entries []Entry
}

func New() *Journal {
	return &Journal{}
}

// Record implements submit.Recorder.
func (j *Journal) Record(senderID string, rec entity.Record, submittedAt time.Time) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, Entry{SenderID: senderID, Record: rec, SubmittedAt: submittedAt})
}

// Entries returns a snapshot in submission order.
func (j *Journal) Entries() []Entry {
	j.mu.Lock()
	defer j.mu.Unlock()
	out := make([]Entry, len(j.entries))
	copy(out, j.entries)
	return out
}

// Len reports how many submissions were journaled.
func (j *Journal) Len() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.entries)
}
