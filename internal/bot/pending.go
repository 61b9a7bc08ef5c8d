package bot

import (
	"sync"
	"time"

	"github.com/sinergialabs/receipt-intake/internal/entity"
)

// PendingStore maps a sender to at most one unconfirmed record. Put, Take and
// Clear are linearizable per sender: each sender has its own slot mutex, so a
// confirmation never reads a stale entry concurrently with a new attachment
// overwriting it, and unrelated senders never serialize against each other.
// The outer map lock is held only for slot creation.
type PendingStore struct {
	mu    sync.RWMutex
	slots map[string]*pendingSlot
}

type pendingSlot struct {
	mu    sync.Mutex
	entry *entity.PendingEntry
}

func NewPendingStore() *PendingStore {
	return &PendingStore{slots: make(map[string]*pendingSlot)}
}

func (s *PendingStore) slotFor(senderID string) *pendingSlot {
	s.mu.RLock()
	sl, ok := s.slots[senderID]
	s.mu.RUnlock()
	if ok {
		return sl
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sl, ok = s.slots[senderID]; ok {
		return sl
	}
	sl = &pendingSlot{}
	s.slots[senderID] = sl
	return sl
}

// Put stores a record for the sender, unconditionally overwriting any existing
// entry: if a user sends a second document before confirming the first, the
// newest document wins and the old one is discarded.
func (s *PendingStore) Put(senderID string, rec entity.Record) {
	sl := s.slotFor(senderID)
	sl.mu.Lock()
	defer sl.mu.Unlock()
	sl.entry = &entity.PendingEntry{
		SenderID:  senderID,
		Record:    rec,
		CreatedAt: time.Now().UTC(),
	}
}

// Take atomically reads and removes the sender's entry. A duplicate confirming
// message arriving twice is a no-op on the second occurrence: it reports
// nothing pending rather than re-submitting.
func (s *PendingStore) Take(senderID string) (entity.Record, bool) {
	sl := s.slotFor(senderID)
	sl.mu.Lock()
	defer sl.mu.Unlock()
	if sl.entry == nil {
		return entity.Record{}, false
	}
	rec := sl.entry.Record
	sl.entry = nil
	return rec, true
}

// Clear drops any entry for the sender.
func (s *PendingStore) Clear(senderID string) {
	sl := s.slotFor(senderID)
	sl.mu.Lock()
	defer sl.mu.Unlock()
	sl.entry = nil
}

// HasPending reports whether the sender is awaiting confirmation.
func (s *PendingStore) HasPending(senderID string) bool {
	sl := s.slotFor(senderID)
	sl.mu.Lock()
	defer sl.mu.Unlock()
	return sl.entry != nil
}
