package bot

import (
	"context"
	"errors"
	"log/slog"

	"github.com/sinergialabs/receipt-intake/constants"
	"github.com/sinergialabs/receipt-intake/internal/channel"
	"github.com/sinergialabs/receipt-intake/internal/entity"
	"github.com/sinergialabs/receipt-intake/internal/extract"
)

// Notifier sends one text reply back to a sender via the channel.
type Notifier interface {
	SendText(ctx context.Context, to, body string) error
}

// Submitter posts a confirmed record to the downstream bookkeeping sink.
type Submitter interface {
	Submit(ctx context.Context, senderID string, rec entity.Record) error
}

// Machine is the per-sender two-state conversation: IDLE (no pending entry)
// and awaiting confirmation (pending entry present). Senders are fully
// independent; one sender's pending entry never affects another's.
type Machine struct {
	store     *PendingStore
	extractor extract.Extractor
	notifier  Notifier
	submitter Submitter
	logger    *slog.Logger
}

func NewMachine(store *PendingStore, ex extract.Extractor, n Notifier, sub Submitter, logger *slog.Logger) *Machine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Machine{store: store, extractor: ex, notifier: n, submitter: sub, logger: logger}
}

// HandleEvent interprets one inbound message and drives the pending store,
// the extraction chain, and the submitter. Every failure category becomes one
// user-facing notice; nothing here is allowed to crash the per-event task.
func (m *Machine) HandleEvent(ctx context.Context, msg channel.InboundMessage) {
	switch msg.Kind {
	case channel.KindText:
		m.handleText(ctx, msg)
	case channel.KindAttachment:
		m.handleAttachment(ctx, msg)
	default:
		m.reply(ctx, msg.SenderID, replyUnsupportedType)
	}
}

func (m *Machine) handleText(ctx context.Context, msg channel.InboundMessage) {
	if !constants.IsConfirmation(msg.Body) {
		m.reply(ctx, msg.SenderID, replyAck)
		return
	}

	rec, ok := m.store.Take(msg.SenderID)
	if !ok {
		m.logger.Info("bot.confirm.nothing_pending", "sender", msg.SenderID)
		m.reply(ctx, msg.SenderID, replyNothingPending)
		return
	}

	// The entry is consumed either way: no automatic retry, the user resends.
	if err := m.submitter.Submit(ctx, msg.SenderID, rec); err != nil {
		m.logger.Error("bot.confirm.submit_failed", "sender", msg.SenderID, "error", err)
		m.reply(ctx, msg.SenderID, replySubmitFailed)
		return
	}
	m.logger.Info("bot.confirm.submitted", "sender", msg.SenderID, "supplier", rec.Supplier, "amount", rec.Amount)
	m.reply(ctx, msg.SenderID, replySubmitted)
}

func (m *Machine) handleAttachment(ctx context.Context, msg channel.InboundMessage) {
	att := extract.Attachment{MediaID: msg.MediaID, MimeType: msg.MimeType}
	rec, err := m.extractor.Extract(ctx, att)
	if err != nil {
		m.logger.Error("bot.attachment.extract_failed",
			"sender", msg.SenderID, "media_id", msg.MediaID, "mime_type", msg.MimeType, "error", err)
		m.reply(ctx, msg.SenderID, noticeFor(err))
		return
	}

	m.store.Put(msg.SenderID, rec)
	m.logger.Info("bot.attachment.pending",
		"sender", msg.SenderID, "structured_empty", rec.IsEmpty())
	m.reply(ctx, msg.SenderID, BuildSummary(rec))
}

func (m *Machine) reply(ctx context.Context, to, body string) {
	if err := m.notifier.SendText(ctx, to, body); err != nil {
		m.logger.Error("bot.reply_failed", "to", to, "error", err)
	}
}

// noticeFor maps each extraction failure category to its user notice.
func noticeFor(err error) string {
	switch {
	case errors.Is(err, extract.ErrUnsupportedAttachment):
		return replyUnsupportedFormat
	case errors.Is(err, channel.ErrMediaUnavailable):
		return replyMediaFailed
	default:
		return replyExtractionFailed
	}
}
