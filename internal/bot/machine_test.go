package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sinergialabs/receipt-intake/internal/channel"
	"github.com/sinergialabs/receipt-intake/internal/entity"
	"github.com/sinergialabs/receipt-intake/internal/extract"
)

type fakeExtractor struct {
	records map[string]entity.Record // keyed by media id
	err     error
	calls   int
}

func (f *fakeExtractor) Extract(_ context.Context, att extract.Attachment) (entity.Record, error) {
	f.calls++
	if f.err != nil {
		return entity.Record{}, f.err
	}
	return f.records[att.MediaID], nil
}

type fakeNotifier struct {
	sent []string // "to|body"
}

func (f *fakeNotifier) SendText(_ context.Context, to, body string) error {
	f.sent = append(f.sent, to+"|"+body)
	return nil
}

func (f *fakeNotifier) last() string {
	if len(f.sent) == 0 {
		return ""
	}
	return f.sent[len(f.sent)-1]
}

type fakeSubmitter struct {
	submitted []entity.Record
	senders   []string
	err       error
}

func (f *fakeSubmitter) Submit(_ context.Context, senderID string, rec entity.Record) error {
	if f.err != nil {
		return f.err
	}
	f.submitted = append(f.submitted, rec)
	f.senders = append(f.senders, senderID)
	return nil
}

func newTestMachine(ex *fakeExtractor, sub *fakeSubmitter) (*Machine, *fakeNotifier, *PendingStore) {
	n := &fakeNotifier{}
	store := NewPendingStore()
	return NewMachine(store, ex, n, sub, nil), n, store
}

func attachmentMsg(sender, mediaID, mime string) channel.InboundMessage {
	return channel.InboundMessage{SenderID: sender, Kind: channel.KindAttachment, MediaID: mediaID, MimeType: mime}
}

func textMsg(sender, body string) channel.InboundMessage {
	return channel.InboundMessage{SenderID: sender, Kind: channel.KindText, Body: body}
}

func TestScenarioImageThenConfirm(t *testing.T) {
	rec := entity.Record{
		Supplier:     "ACME",
		TaxID:        "12.345.678/0001-99",
		Amount:       "150.00",
		DocumentDate: "10/01/2025",
		Description:  "Materials",
		RawText:      "...",
	}
	ex := &fakeExtractor{records: map[string]entity.Record{"m1": rec}}
	sub := &fakeSubmitter{}
	m, n, store := newTestMachine(ex, sub)
	ctx := context.Background()

	m.HandleEvent(ctx, attachmentMsg("s1", "m1", "image/jpeg"))
	require.Len(t, n.sent, 1)
	assert.Contains(t, n.last(), "Fornecedor: ACME")
	assert.Contains(t, n.last(), "CNPJ: 12.345.678/0001-99")
	assert.Contains(t, n.last(), "Valor: 150.00")
	assert.Contains(t, n.last(), "*SIM*")
	assert.True(t, store.HasPending("s1"))

	m.HandleEvent(ctx, textMsg("s1", "SIM"))
	require.Len(t, sub.submitted, 1)
	assert.Equal(t, rec, sub.submitted[0])
	assert.Equal(t, "s1", sub.senders[0])
	assert.Contains(t, n.last(), "sucesso")
	assert.False(t, store.HasPending("s1"), "back to idle after submission")
}

func TestScenarioConfirmWithNothingPending(t *testing.T) {
	sub := &fakeSubmitter{}
	m, n, _ := newTestMachine(&fakeExtractor{}, sub)

	m.HandleEvent(context.Background(), textMsg("s1", "sim"))
	assert.Empty(t, sub.submitted, "no submitter call without a pending entry")
	assert.Contains(t, n.last(), "Nenhum lançamento pendente")
}

func TestScenarioSecondDocumentWins(t *testing.T) {
	ex := &fakeExtractor{records: map[string]entity.Record{
		"docA": {Supplier: "First"},
		"docB": {Supplier: "Second"},
	}}
	sub := &fakeSubmitter{}
	m, _, _ := newTestMachine(ex, sub)
	ctx := context.Background()

	m.HandleEvent(ctx, attachmentMsg("s1", "docA", "application/pdf"))
	m.HandleEvent(ctx, attachmentMsg("s1", "docB", "application/pdf"))
	m.HandleEvent(ctx, textMsg("s1", "SIM"))

	require.Len(t, sub.submitted, 1)
	assert.Equal(t, "Second", sub.submitted[0].Supplier, "confirming submits B, never A")
}

func TestScenarioEmptyRecordStillAwaitsConfirmation(t *testing.T) {
	// rasterization failure upstream degrades to an all-empty record
	ex := &fakeExtractor{records: map[string]entity.Record{"m1": {}}}
	m, n, store := newTestMachine(ex, &fakeSubmitter{})

	m.HandleEvent(context.Background(), attachmentMsg("s1", "m1", "application/pdf"))

	assert.True(t, store.HasPending("s1"), "empty extraction is not an error state")
	assert.Equal(t, strings.Count(n.last(), "N/D"), 5, "summary shows N/D for all five fields")
}

func TestDuplicateConfirmationIsNoOp(t *testing.T) {
	ex := &fakeExtractor{records: map[string]entity.Record{"m1": {Supplier: "ACME"}}}
	sub := &fakeSubmitter{}
	m, n, _ := newTestMachine(ex, sub)
	ctx := context.Background()

	m.HandleEvent(ctx, attachmentMsg("s1", "m1", "image/png"))
	m.HandleEvent(ctx, textMsg("s1", "SIM"))
	m.HandleEvent(ctx, textMsg("s1", "SIM"))

	assert.Len(t, sub.submitted, 1, "second confirmation must not re-submit")
	assert.Contains(t, n.last(), "Nenhum lançamento pendente")
}

func TestSubmitFailureConsumesEntry(t *testing.T) {
	ex := &fakeExtractor{records: map[string]entity.Record{"m1": {Supplier: "ACME"}}}
	sub := &fakeSubmitter{err: errors.New("sink down")}
	m, n, store := newTestMachine(ex, sub)
	ctx := context.Background()

	m.HandleEvent(ctx, attachmentMsg("s1", "m1", "image/png"))
	m.HandleEvent(ctx, textMsg("s1", "SIM"))

	assert.Contains(t, n.last(), "Não consegui enviar")
	assert.False(t, store.HasPending("s1"), "entry is consumed even on downstream failure")
}

func TestPlainTextGetsAck(t *testing.T) {
	m, n, _ := newTestMachine(&fakeExtractor{}, &fakeSubmitter{})
	m.HandleEvent(context.Background(), textMsg("s1", "bom dia"))
	assert.Equal(t, "s1|Recebido!", n.last())
}

func TestUnsupportedMessageKind(t *testing.T) {
	m, n, _ := newTestMachine(&fakeExtractor{}, &fakeSubmitter{})
	m.HandleEvent(context.Background(), channel.InboundMessage{SenderID: "s1", Kind: channel.KindUnsupported})
	assert.Contains(t, n.last(), "Envie texto, imagem ou PDF")
}

func TestExtractionFailureNotices(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		expect string
	}{
		{"unsupported attachment", fmt.Errorf("wrap: %w", extract.ErrUnsupportedAttachment), "Formato de arquivo não suportado"},
		{"media unavailable", fmt.Errorf("wrap: %w", channel.ErrMediaUnavailable), "Não consegui baixar"},
		{"extraction service", errors.New("boom"), "Não consegui ler o comprovante"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, n, store := newTestMachine(&fakeExtractor{err: tt.err}, &fakeSubmitter{})
			m.HandleEvent(context.Background(), attachmentMsg("s1", "m1", "image/png"))
			assert.Contains(t, n.last(), tt.expect)
			assert.False(t, store.HasPending("s1"), "failed extraction never creates a pending entry")
		})
	}
}

func TestSendersDoNotInterfere(t *testing.T) {
	ex := &fakeExtractor{records: map[string]entity.Record{"m1": {Supplier: "ForS1"}}}
	sub := &fakeSubmitter{}
	m, n, _ := newTestMachine(ex, sub)
	ctx := context.Background()

	m.HandleEvent(ctx, attachmentMsg("s1", "m1", "image/png"))
	m.HandleEvent(ctx, textMsg("s2", "SIM"))

	assert.Empty(t, sub.submitted, "s2 cannot confirm s1's pending entry")
	assert.Contains(t, n.last(), "Nenhum lançamento pendente")
}
