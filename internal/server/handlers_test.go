package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sinergialabs/receipt-intake/internal/bot"
	"github.com/sinergialabs/receipt-intake/internal/entity"
	"github.com/sinergialabs/receipt-intake/internal/extract"
	"github.com/sinergialabs/receipt-intake/internal/journal"
)

type stubExtractor struct {
	rec entity.Record
}

func (s stubExtractor) Extract(_ context.Context, _ extract.Attachment) (entity.Record, error) {
	return s.rec, nil
}

type stubNotifier struct {
	sent []string
}

func (s *stubNotifier) SendText(_ context.Context, _, body string) error {
	s.sent = append(s.sent, body)
	return nil
}

type stubSubmitter struct {
	count int
}

func (s *stubSubmitter) Submit(_ context.Context, _ string, _ entity.Record) error {
	s.count++
	return nil
}

func newTestServer(t *testing.T) (*gin.Engine, *stubNotifier, *stubSubmitter, *journal.Journal) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	n := &stubNotifier{}
	sub := &stubSubmitter{}
	jr := journal.New()
	machine := bot.NewMachine(bot.NewPendingStore(),
		stubExtractor{rec: entity.Record{Supplier: "ACME"}}, n, sub, nil)
	srv := New("secret-token", machine, jr, nil)
	return srv.Engine(), n, sub, jr
}

func TestRootRoute(t *testing.T) {
	engine, _, _, _ := newTestServer(t)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "BOT OK", w.Body.String())
}

func TestVerifyHandshakeOK(t *testing.T) {
	engine, _, _, _ := newTestServer(t)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet,
		"/webhook/whatsapp?hub.mode=subscribe&hub.verify_token=secret-token&hub.challenge=12345", nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "12345", w.Body.String())
}

func TestVerifyHandshakeRejected(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"wrong token", "/webhook/whatsapp?hub.mode=subscribe&hub.verify_token=wrong&hub.challenge=1"},
		{"wrong mode", "/webhook/whatsapp?hub.mode=unsubscribe&hub.verify_token=secret-token&hub.challenge=1"},
		{"missing params", "/webhook/whatsapp"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine, _, _, _ := newTestServer(t)
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.url, nil))
			assert.Equal(t, http.StatusForbidden, w.Code)
		})
	}
}

func TestEventMalformedIsIgnoredWith200(t *testing.T) {
	engine, n, _, _ := newTestServer(t)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhook/whatsapp", strings.NewReader(`{"entry":`))
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code, "malformed payloads must not trigger channel retries")
	var resp map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ignored", resp["status"])
	assert.Empty(t, n.sent)
}

func TestEventAttachmentFlow(t *testing.T) {
	engine, n, _, _ := newTestServer(t)
	body := `{"entry":[{"changes":[{"value":{"messages":[
		{"from":"5511999998888","type":"image","image":{"id":"m1","mime_type":"image/jpeg"}}
	]}}]}]}`

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/webhook/whatsapp", strings.NewReader(body)))

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, n.sent, 1)
	assert.Contains(t, n.sent[0], "Fornecedor: ACME")
}

func TestEventConfirmFlow(t *testing.T) {
	engine, _, sub, _ := newTestServer(t)
	attach := `{"entry":[{"changes":[{"value":{"messages":[
		{"from":"s1","type":"image","image":{"id":"m1","mime_type":"image/jpeg"}}
	]}}]}]}`
	confirm := `{"entry":[{"changes":[{"value":{"messages":[
		{"from":"s1","type":"text","text":{"body":"SIM"}}
	]}}]}]}`

	engine.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/webhook/whatsapp", strings.NewReader(attach)))
	engine.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/webhook/whatsapp", strings.NewReader(confirm)))

	assert.Equal(t, 1, sub.count)
}

func TestExportRoute(t *testing.T) {
	engine, _, _, jr := newTestServer(t)
	jr.Record("s1", entity.Record{Supplier: "ACME"}, time.Now().UTC())

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/export.xlsx", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		w.Header().Get("Content-Type"))
	assert.NotZero(t, w.Body.Len())
}
