package server

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sinergialabs/receipt-intake/internal/channel"
)

func (s *Server) handleRoot(c *gin.Context) {
	c.String(http.StatusOK, "BOT OK")
}

// handleVerify answers the channel's subscription handshake: echo the
// challenge when the mode and shared secret match, 403 otherwise.
func (s *Server) handleVerify(c *gin.Context) {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "subscribe" && s.verifyToken != "" && token == s.verifyToken {
		c.String(http.StatusOK, challenge)
		return
	}
	s.logger.Warn("webhook.verify.rejected", "mode", mode)
	c.String(http.StatusForbidden, "forbidden")
}

// handleEvent ingests one webhook delivery. Malformed or empty payloads are
// acknowledged with an ignored status, never an error status, so the channel
// does not retry them.
func (s *Server) handleEvent(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		s.logger.Warn("webhook.event.read_error", "error", err)
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	msg, ok := channel.ParseInbound(body)
	if !ok {
		s.logger.Info("webhook.event.ignored", "bytes", len(body))
		c.JSON(http.StatusOK, gin.H{"status": "ignored"})
		return
	}

	s.machine.HandleEvent(c.Request.Context(), msg)
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleExport(c *gin.Context) {
	data, err := s.journal.ExportXLSX(s.logger)
	if err != nil {
		s.logger.Error("export.failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}
	c.Header("Content-Disposition", `attachment; filename="submissions.xlsx"`)
	c.Data(http.StatusOK,
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
