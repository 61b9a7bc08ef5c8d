package server

import (
	"fmt"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/sinergialabs/receipt-intake/internal/bot"
	"github.com/sinergialabs/receipt-intake/internal/journal"
)

// Server owns the HTTP surface: the webhook handshake and event intake, the
// liveness route, and the operator export.
type Server struct {
	machine     *bot.Machine
	journal     *journal.Journal
	verifyToken string
	logger      *slog.Logger
}

func New(verifyToken string, machine *bot.Machine, jr *journal.Journal, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		machine:     machine,
		journal:     jr,
		verifyToken: verifyToken,
		logger:      logger,
	}
}

// Engine builds the gin engine with routes registered.
func (s *Server) Engine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	s.registerRoutes(engine)
	return engine
}

func (s *Server) registerRoutes(r *gin.Engine) {
	r.GET("/", s.handleRoot)
	r.GET("/webhook/whatsapp", s.handleVerify)
	r.POST("/webhook/whatsapp", s.handleEvent)
	r.GET("/admin/export.xlsx", s.handleExport)
}

// Addr returns a normalized listen address for the given port.
func Addr(port string) string {
	if port == "" {
		return ":3000"
	}
	if port[0] == ':' {
		return port
	}
	return fmt.Sprintf(":%s", port)
}
