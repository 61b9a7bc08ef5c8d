package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/sinergialabs/receipt-intake/internal/bot"
	"github.com/sinergialabs/receipt-intake/internal/channel"
	"github.com/sinergialabs/receipt-intake/internal/config"
	"github.com/sinergialabs/receipt-intake/internal/extract"
	"github.com/sinergialabs/receipt-intake/internal/journal"
	"github.com/sinergialabs/receipt-intake/internal/llm/openai"
	"github.com/sinergialabs/receipt-intake/internal/server"
	"github.com/sinergialabs/receipt-intake/internal/submit"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := config.Load()
	cfg.LogStartup(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	chanClient := channel.NewClient(channel.Config{
		BaseURL:       cfg.Channel.GraphBaseURL,
		AccessToken:   cfg.Channel.AccessToken,
		PhoneNumberID: cfg.Channel.PhoneNumberID,
		Timeout:       cfg.Channel.MediaTimeout,
	}, logger)

	fields := openai.NewClient(openai.Config{
		APIKey:      cfg.LLM.APIKey,
		BaseURL:     cfg.LLM.BaseURL,
		Model:       cfg.LLM.Model,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	}, logger)

	raster := extract.NewRasterizer(extract.RasterConfig{
		Pdftoppm: cfg.Raster.Pdftoppm,
		DPI:      cfg.Raster.DPI,
	}, logger)

	orchestrator := extract.NewOrchestrator(chanClient, fields, raster, logger)

	jr := journal.New()
	submitter := submit.NewClient(submit.Config{
		SinkURL: cfg.Downstream.SinkURL,
		Timeout: cfg.Downstream.Timeout,
	}, jr, logger)

	machine := bot.NewMachine(bot.NewPendingStore(), orchestrator, chanClient, submitter, logger)

	srv := server.New(cfg.Channel.VerifyToken, machine, jr, logger)
	httpSrv := &http.Server{
		Addr:              server.Addr(cfg.Server.Port),
		Handler:           srv.Engine(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server.listening", "addr", httpSrv.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server.failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("server.shutting_down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server.shutdown_error", "error", err)
	}
	logger.Info("server.stopped")
}
