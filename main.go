package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/mfadhilr/typerace/internal/config"
	"github.com/mfadhilr/typerace/internal/handlers"
	"github.com/mfadhilr/typerace/internal/observability"
	"github.com/mfadhilr/typerace/internal/services"
	"github.com/mfadhilr/typerace/internal/textgen"
)

func main() {
	configPath := flag.String("config", "", "path to config file (optional)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		os.Stderr.WriteString("config: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger, err := observability.NewLogger(cfg.Logging)
	if err != nil {
		os.Stderr.WriteString("logger: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	metrics := services.NewMetrics()
	store := services.NewRoomStore()
	registry := services.NewConnectionRegistry()
	hub := services.NewHub(metrics, logger)
	grace := services.NewGraceCoordinator(cfg.Game.GracePeriod, logger)
	bots := services.NewBotEngine(store, hub, cfg.Game.BotTickBase, logger)
	generator := textgen.NewAnthropicGenerator(cfg.TextGen, logger)

	game := services.NewGameService(store, registry, hub, generator, bots, grace, metrics, cfg.TextGen.Timeout, logger)

	mux := http.NewServeMux()
	mux.Handle("/ws", handlers.NewWSHandler(hub, game, logger))
	mux.Handle("/health", handlers.NewHealthHandler())
	mux.Handle("/api/rooms", handlers.NewRoomsHandler(store))
	mux.Handle("/metrics", handlers.NewMetricsHandler(metrics))

	server := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("server listening", zap.String("addr", cfg.Server.Addr()))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server error", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown error", zap.Error(err))
	}
}
