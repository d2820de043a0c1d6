package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/openduel/duel-server-go/internal/cards"
	"github.com/openduel/duel-server-go/internal/config"
	"github.com/openduel/duel-server-go/internal/game"
	"github.com/openduel/duel-server-go/internal/match"
	"github.com/openduel/duel-server-go/internal/repository"
	"github.com/openduel/duel-server-go/internal/server"
)

var (
	configPath = flag.String("config", "", "path to configuration file")
	version    = "dev" // set via ldflags during build
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger, err := initLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("starting duel server",
		zap.String("version", version),
		zap.String("address", cfg.Server.Address),
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	decks, err := cards.LoadDeckDir(cfg.Decks.Dir)
	if err != nil {
		logger.Fatal("failed to load deck lists",
			zap.String("dir", cfg.Decks.Dir),
			zap.Error(err))
	}
	logger.Info("deck lists loaded",
		zap.Int("count", len(decks)),
		zap.String("dir", cfg.Decks.Dir),
	)

	var history *repository.HistoryStore
	if cfg.Database.DSN != "" {
		history, err = repository.NewHistoryStore(ctx, cfg.Database.DSN, logger)
		if err != nil {
			logger.Fatal("failed to connect match history store", zap.Error(err))
		}
		defer history.Close()
		logger.Info("match history store initialized")
	} else {
		logger.Info("match history disabled, no database DSN configured")
	}

	var recorder *game.ReplayRecorder
	if cfg.Replays.Enabled {
		recorder = game.NewReplayRecorder(logger, cfg.Replays.Dir)
		logger.Info("replay recorder initialized", zap.String("dir", cfg.Replays.Dir))
	}

	games := repository.NewGameRepository()

	hub := server.NewHub(logger)
	go hub.Run()

	manager := match.NewManager(logger, games, decks, recorder, history, hub)
	logger.Info("match manager initialized", zap.Strings("decks", manager.DeckNames()))

	handler := server.NewGameHandler(manager, history, logger)

	httpServer := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: server.NewRouter(handler, hub, logger),
	}

	go func() {
		logger.Info("starting HTTP server", zap.String("address", cfg.Server.Address))
		if serveErr := httpServer.ListenAndServe(); serveErr != nil && !errors.Is(serveErr, http.ErrServerClosed) {
			logger.Error("HTTP server error", zap.Error(serveErr))
		}
	}()

	// Wait for termination signal
	sig := <-sigChan
	logger.Info("received shutdown signal", zap.String("signal", sig.String()))

	logger.Info("shutting down gracefully...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown error", zap.Error(err))
	}

	logger.Info("duel server stopped")
}

// initLogger initializes the zap logger based on configuration
func initLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	switch cfg.Level {
	case "debug":
		level = zapcore.DebugLevel
	case "info":
		level = zapcore.InfoLevel
	case "warn":
		level = zapcore.WarnLevel
	case "error":
		level = zapcore.ErrorLevel
	default:
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
