package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"guildwarden/internal/analytics"
	"guildwarden/internal/bot"
	"guildwarden/internal/config"
	"guildwarden/internal/mcpbridge"
	"guildwarden/internal/modules/audit"
	"guildwarden/internal/storage"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := config.BuildLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	store, err := storage.New(cfg.DatabasePath)
	if err != nil {
		logger.Fatal("storage init failed", zap.Error(err))
	}
	defer store.Close()
	if err := store.Migrate(); err != nil {
		logger.Fatal("migrations failed", zap.Error(err))
	}

	analyticsService := analytics.New(store)

	// "guildwarden mcp" serves the analytics bridge over stdio instead of
	// connecting to discord. Intended for local agent tooling.
	if len(os.Args) > 1 && os.Args[1] == "mcp" {
		if !cfg.MCP.Enabled {
			logger.Fatal("mcp bridge is disabled in the configuration")
		}
		bridge := mcpbridge.New(store, analyticsService)
		if err := bridge.Serve(); err != nil {
			logger.Fatal("mcp bridge failed", zap.Error(err))
		}
		return
	}

	auditLogger := audit.NewLogger(store, logger)

	botSvc, err := bot.New(cfg, logger, store, auditLogger, analyticsService)
	if err != nil {
		logger.Fatal("bot init failed", zap.Error(err))
	}

	if err := botSvc.Start(); err != nil {
		logger.Fatal("bot start failed", zap.Error(err))
	}
	logger.Info("bot started")

	var server *http.Server
	if cfg.Health.Enabled {
		server = &http.Server{Addr: cfg.Health.Addr}
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ok"))
		})
		go func() {
			logger.Info("health endpoint enabled", zap.String("addr", cfg.Health.Addr))
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("health server error", zap.Error(err))
			}
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	logger.Info("shutdown requested")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if server != nil {
		_ = server.Shutdown(ctx)
	}
	botSvc.Close(ctx)
}
