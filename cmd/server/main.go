package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/hisaab-app/hisaab/internal/auth"
	"github.com/hisaab-app/hisaab/internal/config"
	"github.com/hisaab-app/hisaab/internal/feed"
	"github.com/hisaab-app/hisaab/internal/server"
	"github.com/hisaab-app/hisaab/internal/service"
	"github.com/hisaab-app/hisaab/internal/storage/sqlite"
	"github.com/hisaab-app/hisaab/pkg/logging"
)

func main() {
	// Missing .env is fine in deployed environments.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	logging.Setup(cfg.Log.Level)

	store, err := sqlite.New(cfg.DB.Path)
	if err != nil {
		slog.Error("Failed to open database", "path", cfg.DB.Path, "error", err)
		os.Exit(1)
	}
	defer store.Close()

	tokens := auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.TokenDuration)
	authenticator := auth.NewPasswordAuthenticator(store)
	hub := feed.NewHub(store)

	authSvc := service.NewAuthService(authenticator, tokens)
	groups := service.NewGroupService(store)
	expenses := service.NewExpenseService(store, groups, hub)

	srv := server.New(authSvc, groups, expenses, tokens)
	httpServer := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: srv.Router(cfg.Server.AllowedOrigins),
	}

	go func() {
		slog.Info("Starting server", "port", cfg.Server.Port)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		slog.Error("Forced shutdown", "error", err)
	}
}
