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

	"fintrack/internal/auth"
	"fintrack/internal/config"
	"fintrack/internal/mail"
	"fintrack/internal/server"
	"fintrack/internal/service"
	"fintrack/internal/storage/sqlite"
	"fintrack/pkg/logging"
)

func main() {
	logging.Setup()
	logger := slog.Default()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		logger.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}
	defer store.Close()
	logger.Info("Storage initialized", "database", cfg.DBPath)

	mailer, err := mail.New(mail.Options{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPass,
		From:     cfg.EmailFrom,
	}, logger)
	if err != nil {
		logger.Error("Failed to initialize mailer", "error", err)
		os.Exit(1)
	}
	if !mailer.Enabled() {
		logger.Warn("SMTP not configured, email features disabled")
	}

	accessTokens := auth.NewJWTManager(cfg.JWTSecret, cfg.AccessTokenTTL)
	refreshTokens := auth.NewJWTManager(cfg.JWTRefreshSecret, cfg.RefreshTokenTTL)
	authenticator := auth.NewPasswordAuthenticator(store)

	authService := service.NewAuthService(authenticator, store, accessTokens, refreshTokens, mailer, service.AuthOptions{
		AccessTTL:       cfg.AccessTokenTTL,
		RefreshTTL:      cfg.RefreshTokenTTL,
		GuestAccessTTL:  cfg.GuestAccessTTL,
		GuestRefreshTTL: cfg.GuestRefreshTTL,
		ResetTTL:        cfg.ResetTokenTTL,
		FrontendURL:     cfg.FrontendURL,
	}, logger)
	transactionService := service.NewTransactionService(store, logger)
	tripService := service.NewTripService(store, logger)
	reportService := service.NewReportService(store, transactionService, mailer, logger)

	srv := server.New(authService, transactionService, tripService, reportService, accessTokens, cfg.AllowedOrigins, logger)

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		logger.Error("Shutdown failed", "error", err)
	}
}
