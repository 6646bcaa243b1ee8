package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/Dikshant005/Titan-Strength/docs"

	"github.com/Dikshant005/Titan-Strength/internal/config"
	"github.com/Dikshant005/Titan-Strength/internal/db"
	"github.com/Dikshant005/Titan-Strength/internal/logger"
	"github.com/Dikshant005/Titan-Strength/internal/notification"
	"github.com/Dikshant005/Titan-Strength/internal/server"
	"github.com/Dikshant005/Titan-Strength/internal/subscription"
	"github.com/Dikshant005/Titan-Strength/internal/sweeper"
	"github.com/Dikshant005/Titan-Strength/internal/user"
)

// @title Titan Strength API
// @version 1.0
// @description Gym management backend: memberships, class booking, attendance and payments.
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {

	logger.Init()
	logger.Info("Starting Titan Strength application")
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	logger.Info("Connecting to database...")
	database, err := db.Connect(cfg.DatabaseURL)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()
	logger.Info("Database connected")

	if err := db.RunMigrations(database, "migrations"); err != nil {
		logger.Fatalf("Failed to run migrations: %v", err)
	}
	logger.Info("Migrations completed")

	mailer := notification.NewMailer(
		cfg.EmailFrom,
		cfg.EmailFromName,
		cfg.SMTPHost,
		cfg.SMTPPort,
		cfg.SMTPUser,
		cfg.SMTPPass,
		cfg.RedisAddr,
	)
	defer mailer.Close()
	logger.Info("Mailer initialized")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go mailer.StartWorker(ctx)

	notifier := notification.NewService(
		notification.NewRepository(database),
		user.NewRepository(database),
		mailer,
	)

	expiry := sweeper.New(
		subscription.NewRepository(database),
		sweeper.WithNotifier(notifier),
	)
	if err := expiry.Start(cfg.SweepOnStart); err != nil {
		logger.Fatalf("Failed to start expiry sweeper: %v", err)
	}

	srv := server.New(database, cfg, mailer)

	serverErrChan := make(chan error, 1)
	go func() {
		logger.Infof("Server starting on port %s", cfg.Port)
		if err := srv.Start(cfg.Port); err != nil && err != http.ErrServerClosed {
			serverErrChan <- err
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Infof("Received signal: %v", sig)
	case err := <-serverErrChan:
		logger.Errorf("Server error: %v", err)
	}

	logger.Info("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	cancel()
	expiry.Stop()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Error during server shutdown: %v", err)
	}

	logger.Info("Server stopped")
}
